package models

import "time"

// Snapshot types accepted by AnalyticsSnapshot.SnapshotType.
const (
	SnapshotDaily   = "daily"
	SnapshotWeekly  = "weekly"
	SnapshotMonthly = "monthly"
)

// AnalyticsSnapshot is a pre-aggregated rollup written by the snapshot job.
// Scope is either one country, one user, or global (both nil). Live queries
// never depend on these rows.
type AnalyticsSnapshot struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SnapshotType string    `gorm:"size:10;index:idx_snap_scope,unique;not null" json:"snapshot_type"`
	Date         time.Time `gorm:"type:date;index;index:idx_snap_scope,unique;not null" json:"date"`
	CountryID    *uint     `gorm:"index:idx_snap_scope,unique" json:"country_id"`
	UserID       *uint     `gorm:"index:idx_snap_scope,unique" json:"user_id"`

	TotalViews  uint `gorm:"default:0" json:"total_views"`
	TotalBlogs  uint `gorm:"default:0" json:"total_blogs"`
	UniqueUsers uint `gorm:"default:0" json:"unique_users"`

	AvgResponseTime float64 `gorm:"default:0" json:"avg_response_time"`
	CacheHitRate    float64 `gorm:"default:0" json:"cache_hit_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
