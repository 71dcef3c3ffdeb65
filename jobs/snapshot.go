package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blogmetrics/analytics"
	"blogmetrics/models"
)

// SnapshotManager schedules the periodic rollup of analytics snapshots.
// Snapshots are derived data: the live endpoints never read them, so a
// failed run only delays the rollup.
type SnapshotManager struct {
	engine *cron.Cron
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewSnapshotManager creates a manager bound to the given database.
func NewSnapshotManager(db *gorm.DB, logger *zap.SugaredLogger) *SnapshotManager {
	return &SnapshotManager{
		engine: cron.New(),
		db:     db,
		logger: logger,
	}
}

// Start registers the daily/weekly/monthly jobs and starts the scheduler.
func (m *SnapshotManager) Start() error {
	schedules := map[string]string{
		models.SnapshotDaily:   "@daily",
		models.SnapshotWeekly:  "0 0 * * 1",
		models.SnapshotMonthly: "0 0 1 * *",
	}
	for snapshotType, spec := range schedules {
		st := snapshotType
		if _, err := m.engine.AddFunc(spec, func() { m.run(st) }); err != nil {
			return err
		}
	}
	m.engine.Start()
	m.logger.Info("snapshot scheduler started")
	return nil
}

// Stop halts the scheduler; running jobs finish on their own.
func (m *SnapshotManager) Stop() {
	m.engine.Stop()
	m.logger.Info("snapshot scheduler stopped")
}

func (m *SnapshotManager) run(snapshotType string) {
	if err := BuildSnapshot(m.db, snapshotType, time.Now()); err != nil {
		m.logger.Errorf("snapshot build failed type=%s err=%v", snapshotType, err)
		return
	}
	m.logger.Infof("snapshot built type=%s", snapshotType)
}

// SnapshotPeriod returns the [start, end) bounds of the completed period a
// snapshot of the given type covers, anchored at now. Daily covers yesterday,
// weekly the previous Monday-to-Monday week, monthly the previous month.
func SnapshotPeriod(snapshotType string, now time.Time) (start, end time.Time) {
	switch snapshotType {
	case models.SnapshotWeekly:
		end = analytics.TruncatePeriod(now, analytics.RangeWeek)
		return end.AddDate(0, 0, -7), end
	case models.SnapshotMonthly:
		end = analytics.TruncatePeriod(now, analytics.RangeMonth)
		return end.AddDate(0, -1, 0), end
	default:
		end = analytics.TruncatePeriod(now, analytics.RangeDay)
		return end.AddDate(0, 0, -1), end
	}
}

// BuildSnapshot computes the global rollup for the period preceding now and
// upserts it under (type, date). Response-time and cache-hit figures come
// from the period's QueryOptimization telemetry.
func BuildSnapshot(db *gorm.DB, snapshotType string, now time.Time) error {
	start, end := SnapshotPeriod(snapshotType, now)

	var totalViews, totalBlogs, uniqueUsers int64
	if err := db.Model(&models.View{}).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Count(&totalViews).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Blog{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&totalBlogs).Error; err != nil {
		return err
	}
	if err := db.Model(&models.View{}).
		Where("timestamp >= ? AND timestamp < ? AND user_id IS NOT NULL", start, end).
		Distinct("user_id").
		Count(&uniqueUsers).Error; err != nil {
		return err
	}

	var perf struct {
		AvgResponseTime float64
		CacheHitRate    float64
	}
	if err := db.Model(&models.QueryOptimization{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(AVG(execution_time), 0) AS avg_response_time, COALESCE(AVG(cache_hit), 0) AS cache_hit_rate").
		Scan(&perf).Error; err != nil {
		return err
	}

	snapshot := models.AnalyticsSnapshot{
		SnapshotType:    snapshotType,
		Date:            start,
		TotalViews:      uint(totalViews),
		TotalBlogs:      uint(totalBlogs),
		UniqueUsers:     uint(uniqueUsers),
		AvgResponseTime: perf.AvgResponseTime,
		CacheHitRate:    perf.CacheHitRate,
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "snapshot_type"}, {Name: "date"}, {Name: "country_id"}, {Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_views", "total_blogs", "unique_users",
			"avg_response_time", "cache_hit_rate", "updated_at",
		}),
	}).Create(&snapshot).Error
}
