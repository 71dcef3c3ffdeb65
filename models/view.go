package models

import "time"

// View records a single read of a blog. UserID is nullable: the viewing
// account may be removed later, the view itself stays.
type View struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlogID    uint      `gorm:"index;index:idx_views_blog_ts;not null" json:"blog_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Timestamp time.Time `gorm:"index;index:idx_views_blog_ts" json:"timestamp"`
	Blog      Blog      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
