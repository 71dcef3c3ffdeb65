package models

import "time"

// Blog is authored content; CreatedAt is set once at creation and drives
// the period-comparison bucketing.
type Blog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	AuthorID  uint      `gorm:"index;index:idx_blogs_author_created;not null" json:"author_id"`
	CreatedAt time.Time `gorm:"index;index:idx_blogs_author_created" json:"created_at"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Views     []View    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
