package models

// User is a blog author. Every user belongs to exactly one country.
type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Username  string  `gorm:"size:150;uniqueIndex;not null" json:"username"`
	CountryID uint    `gorm:"index;not null" json:"country_id"`
	Country   Country `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Blogs     []Blog  `gorm:"foreignKey:AuthorID" json:"-"`
}
