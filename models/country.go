package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Country groups authors for per-country aggregation.
type Country struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Users []User `json:"-"`
}

// BeforeSave trims the name and rejects blank countries.
func (c *Country) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("country name cannot be empty")
	}
	return nil
}
