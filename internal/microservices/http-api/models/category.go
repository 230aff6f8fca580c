package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        string    `json:"_id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:120"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (Category) TableName() string {
	return "categories"
}

// CategoryUsage is a category joined with the number of posts filed under it.
type CategoryUsage struct {
	Category     `gorm:"embedded"`
	ArticleCount int64 `json:"articleCount"`
}
