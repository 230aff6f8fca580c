package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type Post struct {
	ID         string         `json:"_id" gorm:"type:uuid;primaryKey"`
	Title      string         `json:"title"`
	Content    string         `json:"content" gorm:"type:text"`
	Author     string         `json:"author"`
	Status     string         `json:"status" gorm:"size:16;not null;default:draft;index"`
	Categories []Category     `json:"categories" gorm:"many2many:post_categories;constraint:OnDelete:CASCADE;"`
	Tags       pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

func (Post) TableName() string {
	return "posts"
}
