package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Chapter struct {
	ID            string         `json:"_id" gorm:"type:uuid;primaryKey"`
	ChapterTitle  string         `json:"chapterTitle" gorm:"not null"`
	ChapterNumber int            `json:"chapterNumber" gorm:"not null;uniqueIndex:idx_chapters_manga_number,priority:2"`
	Files         pq.StringArray `json:"files" gorm:"type:text[];not null"`
	MangaID       string         `json:"manga" gorm:"type:uuid;not null;uniqueIndex:idx_chapters_manga_number,priority:1"`
	CreatedAt     time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

func (Chapter) TableName() string {
	return "chapters"
}
