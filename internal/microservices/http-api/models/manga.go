package models

import (
	"time"

	"gorm.io/gorm"
)

type Manga struct {
	ID          string    `json:"_id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Author      string    `json:"author" gorm:"not null"`
	CoverImage  string    `json:"coverImage" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// association, ordered by chapter number when preloaded
	Chapters []Chapter `json:"-" gorm:"foreignKey:MangaID;constraint:OnDelete:CASCADE;"`

	// ChapterIDs is derived from the chapter rows, never stored.
	ChapterIDs []string `json:"chapters" gorm:"-"`
}

func (m *Manga) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func (Manga) TableName() string {
	return "mangas"
}

// FillChapterIDs derives ChapterIDs from the preloaded Chapters.
func (m *Manga) FillChapterIDs() {
	m.ChapterIDs = make([]string, 0, len(m.Chapters))
	for _, ch := range m.Chapters {
		m.ChapterIDs = append(m.ChapterIDs, ch.ID)
	}
}

// MediaURLs lists the cover and every preloaded chapter file.
func (m *Manga) MediaURLs() []string {
	urls := []string{m.CoverImage}
	for _, ch := range m.Chapters {
		urls = append(urls, ch.Files...)
	}
	return urls
}

// MangaSummary is a manga row joined with the number of chapters it owns.
// List rows carry the count instead of the chapter ids.
type MangaSummary struct {
	Manga
	ChapterCount int64 `json:"chapterCount"`

	// shadows Manga.ChapterIDs so list rows never serialize "chapters"
	ChapterIDs []string `json:"chapters,omitempty"`
}
