package repository

import (
	"context"
	"fmt"

	"mangapress/internal/microservices/http-api/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MediaReferenceRepo lists the media every stored document holds.
type MediaReferenceRepo struct {
	db *gorm.DB
}

func NewMediaReferenceRepo(db *gorm.DB) *MediaReferenceRepo {
	return &MediaReferenceRepo{db: db}
}

func (r *MediaReferenceRepo) MediaDocuments(ctx context.Context) ([]models.MediaDocument, error) {
	var docs []models.MediaDocument

	var contents []string
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Pluck("content", &contents).Error; err != nil {
		return nil, fmt.Errorf("load post content: %w", err)
	}
	for _, c := range contents {
		docs = append(docs, models.MediaDocument{Content: c})
	}

	var covers []string
	if err := r.db.WithContext(ctx).Model(&models.Manga{}).Pluck("cover_image", &covers).Error; err != nil {
		return nil, fmt.Errorf("load manga covers: %w", err)
	}
	docs = append(docs, models.MediaDocument{URLs: covers})

	var files []pq.StringArray
	if err := r.db.WithContext(ctx).Model(&models.Chapter{}).Pluck("files", &files).Error; err != nil {
		return nil, fmt.Errorf("load chapter files: %w", err)
	}
	for _, f := range files {
		docs = append(docs, models.MediaDocument{URLs: f})
	}
	return docs, nil
}
