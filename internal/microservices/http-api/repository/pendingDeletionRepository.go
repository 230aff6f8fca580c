package repository

import (
	"context"
	"fmt"
	"time"

	"mangapress/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// PendingDeletionRepo is the durable outbox of media deletions.
type PendingDeletionRepo struct {
	db *gorm.DB
}

func NewPendingDeletionRepo(db *gorm.DB) *PendingDeletionRepo {
	return &PendingDeletionRepo{db: db}
}

func (r *PendingDeletionRepo) Add(ctx context.Context, d *models.PendingDeletion) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("queue media deletion: %w", err)
	}
	return nil
}

func (r *PendingDeletionRepo) Remove(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.PendingDeletion{}, "id = ?", id).Error
}

// Due returns rows whose next attempt time has passed, oldest first.
func (r *PendingDeletionRepo) Due(ctx context.Context, now time.Time, limit int) ([]models.PendingDeletion, error) {
	var rows []models.PendingDeletion
	if err := r.db.WithContext(ctx).
		Where("next_attempt_at <= ?", now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load due deletions: %w", err)
	}
	return rows, nil
}

func (r *PendingDeletionRepo) MarkFailed(ctx context.Context, id string, attempts int, lastErr string, next time.Time) error {
	return r.db.WithContext(ctx).Model(&models.PendingDeletion{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":        attempts,
			"last_error":      lastErr,
			"next_attempt_at": next,
		}).Error
}

func (r *PendingDeletionRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PendingDeletion{}).Count(&n).Error
	return n, err
}
