package models

import (
	"time"

	"gorm.io/gorm"
)

// PendingDeletion is an outbox row: a stored object that must be removed
// from the bucket. It is written before the remote delete is attempted and
// removed once the delete succeeds.
type PendingDeletion struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	URL           string    `json:"url" gorm:"not null"`
	Key           string    `json:"key" gorm:"not null;index"`
	Attempts      int       `json:"attempts" gorm:"not null;default:0"`
	LastError     string    `json:"lastError,omitempty" gorm:"type:text"`
	NextAttemptAt time.Time `json:"nextAttemptAt" gorm:"not null;index"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (d *PendingDeletion) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

func (PendingDeletion) TableName() string {
	return "pending_media_deletions"
}
