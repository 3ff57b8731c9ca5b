package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission rows are append-only. CreatedAt comes from the server clock, never the client.
type Submission struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Code      string    `gorm:"type:varchar(255);not null"`
	Veg       int       `gorm:"not null;default:0"`
	NonVeg    int       `gorm:"column:non_veg;not null;default:0"`
	CreatedAt time.Time `gorm:"not null;index:idx_submissions_created_at"`
	UpdatedAt time.Time
}

func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
