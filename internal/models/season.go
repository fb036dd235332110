package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Season is a bounded time window during which questions are published and
// points accumulate toward standings.
type Season struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was supplied.
func (s *Season) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether now falls within the season window.
func (s Season) IsActive(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}
