package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is a single challenge with a scheduled active window, a canonical
// answer and a point value. The validation and input-generation behaviours are
// referenced by capability name and resolved through the capability registry.
type Question struct {
	ID                      string    `gorm:"type:uuid;primaryKey" json:"id"`
	Number                  int       `gorm:"not null" json:"question_no"`
	Title                   string    `gorm:"size:255;not null" json:"question_title"`
	Description             string    `gorm:"type:text" json:"question_desc"`
	SeasonID                string    `gorm:"type:uuid;not null;index" json:"season_id"`
	QuestionDate            time.Time `gorm:"not null" json:"question_date"`
	Expiry                  time.Time `gorm:"not null" json:"expiry"`
	Answer                  string    `gorm:"type:text;not null" json:"-"`
	Points                  int       `gorm:"not null;default:0" json:"points"`
	ValidationFunction      string    `gorm:"size:64;not null" json:"validation_function"`
	GenerateInputFunction   string    `gorm:"size:64;not null" json:"generate_input_function"`
	Active                  bool      `gorm:"not null;default:false" json:"active"`
	Submissions             []string  `gorm:"-" json:"submissions"`
	SubmissionsCount        int64     `gorm:"not null;default:0" json:"submissions_count"`
	CorrectSubmissionsCount int64     `gorm:"not null;default:0" json:"correct_submissions_count"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was supplied.
func (q *Question) BeforeCreate(_ *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// IsExpired reports whether the question can no longer accept submissions.
func (q Question) IsExpired(now time.Time) bool {
	return now.After(q.Expiry)
}
