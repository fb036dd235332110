package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is one user's scored answer attempt against one question. It is
// immutable once created except for the Ranked marker, which the ranking
// recalculation task flips exactly once when the points are folded into the
// season standings.
type Submission struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	SeasonID      string    `gorm:"type:uuid;not null;index" json:"season_id"`
	QuestionID    string    `gorm:"type:uuid;not null;index" json:"question_id"`
	Answer        string    `gorm:"type:text;not null" json:"answer"`
	Correct       bool      `gorm:"not null" json:"correct"`
	PointsAwarded int       `gorm:"not null;default:0" json:"points_awarded"`
	Ranked        bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none was supplied.
func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
