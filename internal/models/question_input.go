package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionInput stores the personalized input generated once for a
// (user, season, question) triple. The composite unique index is what makes
// get-or-create safe under concurrent first requests: a losing insert hits the
// constraint and re-reads the winner's row instead of generating again.
type QuestionInput struct {
	ID         string                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string                      `gorm:"type:uuid;not null;uniqueIndex:idx_question_inputs_owner" json:"user_id"`
	SeasonID   string                      `gorm:"type:uuid;not null;uniqueIndex:idx_question_inputs_owner" json:"season_id"`
	QuestionID string                      `gorm:"type:uuid;not null;uniqueIndex:idx_question_inputs_owner" json:"question_id"`
	Input      datatypes.JSONSlice[string] `json:"input"`
	CreatedAt  time.Time                   `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none was supplied.
func (i *QuestionInput) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
