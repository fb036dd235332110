package dto

import (
	"time"

	"github.com/codequest-dev/challenges-api/internal/models"
)

// SubmissionCreateRequest describes a scored answer attempt. The user id is
// taken from the authenticated request, never from the body.
type SubmissionCreateRequest struct {
	UserID     string `json:"-" validate:"required,uuid4"`
	QuestionID string `json:"question_id" validate:"required,uuid4"`
	Answer     string `json:"answer" validate:"required"`
}

// SubmissionListFilter describes query string filters for listing submissions.
type SubmissionListFilter struct {
	UserID     *string `query:"user_id" validate:"omitempty,uuid4"`
	QuestionID *string `query:"question_id" validate:"omitempty,uuid4"`
	SeasonID   *string `query:"season_id" validate:"omitempty,uuid4"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SeasonID      string    `json:"season_id"`
	QuestionID    string    `json:"question_id"`
	Answer        string    `json:"answer"`
	Correct       bool      `json:"correct"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:            model.ID,
		UserID:        model.UserID,
		SeasonID:      model.SeasonID,
		QuestionID:    model.QuestionID,
		Answer:        model.Answer,
		Correct:       model.Correct,
		PointsAwarded: model.PointsAwarded,
		CreatedAt:     model.CreatedAt,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
