package dto

import (
	"time"

	"github.com/codequest-dev/challenges-api/internal/models"
)

// QuestionCreateRequest describes the authoring payload for a question. The
// same shape is used for updates, where the scheduling fields of the stored
// row take precedence over the payload.
type QuestionCreateRequest struct {
	Number                int       `json:"question_no" validate:"gte=0"`
	Title                 string    `json:"question_title" validate:"required"`
	Description           string    `json:"question_desc" validate:"required"`
	SeasonID              string    `json:"season_id" validate:"required,uuid4"`
	QuestionDate          time.Time `json:"question_date" validate:"required"`
	Expiry                time.Time `json:"expiry" validate:"required,gtfield=QuestionDate"`
	Answer                string    `json:"answer" validate:"required"`
	Points                int       `json:"points" validate:"gte=0"`
	ValidationFunction    string    `json:"validation_function" validate:"required"`
	GenerateInputFunction string    `json:"generate_input_function" validate:"required"`
	Active                bool      `json:"active"`
}

// QuestionFilter describes query string filters for listing questions.
type QuestionFilter struct {
	Active   *bool   `query:"active"`
	SeasonID *string `query:"season_id" validate:"omitempty,uuid4"`
}

// QuestionResponse is the public view of a question. The canonical answer is
// never serialized.
type QuestionResponse struct {
	ID                      string    `json:"id"`
	Number                  int       `json:"question_no"`
	Title                   string    `json:"question_title"`
	Description             string    `json:"question_desc"`
	SeasonID                string    `json:"season_id"`
	QuestionDate            time.Time `json:"question_date"`
	Expiry                  time.Time `json:"expiry"`
	Points                  int       `json:"points"`
	ValidationFunction      string    `json:"validation_function"`
	GenerateInputFunction   string    `json:"generate_input_function"`
	Active                  bool      `json:"active"`
	Submissions             []string  `json:"submissions"`
	SubmissionsCount        int64     `json:"submissions_count"`
	CorrectSubmissionsCount int64     `json:"correct_submissions_count"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// UserQuestionResponse is a question paired with the caller's personalized
// input sequence.
type UserQuestionResponse struct {
	ID           string    `json:"id"`
	Number       int       `json:"question_no"`
	Title        string    `json:"question_title"`
	Description  string    `json:"question_desc"`
	SeasonID     string    `json:"season_id"`
	QuestionDate time.Time `json:"question_date"`
	Expiry       time.Time `json:"expiry"`
	Points       int       `json:"points"`
	Input        []string  `json:"question_input"`
}

// NewQuestionResponse converts a Question model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	submissions := make([]string, len(model.Submissions))
	copy(submissions, model.Submissions)

	return QuestionResponse{
		ID:                      model.ID,
		Number:                  model.Number,
		Title:                   model.Title,
		Description:             model.Description,
		SeasonID:                model.SeasonID,
		QuestionDate:            model.QuestionDate,
		Expiry:                  model.Expiry,
		Points:                  model.Points,
		ValidationFunction:      model.ValidationFunction,
		GenerateInputFunction:   model.GenerateInputFunction,
		Active:                  model.Active,
		Submissions:             submissions,
		SubmissionsCount:        model.SubmissionsCount,
		CorrectSubmissionsCount: model.CorrectSubmissionsCount,
		CreatedAt:               model.CreatedAt,
		UpdatedAt:               model.UpdatedAt,
	}
}

// NewQuestionResponseSlice converts question models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}

// NewUserQuestionResponse pairs a question with a generated input sequence.
func NewUserQuestionResponse(model models.Question, input []string) UserQuestionResponse {
	return UserQuestionResponse{
		ID:           model.ID,
		Number:       model.Number,
		Title:        model.Title,
		Description:  model.Description,
		SeasonID:     model.SeasonID,
		QuestionDate: model.QuestionDate,
		Expiry:       model.Expiry,
		Points:       model.Points,
		Input:        input,
	}
}
