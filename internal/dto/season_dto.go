package dto

import (
	"time"

	"github.com/codequest-dev/challenges-api/internal/models"
)

// SeasonCreateRequest describes the authoring payload for a season.
type SeasonCreateRequest struct {
	Title     string    `json:"title" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
}

// SeasonResponse is the public view of a season.
type SeasonResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RankingUpdateRequest carries a point delta for the internal standings
// update endpoint. A pointer keeps an explicit zero distinguishable from a
// missing field.
type RankingUpdateRequest struct {
	Points *int64 `json:"points" validate:"required"`
}

// RankingResponse is one user's standing within one season.
type RankingResponse struct {
	ID        string    `json:"id"`
	SeasonID  string    `json:"season_id"`
	UserID    string    `json:"user_id"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSeasonResponse converts a Season model into a DTO.
func NewSeasonResponse(model models.Season) SeasonResponse {
	return SeasonResponse{
		ID:        model.ID,
		Title:     model.Title,
		StartDate: model.StartDate,
		EndDate:   model.EndDate,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewSeasonResponseSlice converts season models into DTOs.
func NewSeasonResponseSlice(seasons []models.Season) []SeasonResponse {
	responses := make([]SeasonResponse, 0, len(seasons))
	for _, season := range seasons {
		responses = append(responses, NewSeasonResponse(season))
	}

	return responses
}

// NewRankingResponse converts a SeasonRanking model into a DTO.
func NewRankingResponse(model models.SeasonRanking) RankingResponse {
	return RankingResponse{
		ID:        model.ID,
		SeasonID:  model.SeasonID,
		UserID:    model.UserID,
		Points:    model.Points,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewRankingResponseSlice converts ranking models into DTOs.
func NewRankingResponseSlice(rankings []models.SeasonRanking) []RankingResponse {
	responses := make([]RankingResponse, 0, len(rankings))
	for _, ranking := range rankings {
		responses = append(responses, NewRankingResponse(ranking))
	}

	return responses
}
