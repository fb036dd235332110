package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/handler"
	"github.com/codequest-dev/challenges-api/internal/pagination"
	"github.com/codequest-dev/challenges-api/internal/service"
)

type mockSeasonService struct {
	seasons   []dto.SeasonResponse
	rankings  []dto.RankingResponse
	pageRows  []dto.RankingResponse
	total     int64
	err       error
	lastPage  int
	lastLimit int
}

func (m *mockSeasonService) ListByDateRange(_ context.Context, _, _ *time.Time) ([]dto.SeasonResponse, error) {
	return m.seasons, m.err
}

func (m *mockSeasonService) ListActive(_ context.Context) ([]dto.SeasonResponse, error) {
	return m.seasons, m.err
}

func (m *mockSeasonService) Get(_ context.Context, _ string) (dto.SeasonResponse, error) {
	if m.err != nil {
		return dto.SeasonResponse{}, m.err
	}
	return m.seasons[0], nil
}

func (m *mockSeasonService) Create(_ context.Context, payload dto.SeasonCreateRequest) (dto.SeasonResponse, error) {
	if m.err != nil {
		return dto.SeasonResponse{}, m.err
	}
	return dto.SeasonResponse{ID: uuid.NewString(), Title: payload.Title, StartDate: payload.StartDate, EndDate: payload.EndDate}, nil
}

func (m *mockSeasonService) GetUserRanking(_ context.Context, _, _ string) (dto.RankingResponse, error) {
	if m.err != nil {
		return dto.RankingResponse{}, m.err
	}
	return m.rankings[0], nil
}

func (m *mockSeasonService) GetUserRankings(_ context.Context, _ string) ([]dto.RankingResponse, error) {
	return m.rankings, m.err
}

func (m *mockSeasonService) GetRankings(_ context.Context, _ string) ([]dto.RankingResponse, error) {
	return m.rankings, m.err
}

func (m *mockSeasonService) GetRankingsPage(_ context.Context, _ string, page, limit int) ([]dto.RankingResponse, int64, error) {
	m.lastPage = page
	m.lastLimit = limit
	return m.pageRows, m.total, m.err
}

func (m *mockSeasonService) UpdateRanking(_ context.Context, _, _ string, delta int64) (dto.RankingResponse, error) {
	if m.err != nil {
		return dto.RankingResponse{}, m.err
	}
	return dto.RankingResponse{ID: uuid.NewString(), Points: delta}, nil
}

func passAuth(c *fiber.Ctx) error {
	return c.Next()
}

func newSeasonApp(svc *mockSeasonService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/seasons")
	handler.NewSeasonHandler(svc, zerolog.Nop()).Register(group, passAuth)
	return app
}

func TestSeasonHandlerRankingsRequiresBothPaginationParams(t *testing.T) {
	app := newSeasonApp(&mockSeasonService{})
	seasonID := uuid.NewString()

	for _, query := range []string{"?page=0", "?limit=10"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/"+seasonID+"/rankings"+query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var response struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		decodeResponse(t, resp, &response)
		require.False(t, response.Success)
		require.Equal(t, "page and limit must be supplied together", response.Message)
	}
}

func TestSeasonHandlerRankingsUnpaginated(t *testing.T) {
	svc := &mockSeasonService{rankings: []dto.RankingResponse{
		{ID: uuid.NewString(), Points: 30},
		{ID: uuid.NewString(), Points: 10},
	}}
	app := newSeasonApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/"+uuid.NewString()+"/rankings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                  `json:"success"`
		Data    []dto.RankingResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 2)
}

func TestSeasonHandlerRankingsPaginated(t *testing.T) {
	svc := &mockSeasonService{
		pageRows: []dto.RankingResponse{{ID: uuid.NewString(), Points: 20}},
		total:    25,
	}
	app := newSeasonApp(svc)
	seasonID := uuid.NewString()

	path := "/api/v1/seasons/" + seasonID + "/rankings"
	req := httptest.NewRequest(http.MethodGet, path+"?page=1&limit=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 1, svc.lastPage)
	require.Equal(t, 10, svc.lastLimit)

	var response struct {
		Success bool                  `json:"success"`
		Data    []dto.RankingResponse `json:"data"`
		Meta    pagination.Metadata   `json:"meta"`
	}
	decodeResponse(t, resp, &response)

	require.Equal(t, 25, response.Meta.ItemCount)
	require.Equal(t, 3, response.Meta.PageCount)
	require.Equal(t, 1, response.Meta.Page)
	require.Equal(t, path+"?page=1&limit=10", response.Meta.Links.Self)
	require.NotNil(t, response.Meta.Links.Previous)
	require.Equal(t, path+"?page=0&limit=10", *response.Meta.Links.Previous)
	require.NotNil(t, response.Meta.Links.Next)
	require.Equal(t, path+"?page=2&limit=10", *response.Meta.Links.Next)
	require.Equal(t, path+"?page=2&limit=10", response.Meta.Links.Last)
}

func TestSeasonHandlerRankingsPaginatedEmptySeason(t *testing.T) {
	svc := &mockSeasonService{pageRows: []dto.RankingResponse{}, total: 0}
	app := newSeasonApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/"+uuid.NewString()+"/rankings?page=0&limit=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data []dto.RankingResponse `json:"data"`
		Meta pagination.Metadata   `json:"meta"`
	}
	decodeResponse(t, resp, &response)
	require.Empty(t, response.Data)
	require.Zero(t, response.Meta.PageCount)
	require.Nil(t, response.Meta.Links.Previous)
	require.Nil(t, response.Meta.Links.Next)
}

func TestSeasonHandlerRankingsUnknownSeason(t *testing.T) {
	app := newSeasonApp(&mockSeasonService{err: service.ErrSeasonNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/seasons/"+uuid.NewString()+"/rankings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSeasonHandlerCreate(t *testing.T) {
	app := newSeasonApp(&mockSeasonService{})

	now := time.Now().UTC()
	body, err := json.Marshal(dto.SeasonCreateRequest{
		Title:     "Season Alpha",
		StartDate: now,
		EndDate:   now.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/seasons", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool               `json:"success"`
		Data    dto.SeasonResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "Season Alpha", response.Data.Title)
}

func TestSeasonHandlerUpdateRankingRejectsMissingPoints(t *testing.T) {
	app := newSeasonApp(&mockSeasonService{})

	req := httptest.NewRequest(http.MethodPut,
		"/api/v1/seasons/"+uuid.NewString()+"/rankings/"+uuid.NewString(),
		bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}
