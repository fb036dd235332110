package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/models"
	"github.com/codequest-dev/challenges-api/internal/repository"
)

// SeasonService owns season windows and per-user per-season standings.
type SeasonService interface {
	ListByDateRange(ctx context.Context, start, end *time.Time) ([]dto.SeasonResponse, error)
	ListActive(ctx context.Context) ([]dto.SeasonResponse, error)
	Get(ctx context.Context, id string) (dto.SeasonResponse, error)
	Create(ctx context.Context, payload dto.SeasonCreateRequest) (dto.SeasonResponse, error)
	GetUserRanking(ctx context.Context, seasonID, userID string) (dto.RankingResponse, error)
	GetUserRankings(ctx context.Context, userID string) ([]dto.RankingResponse, error)
	GetRankings(ctx context.Context, seasonID string) ([]dto.RankingResponse, error)
	GetRankingsPage(ctx context.Context, seasonID string, page, limit int) ([]dto.RankingResponse, int64, error)
	UpdateRanking(ctx context.Context, seasonID, userID string, delta int64) (dto.RankingResponse, error)
}

type seasonService struct {
	seasons   repository.SeasonRepository
	rankings  repository.RankingRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSeasonService constructs a SeasonService instance. The redis client is
// optional; without one, standings reads always hit the database.
func NewSeasonService(seasonRepo repository.SeasonRepository, rankingRepo repository.RankingRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) SeasonService {
	return &seasonService{
		seasons:   seasonRepo,
		rankings:  rankingRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "season_service").Logger(),
		now:       time.Now,
	}
}

func (s *seasonService) ListByDateRange(ctx context.Context, start, end *time.Time) ([]dto.SeasonResponse, error) {
	seasons, err := s.seasons.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return dto.NewSeasonResponseSlice(seasons), nil
}

func (s *seasonService) ListActive(ctx context.Context) ([]dto.SeasonResponse, error) {
	seasons, err := s.seasons.ListActive(ctx, s.now())
	if err != nil {
		return nil, err
	}

	return dto.NewSeasonResponseSlice(seasons), nil
}

func (s *seasonService) Get(ctx context.Context, id string) (dto.SeasonResponse, error) {
	season, err := s.fetch(ctx, id)
	if err != nil {
		return dto.SeasonResponse{}, err
	}

	return dto.NewSeasonResponse(season), nil
}

func (s *seasonService) Create(ctx context.Context, payload dto.SeasonCreateRequest) (dto.SeasonResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SeasonResponse{}, err
	}

	season := models.Season{
		Title:     payload.Title,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
	}

	if err := s.seasons.Create(ctx, &season); err != nil {
		return dto.SeasonResponse{}, err
	}

	s.logger.Info().Str("season_id", season.ID).Str("title", season.Title).Msg("season created")

	return dto.NewSeasonResponse(season), nil
}

func (s *seasonService) GetUserRanking(ctx context.Context, seasonID, userID string) (dto.RankingResponse, error) {
	if _, err := uuid.Parse(seasonID); err != nil {
		return dto.RankingResponse{}, ErrInvalidSeasonID
	}
	if _, err := uuid.Parse(userID); err != nil {
		return dto.RankingResponse{}, ErrInvalidUserID
	}

	ranking, err := s.rankings.GetBySeasonAndUser(ctx, seasonID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RankingResponse{}, ErrRankingNotFound
		}
		return dto.RankingResponse{}, err
	}

	return dto.NewRankingResponse(ranking), nil
}

func (s *seasonService) GetUserRankings(ctx context.Context, userID string) ([]dto.RankingResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}

	rankings, err := s.rankings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewRankingResponseSlice(rankings), nil
}

// GetRankings returns the full standings for a season, points descending.
// Results are served from the redis cache when fresh; every standings write
// drops the cached entry.
func (s *seasonService) GetRankings(ctx context.Context, seasonID string) ([]dto.RankingResponse, error) {
	if _, err := s.fetch(ctx, seasonID); err != nil {
		return nil, err
	}

	cacheKey := standingsCacheKey(seasonID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response []dto.RankingResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("season_id", seasonID).Msg("standings cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read standings cache")
		}
	}

	rankings, err := s.rankings.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	response := dto.NewRankingResponseSlice(rankings)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store standings cache")
			}
		}
	}

	return response, nil
}

// GetRankingsPage returns one zero-based page of standings plus the total
// row count. Out-of-range pages yield an empty slice, not an error.
func (s *seasonService) GetRankingsPage(ctx context.Context, seasonID string, page, limit int) ([]dto.RankingResponse, int64, error) {
	if page < 0 {
		return nil, 0, fmt.Errorf("%w: page must be non-negative, got %d", ErrInvalidPagination, page)
	}
	if limit < 1 {
		return nil, 0, fmt.Errorf("%w: limit must be a positive integer, got %d", ErrInvalidPagination, limit)
	}

	if _, err := s.fetch(ctx, seasonID); err != nil {
		return nil, 0, err
	}

	rankings, total, err := s.rankings.ListBySeasonPage(ctx, seasonID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewRankingResponseSlice(rankings), total, nil
}

// UpdateRanking upserts the (season, user) standing by delta points.
func (s *seasonService) UpdateRanking(ctx context.Context, seasonID, userID string, delta int64) (dto.RankingResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return dto.RankingResponse{}, ErrInvalidUserID
	}

	if _, err := s.fetch(ctx, seasonID); err != nil {
		return dto.RankingResponse{}, err
	}

	ranking, err := s.rankings.Upsert(ctx, seasonID, userID, delta)
	if err != nil {
		return dto.RankingResponse{}, err
	}

	s.invalidateStandings(ctx, seasonID)

	return dto.NewRankingResponse(ranking), nil
}

func (s *seasonService) fetch(ctx context.Context, id string) (models.Season, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Season{}, ErrInvalidSeasonID
	}

	season, err := s.seasons.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Season{}, ErrSeasonNotFound
		}
		return models.Season{}, err
	}

	return season, nil
}

func (s *seasonService) invalidateStandings(ctx context.Context, seasonID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, standingsCacheKey(seasonID)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("season_id", seasonID).Msg("failed to invalidate standings cache")
	}
}

func standingsCacheKey(seasonID string) string {
	return "standings:" + seasonID
}
