package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/models"
)

// SeasonRepository defines data operations for seasons.
type SeasonRepository interface {
	Create(ctx context.Context, season *models.Season) error
	GetByID(ctx context.Context, id string) (models.Season, error)
	ListByDateRange(ctx context.Context, start, end *time.Time) ([]models.Season, error)
	ListActive(ctx context.Context, now time.Time) ([]models.Season, error)
}

type seasonRepository struct {
	db *gorm.DB
}

// NewSeasonRepository instantiates the repository.
func NewSeasonRepository(db *gorm.DB) SeasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Create(ctx context.Context, season *models.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *seasonRepository) GetByID(ctx context.Context, id string) (models.Season, error) {
	var season models.Season
	if err := r.db.WithContext(ctx).First(&season, "id = ?", id).Error; err != nil {
		return models.Season{}, err
	}

	return season, nil
}

// ListByDateRange returns seasons overlapping the given bounds. A nil bound
// leaves that side unbounded.
func (r *seasonRepository) ListByDateRange(ctx context.Context, start, end *time.Time) ([]models.Season, error) {
	query := r.db.WithContext(ctx).Model(&models.Season{})

	if start != nil {
		query = query.Where("end_date >= ?", *start)
	}

	if end != nil {
		query = query.Where("start_date <= ?", *end)
	}

	var seasons []models.Season
	if err := query.Order("start_date ASC").Find(&seasons).Error; err != nil {
		return nil, err
	}

	return seasons, nil
}

func (r *seasonRepository) ListActive(ctx context.Context, now time.Time) ([]models.Season, error) {
	var seasons []models.Season
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("start_date ASC").
		Find(&seasons).Error
	if err != nil {
		return nil, err
	}

	return seasons, nil
}
