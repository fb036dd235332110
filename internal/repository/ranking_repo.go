package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codequest-dev/challenges-api/internal/models"
)

// standingsOrder is the deterministic standings order: points descending,
// ties broken by ranking-row creation time and then id so repeated paginated
// reads stay stable between writes.
const standingsOrder = "points DESC, created_at ASC, id ASC"

// RankingRepository defines data operations for season standings.
type RankingRepository interface {
	Upsert(ctx context.Context, seasonID, userID string, delta int64) (models.SeasonRanking, error)
	GetBySeasonAndUser(ctx context.Context, seasonID, userID string) (models.SeasonRanking, error)
	ListByUser(ctx context.Context, userID string) ([]models.SeasonRanking, error)
	ListBySeason(ctx context.Context, seasonID string) ([]models.SeasonRanking, error)
	ListBySeasonPage(ctx context.Context, seasonID string, page, limit int) ([]models.SeasonRanking, int64, error)
	FoldSubmission(ctx context.Context, submission models.Submission) (bool, error)
}

type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository instantiates the repository.
func NewRankingRepository(db *gorm.DB) RankingRepository {
	return &rankingRepository{db: db}
}

// Upsert creates the (season, user) ranking row at delta points or adds delta
// to the existing total. The addition happens inside the conflict clause, so
// concurrent point updates for the same pair cannot lose increments.
func (r *rankingRepository) Upsert(ctx context.Context, seasonID, userID string, delta int64) (models.SeasonRanking, error) {
	if err := upsertRanking(r.db.WithContext(ctx), seasonID, userID, delta); err != nil {
		return models.SeasonRanking{}, err
	}

	return r.GetBySeasonAndUser(ctx, seasonID, userID)
}

func upsertRanking(tx *gorm.DB, seasonID, userID string, delta int64) error {
	row := models.SeasonRanking{SeasonID: seasonID, UserID: userID, Points: delta}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "season_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points": gorm.Expr("season_rankings.points + excluded.points"),
		}),
	}).Create(&row).Error
}

func (r *rankingRepository) GetBySeasonAndUser(ctx context.Context, seasonID, userID string) (models.SeasonRanking, error) {
	var ranking models.SeasonRanking
	err := r.db.WithContext(ctx).
		Where("season_id = ? AND user_id = ?", seasonID, userID).
		First(&ranking).Error
	if err != nil {
		return models.SeasonRanking{}, err
	}

	return ranking, nil
}

func (r *rankingRepository) ListByUser(ctx context.Context, userID string) ([]models.SeasonRanking, error) {
	var rankings []models.SeasonRanking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rankings).Error
	if err != nil {
		return nil, err
	}

	return rankings, nil
}

func (r *rankingRepository) ListBySeason(ctx context.Context, seasonID string) ([]models.SeasonRanking, error) {
	var rankings []models.SeasonRanking
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order(standingsOrder).
		Find(&rankings).Error
	if err != nil {
		return nil, err
	}

	return rankings, nil
}

// ListBySeasonPage returns one zero-based page of standings plus the total row
// count. Pages past the end yield an empty slice.
func (r *rankingRepository) ListBySeasonPage(ctx context.Context, seasonID string, page, limit int) ([]models.SeasonRanking, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.SeasonRanking{}).Where("season_id = ?", seasonID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rankings := []models.SeasonRanking{}
	err := base.
		Order(standingsOrder).
		Offset(page * limit).
		Limit(limit).
		Find(&rankings).Error
	if err != nil {
		return nil, 0, err
	}

	return rankings, total, nil
}

// FoldSubmission applies one scored submission to the season standings exactly
// once. The ranked marker flip is a conditional update, and the marker and the
// point upsert commit in the same transaction; a submission already folded by
// a concurrent pass is skipped, so reruns over an unchanged set are no-ops.
func (r *rankingRepository) FoldSubmission(ctx context.Context, submission models.Submission) (bool, error) {
	folded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Submission{}).
			Where("id = ? AND ranked = ?", submission.ID, false).
			Update("ranked", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		folded = true
		return upsertRanking(tx, submission.SeasonID, submission.UserID, int64(submission.PointsAwarded))
	})
	if err != nil {
		return false, err
	}

	return folded, nil
}
