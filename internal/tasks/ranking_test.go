package tasks

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/models"
	"github.com/codequest-dev/challenges-api/internal/repository"
)

func setupTaskTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Submission{}, &models.SeasonRanking{}))
	return db
}

func newRecalculator(db *gorm.DB, cache *redis.Client, batchSize int) *RankingRecalculator {
	return NewRankingRecalculator(
		repository.NewSubmissionRepository(db),
		repository.NewRankingRepository(db),
		cache,
		nil,
		0,
		batchSize,
		zerolog.Nop(),
	)
}

func createSubmission(t *testing.T, db *gorm.DB, seasonID, userID string, correct bool, points int) models.Submission {
	t.Helper()
	submission := models.Submission{
		UserID:        userID,
		SeasonID:      seasonID,
		QuestionID:    uuid.NewString(),
		Answer:        "42",
		Correct:       correct,
		PointsAwarded: points,
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func TestRankingRecalculatorFoldsCorrectSubmissions(t *testing.T) {
	db := setupTaskTestDB(t)
	task := newRecalculator(db, nil, 0)
	ctx := context.Background()

	seasonID := uuid.NewString()
	alice := uuid.NewString()
	bob := uuid.NewString()
	createSubmission(t, db, seasonID, alice, true, 10)
	createSubmission(t, db, seasonID, alice, true, 5)
	createSubmission(t, db, seasonID, bob, false, 0)

	folded, err := task.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, folded)

	rankings := repository.NewRankingRepository(db)
	standing, err := rankings.GetBySeasonAndUser(ctx, seasonID, alice)
	require.NoError(t, err)
	require.Equal(t, int64(15), standing.Points)

	// A user with no correct submissions never gets a standings row.
	_, err = rankings.GetBySeasonAndUser(ctx, seasonID, bob)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRankingRecalculatorRerunIsNoOp(t *testing.T) {
	db := setupTaskTestDB(t)
	task := newRecalculator(db, nil, 0)
	ctx := context.Background()

	seasonID := uuid.NewString()
	userID := uuid.NewString()
	createSubmission(t, db, seasonID, userID, true, 10)

	folded, err := task.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, folded)

	folded, err = task.RunOnce(ctx)
	require.NoError(t, err)
	require.Zero(t, folded)

	standing, err := repository.NewRankingRepository(db).GetBySeasonAndUser(ctx, seasonID, userID)
	require.NoError(t, err)
	require.Equal(t, int64(10), standing.Points)
}

func TestRankingRecalculatorHonorsBatchSize(t *testing.T) {
	db := setupTaskTestDB(t)
	task := newRecalculator(db, nil, 1)
	ctx := context.Background()

	seasonID := uuid.NewString()
	createSubmission(t, db, seasonID, uuid.NewString(), true, 10)
	createSubmission(t, db, seasonID, uuid.NewString(), true, 5)

	folded, err := task.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, folded)

	folded, err = task.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, folded)
}

func TestRankingRecalculatorInvalidatesStandingsCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	db := setupTaskTestDB(t)
	task := newRecalculator(db, cache, 0)
	ctx := context.Background()

	seasonID := uuid.NewString()
	require.NoError(t, server.Set("standings:"+seasonID, "[]"))
	createSubmission(t, db, seasonID, uuid.NewString(), true, 10)

	_, err = task.RunOnce(ctx)
	require.NoError(t, err)
	require.False(t, server.Exists("standings:"+seasonID))
}
