package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/codequest-dev/challenges-api/internal/models"
)

func TestSubmissionRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	seasonID := uuid.NewString()
	userID := uuid.NewString()
	questionID := uuid.NewString()

	mine := models.Submission{UserID: userID, SeasonID: seasonID, QuestionID: questionID, Answer: "a", CreatedAt: time.Now().Add(-2 * time.Minute)}
	later := models.Submission{UserID: userID, SeasonID: seasonID, QuestionID: questionID, Answer: "b", CreatedAt: time.Now().Add(-1 * time.Minute)}
	other := models.Submission{UserID: uuid.NewString(), SeasonID: seasonID, QuestionID: questionID, Answer: "c"}
	require.NoError(t, repo.Create(ctx, &mine))
	require.NoError(t, repo.Create(ctx, &later))
	require.NoError(t, repo.Create(ctx, &other))

	submissions, err := repo.List(ctx, SubmissionFilter{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	require.Equal(t, later.ID, submissions[0].ID, "expected newest first")

	submissions, err = repo.List(ctx, SubmissionFilter{SeasonID: &seasonID})
	require.NoError(t, err)
	require.Len(t, submissions, 3)
}

func TestSubmissionRepositoryListUnranked(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	ctx := context.Background()

	seasonID := uuid.NewString()
	older := models.Submission{UserID: uuid.NewString(), SeasonID: seasonID, QuestionID: uuid.NewString(), Answer: "a", Correct: true, PointsAwarded: 10, CreatedAt: time.Now().Add(-2 * time.Minute)}
	newer := models.Submission{UserID: uuid.NewString(), SeasonID: seasonID, QuestionID: uuid.NewString(), Answer: "b", Correct: true, PointsAwarded: 5, CreatedAt: time.Now().Add(-1 * time.Minute)}
	wrong := models.Submission{UserID: uuid.NewString(), SeasonID: seasonID, QuestionID: uuid.NewString(), Answer: "c", Correct: false}
	alreadyRanked := models.Submission{UserID: uuid.NewString(), SeasonID: seasonID, QuestionID: uuid.NewString(), Answer: "d", Correct: true, Ranked: true}
	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, repo.Create(ctx, &newer))
	require.NoError(t, repo.Create(ctx, &wrong))
	require.NoError(t, repo.Create(ctx, &alreadyRanked))

	pending, err := repo.ListUnranked(ctx, 0)
	require.NoError(t, err)

	var ids []string
	for _, submission := range pending {
		if submission.SeasonID == seasonID {
			ids = append(ids, submission.ID)
		}
	}
	require.Equal(t, []string{older.ID, newer.ID}, ids, "expected correct unranked submissions oldest first")
}
