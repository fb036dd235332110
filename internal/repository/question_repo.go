package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codequest-dev/challenges-api/internal/models"
)

// QuestionFilter narrows question listings.
type QuestionFilter struct {
	Active   *bool
	SeasonID *string
}

// QuestionRepository defines data operations for questions and their
// per-user generated inputs.
type QuestionRepository interface {
	List(ctx context.Context, filter QuestionFilter) ([]models.Question, error)
	GetByID(ctx context.Context, id string) (models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error
	GetOrCreateInput(ctx context.Context, input *models.QuestionInput) (models.QuestionInput, error)
	RecordSubmission(ctx context.Context, questionID string, correct bool) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter) ([]models.Question, error) {
	query := r.db.WithContext(ctx).Model(&models.Question{})

	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	if filter.SeasonID != nil {
		query = query.Where("season_id = ?", *filter.SeasonID)
	}

	var questions []models.Question
	if err := query.Order("question_date ASC").Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

// GetByID loads a question along with the IDs of the submissions recorded
// against it, oldest first.
func (r *questionRepository) GetByID(ctx context.Context, id string) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return models.Question{}, err
	}

	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("question_id = ?", id).
		Order("created_at ASC").
		Pluck("id", &question.Submissions).Error
	if err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

// Update rewrites the editable columns only. Counters stay untouched so an
// edit racing a submission cannot overwrite an increment.
func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Model(question).
		Select("number", "title", "description", "season_id", "question_date", "expiry",
			"answer", "points", "validation_function", "generate_input_function", "active").
		Updates(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Question{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetOrCreateInput returns the stored input for the (user, season, question)
// triple, inserting the supplied row when none exists yet. A concurrent first
// request that loses the insert race hits the composite unique index; the
// conflict is swallowed and the winner's row is re-read, so exactly one input
// ever exists per pair and every caller sees the same sequence.
func (r *questionRepository) GetOrCreateInput(ctx context.Context, input *models.QuestionInput) (models.QuestionInput, error) {
	existing, err := r.findInput(ctx, input.UserID, input.SeasonID, input.QuestionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.QuestionInput{}, err
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "season_id"}, {Name: "question_id"}},
		DoNothing: true,
	}).Create(input)
	if result.Error != nil {
		return models.QuestionInput{}, result.Error
	}

	if result.RowsAffected == 0 {
		return r.findInput(ctx, input.UserID, input.SeasonID, input.QuestionID)
	}

	return *input, nil
}

func (r *questionRepository) findInput(ctx context.Context, userID, seasonID, questionID string) (models.QuestionInput, error) {
	var input models.QuestionInput
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND season_id = ? AND question_id = ?", userID, seasonID, questionID).
		First(&input).Error
	if err != nil {
		return models.QuestionInput{}, err
	}
	return input, nil
}

// RecordSubmission bumps the aggregate counters for a scored submission. The
// increments are SQL expressions rather than read-modify-write from here, so
// concurrent submitters against the same question cannot lose updates.
func (r *questionRepository) RecordSubmission(ctx context.Context, questionID string, correct bool) error {
	updates := map[string]interface{}{
		"submissions_count": gorm.Expr("submissions_count + 1"),
	}
	if correct {
		updates["correct_submissions_count"] = gorm.Expr("correct_submissions_count + 1")
	}

	result := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", questionID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
