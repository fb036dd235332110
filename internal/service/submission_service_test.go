package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/capability"
	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/models"
	"github.com/codequest-dev/challenges-api/internal/repository"
)

type stubSubmissionRepo struct {
	created   []models.Submission
	createErr error
	last      repository.SubmissionFilter
}

func (s *stubSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	s.last = filter
	return s.created, nil
}

func (s *stubSubmissionRepo) GetByID(_ context.Context, id string) (models.Submission, error) {
	for _, submission := range s.created {
		if submission.ID == id {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (s *stubSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	if s.createErr != nil {
		return s.createErr
	}
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	s.created = append(s.created, *submission)
	return nil
}

func (s *stubSubmissionRepo) ListUnranked(_ context.Context, _ int) ([]models.Submission, error) {
	return nil, nil
}

type stubQuestionRepo struct {
	question  models.Question
	stored    *models.QuestionInput
	getErr    error
	recordErr error
	recorded  []bool
}

func (s *stubQuestionRepo) List(_ context.Context, _ repository.QuestionFilter) ([]models.Question, error) {
	return []models.Question{s.question}, nil
}

func (s *stubQuestionRepo) GetByID(_ context.Context, id string) (models.Question, error) {
	if s.getErr != nil {
		return models.Question{}, s.getErr
	}
	if id != s.question.ID {
		return models.Question{}, gorm.ErrRecordNotFound
	}
	return s.question, nil
}

func (s *stubQuestionRepo) Create(_ context.Context, question *models.Question) error {
	s.question = *question
	return nil
}

func (s *stubQuestionRepo) Update(_ context.Context, question *models.Question) error {
	s.question = *question
	return nil
}

func (s *stubQuestionRepo) Delete(_ context.Context, _ string) error {
	return nil
}

func (s *stubQuestionRepo) GetOrCreateInput(_ context.Context, input *models.QuestionInput) (models.QuestionInput, error) {
	if s.stored == nil {
		s.stored = input
	}
	return *s.stored, nil
}

func (s *stubQuestionRepo) RecordSubmission(_ context.Context, _ string, correct bool) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.recorded = append(s.recorded, correct)
	return nil
}

func activeQuestion() models.Question {
	now := time.Now()
	return models.Question{
		ID:                    uuid.NewString(),
		Number:                1,
		Title:                 "Sum",
		SeasonID:              uuid.NewString(),
		QuestionDate:          now.Add(-time.Hour),
		Expiry:                now.Add(time.Hour),
		Answer:                "42",
		Points:                10,
		ValidationFunction:    capability.ValidatorExactMatch,
		GenerateInputFunction: capability.GeneratorIntegerSequence,
		Active:                true,
	}
}

func newSubmissionService(subs *stubSubmissionRepo, questions *stubQuestionRepo) SubmissionService {
	return NewSubmissionService(subs, questions, capability.Default(), validator.New(), nil, zerolog.Nop())
}

func TestSubmissionServiceCreateScoresCorrectAnswer(t *testing.T) {
	subs := &stubSubmissionRepo{}
	questions := &stubQuestionRepo{question: activeQuestion()}
	svc := newSubmissionService(subs, questions)

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: questions.question.ID, Answer: "42"}
	response, err := svc.Create(context.Background(), payload)
	require.NoError(t, err)

	require.True(t, response.Correct)
	require.Equal(t, 10, response.PointsAwarded)
	require.Equal(t, questions.question.SeasonID, response.SeasonID)
	require.Len(t, subs.created, 1)
	require.Equal(t, []bool{true}, questions.recorded)
}

func TestSubmissionServiceCreateScoresIncorrectAnswer(t *testing.T) {
	subs := &stubSubmissionRepo{}
	questions := &stubQuestionRepo{question: activeQuestion()}
	svc := newSubmissionService(subs, questions)

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: questions.question.ID, Answer: "41"}
	response, err := svc.Create(context.Background(), payload)
	require.NoError(t, err)

	require.False(t, response.Correct)
	require.Zero(t, response.PointsAwarded)
	require.Equal(t, []bool{false}, questions.recorded)
}

func TestSubmissionServiceCreateUsesQuestionValidator(t *testing.T) {
	question := activeQuestion()
	question.Answer = "hello"
	question.ValidationFunction = capability.ValidatorCaseInsensitive

	subs := &stubSubmissionRepo{}
	questions := &stubQuestionRepo{question: question}
	svc := newSubmissionService(subs, questions)

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: question.ID, Answer: "HELLO"}
	response, err := svc.Create(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, response.Correct)
}

func TestSubmissionServiceCreateFallsBackToExactMatch(t *testing.T) {
	question := activeQuestion()
	question.ValidationFunction = "retired-validator"

	subs := &stubSubmissionRepo{}
	questions := &stubQuestionRepo{question: question}
	svc := newSubmissionService(subs, questions)

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: question.ID, Answer: "42"}
	response, err := svc.Create(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, response.Correct)
}

func TestSubmissionServiceCreateRejectsInactiveQuestion(t *testing.T) {
	question := activeQuestion()
	question.Active = false

	svc := newSubmissionService(&stubSubmissionRepo{}, &stubQuestionRepo{question: question})

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: question.ID, Answer: "42"}
	_, err := svc.Create(context.Background(), payload)
	require.ErrorIs(t, err, ErrQuestionInactive)
}

func TestSubmissionServiceCreateRejectsExpiredQuestion(t *testing.T) {
	question := activeQuestion()
	question.Expiry = time.Now().Add(-time.Minute)

	svc := newSubmissionService(&stubSubmissionRepo{}, &stubQuestionRepo{question: question})

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: question.ID, Answer: "42"}
	_, err := svc.Create(context.Background(), payload)
	require.ErrorIs(t, err, ErrQuestionExpired)
}

func TestSubmissionServiceCreateUnknownQuestion(t *testing.T) {
	questions := &stubQuestionRepo{question: activeQuestion(), getErr: gorm.ErrRecordNotFound}
	svc := newSubmissionService(&stubSubmissionRepo{}, questions)

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: uuid.NewString(), Answer: "42"}
	_, err := svc.Create(context.Background(), payload)
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSubmissionServiceCreateSurfacesRecordFailure(t *testing.T) {
	subs := &stubSubmissionRepo{}
	questions := &stubQuestionRepo{question: activeQuestion(), recordErr: errors.New("connection reset")}
	svc := newSubmissionService(subs, questions)

	payload := dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: questions.question.ID, Answer: "42"}
	_, err := svc.Create(context.Background(), payload)
	require.ErrorIs(t, err, ErrSubmissionNotRecorded)
	require.Len(t, subs.created, 1, "the submission row stays in place")
}

func TestSubmissionServiceCreateValidatesPayload(t *testing.T) {
	svc := newSubmissionService(&stubSubmissionRepo{}, &stubQuestionRepo{question: activeQuestion()})

	var validationErrors validator.ValidationErrors

	_, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: "not-a-uuid", Answer: "42"})
	require.ErrorAs(t, err, &validationErrors)

	_, err = svc.Create(context.Background(), dto.SubmissionCreateRequest{UserID: uuid.NewString(), QuestionID: uuid.NewString()})
	require.ErrorAs(t, err, &validationErrors)
}

func TestSubmissionServiceListPassesFilter(t *testing.T) {
	subs := &stubSubmissionRepo{}
	svc := newSubmissionService(subs, &stubQuestionRepo{question: activeQuestion()})

	userID := uuid.NewString()
	_, err := svc.List(context.Background(), dto.SubmissionListFilter{UserID: &userID})
	require.NoError(t, err)
	require.NotNil(t, subs.last.UserID)
	require.Equal(t, userID, *subs.last.UserID)
}
