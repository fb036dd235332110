package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/capability"
	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/models"
	"github.com/codequest-dev/challenges-api/internal/repository"
)

// QuestionService owns the question lifecycle and per-user generated inputs.
type QuestionService interface {
	List(ctx context.Context, filter dto.QuestionFilter) ([]dto.QuestionResponse, error)
	Get(ctx context.Context, id string) (dto.QuestionResponse, error)
	Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Update(ctx context.Context, id string, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Delete(ctx context.Context, id string) error
	GetUserQuestion(ctx context.Context, userID, questionID string) (dto.UserQuestionResponse, error)
}

type questionService struct {
	questions repository.QuestionRepository
	registry  *capability.Registry
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questionRepo repository.QuestionRepository, registry *capability.Registry, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questionRepo,
		registry:  registry,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) List(ctx context.Context, filter dto.QuestionFilter) ([]dto.QuestionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	questions, err := s.questions.List(ctx, repository.QuestionFilter{
		Active:   filter.Active,
		SeasonID: filter.SeasonID,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Get(ctx context.Context, id string) (dto.QuestionResponse, error) {
	question, err := s.fetch(ctx, id)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if err := s.checkCapabilities(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := questionFromRequest(payload)
	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Str("question_id", question.ID).Int("question_no", question.Number).Msg("question created")

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Update(ctx context.Context, id string, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	existing, err := s.fetch(ctx, id)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if err := s.checkCapabilities(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := questionFromRequest(payload)
	question.ID = existing.ID
	question.CreatedAt = existing.CreatedAt
	// Scheduling and submission state survive edits: the activity window is
	// pinned once published, and counters belong to the submission path.
	question.QuestionDate = existing.QuestionDate
	question.Expiry = existing.Expiry
	question.Submissions = existing.Submissions
	question.SubmissionsCount = existing.SubmissionsCount
	question.CorrectSubmissionsCount = existing.CorrectSubmissionsCount

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Str("question_id", question.ID).Msg("question updated")

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidQuestionID
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	s.logger.Info().Str("question_id", id).Msg("question deleted")

	return nil
}

// GetUserQuestion returns the question together with the caller's personalized
// input, generating and persisting the input on first request. The repository
// enforces at-most-one input per (user, season, question); a lost insert race
// comes back as the winner's stored sequence.
func (s *questionService) GetUserQuestion(ctx context.Context, userID, questionID string) (dto.UserQuestionResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return dto.UserQuestionResponse{}, ErrInvalidUserID
	}

	question, err := s.fetch(ctx, questionID)
	if err != nil {
		return dto.UserQuestionResponse{}, err
	}

	generated, err := s.registry.GenerateInput(question.ID, userID, question.GenerateInputFunction)
	if err != nil {
		s.logger.Error().Err(err).
			Str("question_id", question.ID).
			Str("generate_input_function", question.GenerateInputFunction).
			Msg("input generation failed")
		return dto.UserQuestionResponse{}, err
	}

	input := models.QuestionInput{
		UserID:     userID,
		SeasonID:   question.SeasonID,
		QuestionID: question.ID,
		Input:      datatypes.JSONSlice[string](generated),
	}

	stored, err := s.questions.GetOrCreateInput(ctx, &input)
	if err != nil {
		return dto.UserQuestionResponse{}, err
	}

	return dto.NewUserQuestionResponse(question, stored.Input), nil
}

func (s *questionService) fetch(ctx context.Context, id string) (models.Question, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Question{}, ErrInvalidQuestionID
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Question{}, ErrQuestionNotFound
		}
		return models.Question{}, err
	}

	return question, nil
}

func (s *questionService) checkCapabilities(payload dto.QuestionCreateRequest) error {
	if _, err := s.registry.Validator(payload.ValidationFunction); err != nil {
		s.logger.Error().
			Str("validation_function", payload.ValidationFunction).
			Msg("received invalid validation function")
		return ErrInvalidValidationFunction
	}

	if _, err := s.registry.Generator(payload.GenerateInputFunction); err != nil {
		s.logger.Error().
			Str("generate_input_function", payload.GenerateInputFunction).
			Msg("received invalid generate input function")
		return ErrInvalidGenerateInputFunction
	}

	return nil
}

func questionFromRequest(payload dto.QuestionCreateRequest) models.Question {
	return models.Question{
		Number:                payload.Number,
		Title:                 payload.Title,
		Description:           payload.Description,
		SeasonID:              payload.SeasonID,
		QuestionDate:          payload.QuestionDate,
		Expiry:                payload.Expiry,
		Answer:                payload.Answer,
		Points:                payload.Points,
		ValidationFunction:    payload.ValidationFunction,
		GenerateInputFunction: payload.GenerateInputFunction,
		Active:                payload.Active,
	}
}
