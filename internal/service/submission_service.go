package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/codequest-dev/challenges-api/internal/capability"
	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/models"
	"github.com/codequest-dev/challenges-api/internal/observability"
	"github.com/codequest-dev/challenges-api/internal/repository"
)

// SubmissionScoredSubject is the broker subject scored submissions are
// published on when a NATS connection is configured.
const SubmissionScoredSubject = "challenges.submissions.scored"

// SubmissionService scores answer attempts and records them against their
// question.
type SubmissionService interface {
	Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	List(ctx context.Context, filter dto.SubmissionListFilter) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	questions   repository.QuestionRepository
	registry    *capability.Registry
	validator   *validator.Validate
	events      *nats.Conn
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. The NATS
// connection is optional; without one, scored submissions are simply not
// published.
func NewSubmissionService(submissionRepo repository.SubmissionRepository, questionRepo repository.QuestionRepository, registry *capability.Registry, validate *validator.Validate, events *nats.Conn, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissionRepo,
		questions:   questionRepo,
		registry:    registry,
		validator:   validate,
		events:      events,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/codequest-dev/challenges-api/internal/service/submission"),
		now:         time.Now,
	}
}

// Create scores one answer attempt. Business-rule rejections (missing,
// inactive or expired question) come back as sentinel errors for the handler
// to present to the end user. Scoring happens once, at creation; the row is
// never revised. A failure while recording the submission on the question
// leaves the submission row in place and surfaces as an internal error.
func (s *submissionService) Create(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "submission.create", trace.WithAttributes(
		attribute.String("question.id", payload.QuestionID),
	))
	defer span.End()

	question, err := s.questions.GetByID(ctx, payload.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrQuestionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !question.Active {
		return dto.SubmissionResponse{}, ErrQuestionInactive
	}

	if question.IsExpired(s.now()) {
		return dto.SubmissionResponse{}, ErrQuestionExpired
	}

	correct := s.score(question, payload.Answer)
	points := 0
	if correct {
		points = question.Points
	}

	submission := models.Submission{
		UserID:        payload.UserID,
		SeasonID:      question.SeasonID,
		QuestionID:    question.ID,
		Answer:        payload.Answer,
		Correct:       correct,
		PointsAwarded: points,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.questions.RecordSubmission(ctx, question.ID, correct); err != nil {
		// The submission row exists but the question counters do not
		// reflect it. Surfaced as an internal failure; the ranking task
		// reads submissions directly, so standings stay consistent.
		s.logger.Error().Err(err).
			Str("submission_id", submission.ID).
			Str("question_id", question.ID).
			Msg("failed to record submission on question")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrSubmissionNotRecorded, err)
	}

	observability.SubmissionsScored().WithLabelValues(strconv.FormatBool(correct)).Inc()
	span.SetAttributes(attribute.Bool("submission.correct", correct))

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("question_id", question.ID).
		Bool("correct", correct).
		Int("points_awarded", points).
		Msg("submission scored")

	response := dto.NewSubmissionResponse(submission)
	s.publishScored(response)

	return response, nil
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionListFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		UserID:     filter.UserID,
		QuestionID: filter.QuestionID,
		SeasonID:   filter.SeasonID,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// score runs the question's validation capability, falling back to exact
// comparison when the stored name no longer resolves.
func (s *submissionService) score(question models.Question, answer string) bool {
	v, err := s.registry.Validator(question.ValidationFunction)
	if err != nil {
		s.logger.Warn().
			Str("question_id", question.ID).
			Str("validation_function", question.ValidationFunction).
			Msg("validation function not registered, falling back to exact match")
		return answer == question.Answer
	}

	return v.Validate(answer, question.Answer)
}

func (s *submissionService) publishScored(submission dto.SubmissionResponse) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(submission)
	if err != nil {
		return
	}

	if err := s.events.Publish(SubmissionScoredSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish scored submission event")
	}
}
