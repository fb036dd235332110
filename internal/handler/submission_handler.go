package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/service"
	"github.com/codequest-dev/challenges-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. The group is
// expected to carry the auth middleware; the submitting user comes from the
// token, never from the body.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	filter := dto.SubmissionListFilter{}
	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if questionID := c.Query("question_id"); questionID != "" {
		filter.QuestionID = &questionID
	}
	if seasonID := c.Query("season_id"); seasonID != "" {
		filter.SeasonID = &seasonID
	}

	submissions, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing authenticated user")
	}

	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload.UserID = userID

	submission, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "answer submitted", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	// Business-rule rejections: the caller sees the specific reason.
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusBadRequest, "question not found")
	case errors.Is(err, service.ErrQuestionInactive):
		return utils.SendError(c, fiber.StatusBadRequest, "question is not active")
	case errors.Is(err, service.ErrQuestionExpired):
		return utils.SendError(c, fiber.StatusBadRequest, "question has expired")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrSubmissionNotRecorded):
		h.logger.Error().Err(err).Msg("submission not recorded on question")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
