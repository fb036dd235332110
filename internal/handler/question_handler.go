package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codequest-dev/challenges-api/internal/capability"
	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/service"
	"github.com/codequest-dev/challenges-api/internal/utils"
)

// QuestionHandler manages question endpoints.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler builds a question handler instance.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. Reads are
// public; authoring endpoints sit behind the supplied auth chain.
func (h *QuestionHandler) Register(router fiber.Router, auth ...fiber.Handler) {
	router.Get("", h.list)
	router.Get("/active", h.listActive)
	router.Get("/:id", h.get)
	router.Get("/:id/input/:userID", h.getUserQuestion)
	router.Post("", withChain(auth, h.create)...)
	router.Put("/:id", withChain(auth, h.update)...)
	router.Delete("/:id", withChain(auth, h.delete)...)
}

func (h *QuestionHandler) list(c *fiber.Ctx) error {
	filter := dto.QuestionFilter{}

	active, err := parseQueryBool(c, "active")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	filter.Active = active

	if seasonID := c.Query("season_id"); seasonID != "" {
		filter.SeasonID = &seasonID
	}

	questions, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *QuestionHandler) listActive(c *fiber.Ctx) error {
	active := true
	questions, err := h.service.List(c.Context(), dto.QuestionFilter{Active: &active})
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *QuestionHandler) get(c *fiber.Ctx) error {
	question, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question retrieved", question)
}

func (h *QuestionHandler) getUserQuestion(c *fiber.Ctx) error {
	question, err := h.service.GetUserQuestion(c.Context(), c.Params("userID"), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question retrieved", question)
}

func (h *QuestionHandler) create(c *fiber.Ctx) error {
	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "question created", question)
}

func (h *QuestionHandler) update(c *fiber.Ctx) error {
	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question updated", question)
}

func (h *QuestionHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question deleted", nil)
}

func (h *QuestionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidQuestionID):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	case errors.Is(err, service.ErrInvalidUserID):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrInvalidValidationFunction):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid validation function")
	case errors.Is(err, service.ErrInvalidGenerateInputFunction):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid generate input function")
	case errors.Is(err, capability.ErrUnknownGenerator):
		h.logger.Error().Err(err).Msg("input generation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
