package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codequest-dev/challenges-api/internal/dto"
	"github.com/codequest-dev/challenges-api/internal/pagination"
	"github.com/codequest-dev/challenges-api/internal/service"
	"github.com/codequest-dev/challenges-api/internal/utils"
)

// SeasonHandler manages season and standings endpoints.
type SeasonHandler struct {
	service service.SeasonService
	logger  zerolog.Logger
}

// NewSeasonHandler builds a season handler instance.
func NewSeasonHandler(service service.SeasonService, logger zerolog.Logger) *SeasonHandler {
	return &SeasonHandler{
		service: service,
		logger:  logger.With().Str("component", "season_handler").Logger(),
	}
}

// Register attaches the season routes to the provided router group. Creation
// sits behind the admin auth chain; the per-user ranking update is an
// internal write and shares it.
func (h *SeasonHandler) Register(router fiber.Router, auth ...fiber.Handler) {
	router.Get("", h.list)
	router.Get("/active", h.listActive)
	router.Get("/:seasonID", h.get)
	router.Post("", withChain(auth, h.create)...)
	router.Get("/:seasonID/rankings", h.rankings)
	router.Get("/:seasonID/rankings/:userID", h.userRanking)
	router.Put("/:seasonID/rankings/:userID", withChain(auth, h.updateRanking)...)
}

// RegisterUserRoutes attaches the user-centric standings fan-out route.
func (h *SeasonHandler) RegisterUserRoutes(router fiber.Router) {
	router.Get("/:userID/rankings", h.userRankings)
}

func (h *SeasonHandler) list(c *fiber.Ctx) error {
	start, err := parseQueryMillis(c, "start")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	end, err := parseQueryMillis(c, "end")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	seasons, err := h.service.ListByDateRange(c.Context(), start, end)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "seasons retrieved", seasons)
}

func (h *SeasonHandler) listActive(c *fiber.Ctx) error {
	seasons, err := h.service.ListActive(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "seasons retrieved", seasons)
}

func (h *SeasonHandler) get(c *fiber.Ctx) error {
	season, err := h.service.Get(c.Context(), c.Params("seasonID"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "season retrieved", season)
}

func (h *SeasonHandler) create(c *fiber.Ctx) error {
	var payload dto.SeasonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request: date invalid")
	}

	season, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "season created", season)
}

// rankings serves the season standings. Without pagination parameters the
// full standings are returned; with page and limit (both required together)
// one page plus navigation metadata is returned. Supplying only one of the
// two is a validation error.
func (h *SeasonHandler) rankings(c *fiber.Ctx) error {
	seasonID := c.Params("seasonID")

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if (page == nil) != (limit == nil) {
		return utils.SendError(c, fiber.StatusBadRequest, "page and limit must be supplied together")
	}

	if page == nil {
		rankings, err := h.service.GetRankings(c.Context(), seasonID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "rankings retrieved", rankings)
	}

	if *page < 0 || *limit < 1 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	}

	rankings, total, err := h.service.GetRankingsPage(c.Context(), seasonID, *page, *limit)
	if err != nil {
		return h.handleError(c, err)
	}

	pageCount := (int(total) + *limit - 1) / *limit
	maxPage := pageCount - 1
	if maxPage < 0 {
		maxPage = 0
	}

	meta, err := pagination.Paginate(c.Path(), *page, *limit, maxPage, int(total))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.SendPage(c, "rankings retrieved", rankings, meta)
}

func (h *SeasonHandler) userRanking(c *fiber.Ctx) error {
	ranking, err := h.service.GetUserRanking(c.Context(), c.Params("seasonID"), c.Params("userID"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ranking retrieved", ranking)
}

func (h *SeasonHandler) userRankings(c *fiber.Ctx) error {
	rankings, err := h.service.GetUserRankings(c.Context(), c.Params("userID"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rankings retrieved", rankings)
}

func (h *SeasonHandler) updateRanking(c *fiber.Ctx) error {
	var payload dto.RankingUpdateRequest
	if err := c.BodyParser(&payload); err != nil || payload.Points == nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid points")
	}

	ranking, err := h.service.UpdateRanking(c.Context(), c.Params("seasonID"), c.Params("userID"), *payload.Points)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "ranking updated", ranking)
}

func (h *SeasonHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidSeasonID):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid season id")
	case errors.Is(err, service.ErrInvalidUserID):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	case errors.Is(err, service.ErrInvalidPagination):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid pagination parameters")
	case errors.Is(err, service.ErrSeasonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "season not found")
	case errors.Is(err, service.ErrRankingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "ranking not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func parseQueryMillis(c *fiber.Ctx, key string) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	millis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, errors.New("invalid " + key)
	}
	parsed := time.UnixMilli(millis)
	return &parsed, nil
}
