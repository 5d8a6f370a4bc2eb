package mediaserver

import (
	"strconv"

	"stream-sync/core/logger"
	"stream-sync/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for availability checks.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// RegisterRoutes registers the availability routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/availability")
	group.Get("/:type/:id", h.HandleCheck)
}

// HandleCheck checks every configured instance for one title.
// @Summary Check availability
// @Description Checks all configured media server instances for the given title.
// @Tags availability
// @Produce json
// @Param type path string true "Media type (movie or series)"
// @Param id path int true "TMDB id"
// @Success 200 {array} Availability "Per-instance results"
// @Failure 400 {object} map[string]string "Bad identity"
// @Router /availability/{type}/{id} [get]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	mediaType, ok := catalog.ParseMediaType(c.Params("type"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "type must be movie or series",
		})
	}

	tmdbID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be numeric",
		})
	}

	id := catalog.Identity{TmdbID: tmdbID, Type: mediaType}
	results := h.service.CheckAvailability(c.Context(), id)
	l.Debug("Availability check completed",
		zap.Int("tmdb_id", tmdbID), zap.Int("instances", len(results)))

	return c.JSON(results)
}
