package catalog

import (
	"errors"
	"strconv"

	"stream-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for catalog lookups.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/countries", h.HandleCountries)
	group.Get("/search", h.HandleSearch)
	group.Get("/shows/:type/:id", h.HandleGetShow)
}

// HandleCountries returns the country/provider catalog.
// @Summary List countries
// @Description Returns the country and streaming provider catalog (7-day cache).
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]Country "Country catalog"
// @Failure 502 {object} map[string]string "Upstream error"
// @Router /catalog/countries [get]
func (h *Handler) HandleCountries(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	countries, err := h.service.Countries(c.Context())
	if err != nil {
		l.Error("Country catalog lookup failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(countries)
}

// HandleSearch searches shows by title.
// @Summary Search shows
// @Description Search the catalog by title in the configured country.
// @Tags catalog
// @Produce json
// @Param title query string true "Title to search for"
// @Success 200 {array} Show "Matching shows"
// @Failure 400 {object} map[string]string "Missing title"
// @Router /catalog/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	title := c.Query("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title query parameter is required",
		})
	}

	results, err := h.service.SearchByTitleStrict(c.Context(), title)
	if err != nil {
		l.Error("Search failed", zap.String("title", title), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(results)
}

// HandleGetShow returns canonical metadata for one identity.
// @Summary Get show
// @Description Get canonical metadata by media type and TMDB id.
// @Tags catalog
// @Produce json
// @Param type path string true "Media type (movie or series)"
// @Param id path int true "TMDB id"
// @Success 200 {object} Show "Canonical metadata"
// @Failure 404 {object} map[string]string "No match"
// @Router /catalog/shows/{type}/{id} [get]
func (h *Handler) HandleGetShow(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	mediaType, ok := ParseMediaType(c.Params("type"))
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

	show, err := h.service.GetShowByID(c.Context(), Identity{TmdbID: tmdbID, Type: mediaType})
	if err != nil {
		l.Error("Show lookup failed", zap.Int("tmdb_id", tmdbID), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(show)
}

// respondError maps the error taxonomy to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	switch {
	case errors.Is(err, ErrInvalidCredential):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrQuotaExceeded):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
