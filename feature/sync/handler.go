package sync

import (
	"errors"

	"stream-sync/core/logger"
	"stream-sync/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for document synchronization.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/documents", h.HandleSyncDocument)
	group.Post("/batch", h.HandleStartBatch)
	group.Get("/jobs/:id", h.HandleGetJob)
	group.Delete("/jobs/:id", h.HandleCancelJob)
}

type syncDocumentRequest struct {
	Path string `json:"path"`
}

// HandleSyncDocument synchronizes a single document.
// @Summary Sync one document
// @Description Resolves the document's identity, fetches canonical metadata and availability, and applies the enabled field changes.
// @Tags sync
// @Accept json
// @Produce json
// @Param request body syncDocumentRequest true "Document path"
// @Success 200 {object} Result "Sync outcome"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "No identity found"
// @Router /sync/documents [post]
func (h *Handler) HandleSyncDocument(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req syncDocumentRequest
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "path is required",
		})
	}

	result, err := h.service.SyncDocument(c.Context(), req.Path)
	if err != nil {
		l.Error("Document sync failed", zap.String("path", req.Path), zap.Error(err))
		return respondSyncError(c, err)
	}

	return c.JSON(result)
}

// HandleStartBatch starts a batch sync over the whole vault.
// @Summary Start batch sync
// @Description Starts a background batch synchronization across every vault document and returns the job.
// @Tags sync
// @Produce json
// @Success 202 {object} Summary "Started job"
// @Failure 500 {object} map[string]string "Vault listing failed"
// @Router /sync/batch [post]
func (h *Handler) HandleStartBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	docs, err := h.service.Documents()
	if err != nil {
		l.Error("Vault listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	job := h.service.StartBatch(docs)
	l.Info("Batch sync started", zap.String("job_id", job.ID), zap.Int("documents", len(docs)))

	return c.Status(fiber.StatusAccepted).JSON(job.Snapshot())
}

// HandleGetJob returns the state of a batch job.
// @Summary Get job status
// @Description Returns a point-in-time snapshot of a batch job, including errors grouped by message.
// @Tags sync
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} Summary "Job snapshot"
// @Failure 404 {object} map[string]string "Unknown job"
// @Router /sync/jobs/{id} [get]
func (h *Handler) HandleGetJob(c *fiber.Ctx) error {
	job, ok := h.service.Jobs().Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown job",
		})
	}
	return c.JSON(job.Snapshot())
}

// HandleCancelJob requests cooperative cancellation of a batch job.
// @Summary Cancel job
// @Description Requests cancellation; the in-flight document finishes, no further document starts.
// @Tags sync
// @Produce json
// @Param id path string true "Job id"
// @Success 202 {object} Summary "Job snapshot after the cancel request"
// @Failure 404 {object} map[string]string "Unknown job"
// @Router /sync/jobs/{id} [delete]
func (h *Handler) HandleCancelJob(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	job, ok := h.service.Jobs().Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown job",
		})
	}

	job.Cancel()
	l.Info("Job cancellation requested", zap.String("job_id", job.ID))
	return c.Status(fiber.StatusAccepted).JSON(job.Snapshot())
}

// respondSyncError maps sync and catalog errors to HTTP statuses.
func respondSyncError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	switch {
	case errors.Is(err, ErrNoIdentity), errors.Is(err, catalog.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrAmbiguousTitle):
		status = fiber.StatusConflict
	case errors.Is(err, catalog.ErrInvalidCredential):
		status = fiber.StatusBadRequest
	case errors.Is(err, catalog.ErrQuotaExceeded):
		status = fiber.StatusTooManyRequests
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
