package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"supportpilot/internal/dto"
	"supportpilot/internal/models"
	"supportpilot/internal/service"
)

type IngestHandler struct {
	ingestService *service.IngestService
	logger        *zap.Logger
}

func NewIngestHandler(ingestService *service.IngestService, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		logger:        logger,
	}
}

// Ingest godoc
// @Summary Ingest one content file
// @Description Normalizes, chunks, and persists a docs page or kb article. Files not matching the corpus inclusion pattern are skipped, not failed.
// @Tags ingestion
// @Accept json
// @Produce json
// @Param request body dto.IngestRequest true "File to ingest"
// @Security Bearer
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} dto.IngestResponse
// @Failure 401 {object} map[string]string
// @Failure 409 {object} dto.IngestResponse
// @Router /api/v1/ingest [post]
func (h *IngestHandler) Ingest(c *fiber.Ctx) error {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.IngestResponse{
			Status: "error",
			Error:  "Invalid request body",
		})
	}

	result, err := h.ingestService.Ingest(c.Context(), service.IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.Corpus(req.Corpus),
		RelativePath: req.RelativePath,
		RawContent:   req.Content,
	})
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, models.ErrInvalidCorpus), errors.Is(err, models.ErrEmptyRelativePath):
			status = fiber.StatusBadRequest
		case errors.Is(err, models.ErrIdentityCollision):
			status = fiber.StatusConflict
		default:
			h.logger.Error("Ingestion failed", zap.Error(err), zap.String("path", req.RelativePath))
		}
		return c.Status(status).JSON(dto.IngestResponse{
			Status: "error",
			Error:  err.Error(),
		})
	}

	return c.JSON(dto.IngestResponse{
		Status:      string(result.Status),
		CanonicalID: result.CanonicalID,
		Route:       result.Route,
		ChunkCount:  result.ChunkCount,
		Reason:      result.Reason,
	})
}
