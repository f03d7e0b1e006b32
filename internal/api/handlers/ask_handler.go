package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportpilot/internal/dto"
	"supportpilot/internal/models"
	"supportpilot/internal/service"
)

type AskHandler struct {
	queryService *service.QueryService
	logger       *zap.Logger
}

func NewAskHandler(queryService *service.QueryService, logger *zap.Logger) *AskHandler {
	return &AskHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// Ask godoc
// @Summary Answer a question from ingested documentation
// @Description Ranks the workspace's content against the question and returns results, suggested routes, a confidence verdict, and a ticket draft when confidence is low
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.AskRequest true "Question"
// @Security Bearer
// @Success 200 {object} service.AskResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/ask [post]
func (h *AskHandler) Ask(c *fiber.Ctx) error {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question is required",
		})
	}

	scope := make([]models.Corpus, 0, len(req.CorpusScope))
	for _, raw := range req.CorpusScope {
		corpus := models.Corpus(raw)
		if !corpus.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid corpus scope: " + raw,
			})
		}
		scope = append(scope, corpus)
	}

	resp, err := h.queryService.Ask(c.Context(), service.AskRequest{
		WorkspaceID: workspaceID,
		Question:    req.Question,
		TopK:        req.TopK,
		CorpusScope: scope,
	})
	if err != nil {
		h.logger.Error("Failed to answer question", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to answer question",
		})
	}

	return c.JSON(resp)
}

func getWorkspaceID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("workspaceID").(string)
	return uuid.Parse(raw)
}
