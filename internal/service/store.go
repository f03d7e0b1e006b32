package service

import (
	"context"

	"github.com/google/uuid"

	"supportpilot/internal/models"
)

// DocumentStore is the persistence contract the core consumes. The core
// never issues raw queries; it receives fully materialized chunk sets and
// hands back chunk sets to persist. ReplaceChunks must be atomic
// (delete-then-recreate in one transaction) so no query observes a
// partially replaced document.
type DocumentStore interface {
	GetDocumentByCanonicalID(ctx context.Context, workspaceID uuid.UUID, canonicalID string) (*models.Document, error)
	CreateDocument(ctx context.Context, doc *models.Document, chunks []models.Chunk) error
	ReplaceChunks(ctx context.Context, doc *models.Document, chunks []models.Chunk) error
	FindChunks(ctx context.Context, workspaceID uuid.UUID, scope []models.Corpus) ([]models.RetrievedChunk, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
}

// Generator is the optional text-generation collaborator used to phrase
// the final answer. Everything downstream of ranking must work whether or
// not it is configured; draft-only deployments never call it.
type Generator interface {
	Generate(ctx context.Context, question string, results []models.SearchResult) (string, error)
}
