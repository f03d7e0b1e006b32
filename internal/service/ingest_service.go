package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportpilot/internal/models"
)

// IngestStatus reports what happened to one ingested file.
type IngestStatus string

const (
	IngestStatusOK      IngestStatus = "ok"
	IngestStatusSkipped IngestStatus = "skipped"
)

// IngestRequest is one file offered for ingestion.
type IngestRequest struct {
	WorkspaceID  uuid.UUID
	Corpus       models.Corpus
	RelativePath string
	RawContent   string
}

// IngestResult reports the outcome. Skips carry a Reason; persisted
// ingestions carry the stored identity.
type IngestResult struct {
	Status      IngestStatus
	CanonicalID string
	Route       *string
	DocumentID  uuid.UUID
	ChunkCount  int
	Reason      string
}

type IngestService struct {
	store    DocumentStore
	chunking ChunkingConfig
	logger   *zap.Logger
}

func NewIngestService(store DocumentStore, chunking ChunkingConfig, logger *zap.Logger) *IngestService {
	return &IngestService{
		store:    store,
		chunking: chunking,
		logger:   logger,
	}
}

// Ingest runs the full ingestion pipeline for one file: normalize, derive
// identity, hash, chunk, persist. A file that does not match its corpus
// inclusion pattern is skipped, not failed. Re-ingestion with an unchanged
// content hash leaves the stored chunks untouched; a changed hash replaces
// them atomically (delete-then-recreate, never a partial patch).
func (s *IngestService) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	if !req.Corpus.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCorpus, req.Corpus)
	}

	raw := sanitizeUTF8(req.RawContent)
	normalized := NormalizeContent(raw)

	var (
		route       *string
		canonicalID string
	)
	switch req.Corpus {
	case models.CorpusDocs:
		r, id, err := DeriveDocsIdentity(req.RelativePath)
		if errors.Is(err, models.ErrNotRoutedPage) {
			return &IngestResult{Status: IngestStatusSkipped, Reason: "not a routed documentation page"}, nil
		}
		if err != nil {
			return nil, err
		}
		route, canonicalID = &r, id
	case models.CorpusKB:
		id, err := DeriveKBIdentity(req.RelativePath)
		if err != nil {
			return nil, err
		}
		canonicalID = id
	}

	sourcePath, err := cleanRelativePath(req.RelativePath)
	if err != nil {
		return nil, err
	}
	title := DeriveTitle(req.Corpus, sourcePath, normalized.FrontmatterTitle, normalized.FirstH1)
	contentHash := hashContent(raw)

	existing, err := s.store.GetDocumentByCanonicalID(ctx, req.WorkspaceID, canonicalID)
	if err != nil {
		return nil, fmt.Errorf("lookup document %s: %w", canonicalID, err)
	}

	if existing != nil && existing.SourcePath != sourcePath {
		return nil, fmt.Errorf("%w: %s already ingested from %s, now offered from %s",
			models.ErrIdentityCollision, canonicalID, existing.SourcePath, sourcePath)
	}

	if existing != nil && existing.ContentHash == contentHash {
		s.logger.Debug("Content unchanged, keeping existing chunks",
			zap.String("canonical_id", canonicalID))
		return &IngestResult{
			Status:      IngestStatusSkipped,
			CanonicalID: canonicalID,
			Route:       route,
			DocumentID:  existing.ID,
			Reason:      "content unchanged",
		}, nil
	}

	chunkData := ChunkDocument(req.Corpus, normalized.Text, s.chunking)
	now := time.Now()

	doc := existing
	if doc == nil {
		doc = &models.Document{
			ID:          uuid.New(),
			WorkspaceID: req.WorkspaceID,
			CanonicalID: canonicalID,
			Corpus:      req.Corpus,
			Route:       route,
			SourcePath:  sourcePath,
			CreatedAt:   now,
		}
	}
	doc.Title = title
	doc.ContentHash = contentHash
	doc.UpdatedAt = now

	chunks := make([]models.Chunk, 0, len(chunkData))
	for _, cd := range chunkData {
		chunks = append(chunks, models.Chunk{
			ID:          uuid.New(),
			DocumentID:  doc.ID,
			ChunkIndex:  cd.Index,
			Content:     cd.Content,
			HeadingPath: cd.HeadingPath,
			Anchor:      cd.Anchor,
			CreatedAt:   now,
		})
	}

	if existing == nil {
		if err := s.store.CreateDocument(ctx, doc, chunks); err != nil {
			return nil, fmt.Errorf("create document %s: %w", canonicalID, err)
		}
	} else {
		if err := s.store.ReplaceChunks(ctx, doc, chunks); err != nil {
			return nil, fmt.Errorf("replace chunks of %s: %w", canonicalID, err)
		}
	}

	s.logger.Info("Document ingested",
		zap.String("canonical_id", canonicalID),
		zap.String("corpus", string(req.Corpus)),
		zap.Int("chunks", len(chunks)),
		zap.Bool("replaced", existing != nil),
	)

	return &IngestResult{
		Status:      IngestStatusOK,
		CanonicalID: canonicalID,
		Route:       route,
		DocumentID:  doc.ID,
		ChunkCount:  len(chunks),
	}, nil
}

// Delete removes a document and, through ownership, all of its chunks.
func (s *IngestService) Delete(ctx context.Context, documentID uuid.UUID) error {
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	s.logger.Info("Document deleted", zap.String("document_id", documentID.String()))
	return nil
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
