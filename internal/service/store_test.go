package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportpilot/internal/models"
)

// memStore is an in-memory DocumentStore for service tests. It preserves
// insertion order, which the ranker's tie-break contract depends on.
type memStore struct {
	docs   map[uuid.UUID]*models.Document
	chunks map[uuid.UUID][]models.Chunk
	order  []uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		docs:   make(map[uuid.UUID]*models.Document),
		chunks: make(map[uuid.UUID][]models.Chunk),
	}
}

func (m *memStore) GetDocumentByCanonicalID(_ context.Context, workspaceID uuid.UUID, canonicalID string) (*models.Document, error) {
	for _, doc := range m.docs {
		if doc.WorkspaceID == workspaceID && doc.CanonicalID == canonicalID {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateDocument(_ context.Context, doc *models.Document, chunks []models.Chunk) error {
	if _, exists := m.docs[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	m.chunks[doc.ID] = append([]models.Chunk(nil), chunks...)
	m.order = append(m.order, doc.ID)
	return nil
}

func (m *memStore) ReplaceChunks(_ context.Context, doc *models.Document, chunks []models.Chunk) error {
	if _, exists := m.docs[doc.ID]; !exists {
		return fmt.Errorf("document %s not found", doc.ID)
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	m.chunks[doc.ID] = append([]models.Chunk(nil), chunks...)
	return nil
}

func (m *memStore) FindChunks(_ context.Context, workspaceID uuid.UUID, scope []models.Corpus) ([]models.RetrievedChunk, error) {
	inScope := make(map[models.Corpus]bool, len(scope))
	for _, c := range scope {
		inScope[c] = true
	}

	var results []models.RetrievedChunk
	for _, docID := range m.order {
		doc := m.docs[docID]
		if doc.WorkspaceID != workspaceID || !inScope[doc.Corpus] {
			continue
		}
		for _, chunk := range m.chunks[docID] {
			results = append(results, models.RetrievedChunk{
				ChunkID:       chunk.ID,
				DocumentID:    doc.ID,
				CanonicalID:   doc.CanonicalID,
				Corpus:        doc.Corpus,
				Route:         doc.Route,
				SourcePath:    doc.SourcePath,
				DocumentTitle: doc.Title,
				ChunkIndex:    chunk.ChunkIndex,
				HeadingPath:   chunk.HeadingPath,
				Anchor:        chunk.Anchor,
				Content:       chunk.Content,
			})
		}
	}
	return results, nil
}

func (m *memStore) DeleteDocument(_ context.Context, documentID uuid.UUID) error {
	delete(m.docs, documentID)
	delete(m.chunks, documentID)
	for i, id := range m.order {
		if id == documentID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) chunksOf(canonicalID string) []models.Chunk {
	for _, doc := range m.docs {
		if doc.CanonicalID == canonicalID {
			return m.chunks[doc.ID]
		}
	}
	return nil
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
