package models

import (
	"time"

	"github.com/google/uuid"
)

// Corpus identifies one of the two ingestible content sources.
type Corpus string

const (
	CorpusDocs Corpus = "docs"
	CorpusKB   Corpus = "kb"
)

func (c Corpus) Valid() bool {
	return c == CorpusDocs || c == CorpusKB
}

// Document is an ingested content file. Identity is the canonical ID,
// unique per workspace: "docs:"+route for the docs corpus and
// "kb:"+sourcePath for the kb corpus. SourcePath is kept for
// traceability only and never used as identity for docs.
type Document struct {
	ID          uuid.UUID `db:"id"`
	WorkspaceID uuid.UUID `db:"workspace_id"`
	CanonicalID string    `db:"canonical_id"`
	Corpus      Corpus    `db:"corpus"`
	Route       *string   `db:"route"` // docs only, nil for kb
	SourcePath  string    `db:"source_path"`
	Title       string    `db:"title"`
	ContentHash string    `db:"content_hash"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Chunk is the smallest retrievable unit of a document. Chunks are owned
// by their document: replacing a document's content replaces every chunk.
type Chunk struct {
	ID          uuid.UUID `db:"id"`
	DocumentID  uuid.UUID `db:"document_id"`
	ChunkIndex  int       `db:"chunk_index"` // display ordering only, not identity
	Content     string    `db:"content"`
	HeadingPath []string  `db:"heading_path"` // docs: [H1?, H2]; kb: [H2] or empty
	Anchor      *string   `db:"anchor"`       // docs only, nil when the section had no H2
	CreatedAt   time.Time `db:"created_at"`
}

// Workspace scopes documents and authenticates ingestion/query callers.
// The API key is stored as a bcrypt hash and shown in plaintext only once,
// at creation time.
type Workspace struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	APIKeyHash string    `db:"api_key_hash"`
	CreatedAt  time.Time `db:"created_at"`
}
