package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"supportpilot/internal/models"
)

type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

var documentColumns = []string{
	"id", "workspace_id", "canonical_id", "corpus", "route",
	"source_path", "title", "content_hash", "created_at", "updated_at",
}

// GetDocumentByCanonicalID returns the document or nil when none exists.
func (r *DocumentRepository) GetDocumentByCanonicalID(ctx context.Context, workspaceID uuid.UUID, canonicalID string) (*models.Document, error) {
	query := squirrel.Select(documentColumns...).
		From("documents").
		Where(squirrel.Eq{"workspace_id": workspaceID, "canonical_id": canonicalID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var doc models.Document
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&doc.ID, &doc.WorkspaceID, &doc.CanonicalID, &doc.Corpus, &doc.Route,
		&doc.SourcePath, &doc.Title, &doc.ContentHash, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocument persists a new document together with its chunk set in
// one transaction.
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *models.Document, chunks []models.Chunk) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := squirrel.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.WorkspaceID, doc.CanonicalID, doc.Corpus, doc.Route,
			doc.SourcePath, doc.Title, doc.ContentHash, doc.CreatedAt, doc.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceChunks swaps the document's chunk set atomically: the old chunks
// are deleted and the new ones created in the same transaction, so no
// concurrent query observes a partially replaced document. The document's
// title, hash, and timestamp are refreshed alongside.
func (r *DocumentRepository) ReplaceChunks(ctx context.Context, doc *models.Document, chunks []models.Chunk) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	update := squirrel.Update("documents").
		Set("title", doc.Title).
		Set("content_hash", doc.ContentHash).
		Set("updated_at", doc.UpdatedAt).
		Where(squirrel.Eq{"id": doc.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := update.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	del := squirrel.Delete("chunks").
		Where(squirrel.Eq{"document_id": doc.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err = del.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}

	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// FindChunks materializes every chunk of the workspace within the corpus
// scope, joined with the owning document's identity fields, in insertion
// order. Retrieval ranks over this set in memory.
func (r *DocumentRepository) FindChunks(ctx context.Context, workspaceID uuid.UUID, scope []models.Corpus) ([]models.RetrievedChunk, error) {
	corpora := make([]string, 0, len(scope))
	for _, c := range scope {
		corpora = append(corpora, string(c))
	}

	query := squirrel.Select(
		"c.id", "c.document_id", "d.canonical_id", "d.corpus", "d.route",
		"d.source_path", "d.title", "c.chunk_index", "c.heading_path", "c.anchor", "c.content").
		From("chunks c").
		Join("documents d ON d.id = c.document_id").
		Where(squirrel.Eq{"d.workspace_id": workspaceID, "d.corpus": corpora}).
		OrderBy("d.created_at ASC", "d.id ASC", "c.chunk_index ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.RetrievedChunk
	for rows.Next() {
		var chunk models.RetrievedChunk
		if err := rows.Scan(
			&chunk.ChunkID, &chunk.DocumentID, &chunk.CanonicalID, &chunk.Corpus, &chunk.Route,
			&chunk.SourcePath, &chunk.DocumentTitle, &chunk.ChunkIndex, &chunk.HeadingPath, &chunk.Anchor, &chunk.Content,
		); err != nil {
			return nil, err
		}
		results = append(results, chunk)
	}
	return results, rows.Err()
}

// DeleteDocument removes the document; chunk rows cascade.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	query := squirrel.Delete("documents").
		Where(squirrel.Eq{"id": documentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func insertChunks(ctx context.Context, tx pgx.Tx, chunks []models.Chunk) error {
	for _, chunk := range chunks {
		query := squirrel.Insert("chunks").
			Columns("id", "document_id", "chunk_index", "content", "heading_path", "anchor", "created_at").
			Values(chunk.ID, chunk.DocumentID, chunk.ChunkIndex, chunk.Content, chunk.HeadingPath, chunk.Anchor, chunk.CreatedAt).
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := query.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert chunk %d: %w", chunk.ChunkIndex, err)
		}
	}
	return nil
}
