package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportpilot/internal/models"
)

const merchantAccountsPage = `---
title: Merchant Accounts
---
import { Callout } from "@/components/callout";

# Merchant Accounts

## Setup

Create a merchant account from the dashboard before accepting payments.
`

func newIngestFixture() (*IngestService, *memStore, uuid.UUID) {
	store := newMemStore()
	svc := NewIngestService(store, DefaultChunkingConfig(), testLogger())
	return svc, store, uuid.New()
}

func TestIngest_RoutedDocsPage(t *testing.T) {
	svc, store, workspaceID := newIngestFixture()

	result, err := svc.Ingest(context.Background(), IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusDocs,
		RelativePath: "merchant-accounts/page.mdx",
		RawContent:   merchantAccountsPage,
	})
	require.NoError(t, err)

	assert.Equal(t, IngestStatusOK, result.Status)
	assert.Equal(t, "docs:/merchant-accounts", result.CanonicalID)
	require.NotNil(t, result.Route)
	assert.Equal(t, "/merchant-accounts", *result.Route)
	assert.Equal(t, 1, result.ChunkCount)

	chunks := store.chunksOf("docs:/merchant-accounts")
	require.Len(t, chunks, 1)
	require.NotNil(t, chunks[0].Anchor)
	assert.Equal(t, "setup", *chunks[0].Anchor)
	assert.Equal(t, []string{"Merchant Accounts", "Setup"}, chunks[0].HeadingPath)
	assert.NotContains(t, chunks[0].Content, "import {")

	doc, err := store.GetDocumentByCanonicalID(context.Background(), workspaceID, "docs:/merchant-accounts")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Merchant Accounts", doc.Title)
}

func TestIngest_NonRoutedFileSkipped(t *testing.T) {
	svc, store, workspaceID := newIngestFixture()

	result, err := svc.Ingest(context.Background(), IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusDocs,
		RelativePath: "merchant-accounts/README.md",
		RawContent:   "# Notes\n",
	})
	require.NoError(t, err)

	assert.Equal(t, IngestStatusSkipped, result.Status)
	assert.Equal(t, "not a routed documentation page", result.Reason)
	assert.Empty(t, store.docs)
}

func TestIngest_UnchangedContentKeepsChunks(t *testing.T) {
	svc, store, workspaceID := newIngestFixture()
	req := IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusDocs,
		RelativePath: "webhooks/page.mdx",
		RawContent:   "# Webhooks\n\n## Setup\n\nRegister an endpoint.\n",
	}

	first, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, IngestStatusOK, first.Status)
	originalChunks := store.chunksOf("docs:/webhooks")
	require.Len(t, originalChunks, 1)

	second, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, IngestStatusSkipped, second.Status)
	assert.Equal(t, "content unchanged", second.Reason)
	assert.Equal(t, first.DocumentID, second.DocumentID)

	kept := store.chunksOf("docs:/webhooks")
	require.Len(t, kept, 1)
	assert.Equal(t, originalChunks[0].ID, kept[0].ID)
}

func TestIngest_ChangedContentReplacesChunks(t *testing.T) {
	svc, store, workspaceID := newIngestFixture()
	req := IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusDocs,
		RelativePath: "webhooks/page.mdx",
		RawContent:   "# Webhooks\n\n## Setup\n\nRegister an endpoint.\n\n## Retries\n\nDeliveries retry for three days.\n",
	}

	first, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, first.ChunkCount)
	oldIDs := map[uuid.UUID]bool{}
	for _, c := range store.chunksOf("docs:/webhooks") {
		oldIDs[c.ID] = true
	}

	req.RawContent = "# Webhooks\n\n## Signatures\n\nVerify the signature header.\n"
	second, err := svc.Ingest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, IngestStatusOK, second.Status)
	assert.Equal(t, first.DocumentID, second.DocumentID)
	assert.Equal(t, 1, second.ChunkCount)

	replaced := store.chunksOf("docs:/webhooks")
	require.Len(t, replaced, 1)
	assert.False(t, oldIDs[replaced[0].ID])
	require.NotNil(t, replaced[0].Anchor)
	assert.Equal(t, "signatures", *replaced[0].Anchor)
}

func TestIngest_IdentityCollision(t *testing.T) {
	svc, _, workspaceID := newIngestFixture()

	_, err := svc.Ingest(context.Background(), IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusDocs,
		RelativePath: "payments/page.md",
		RawContent:   "# Payments\n",
	})
	require.NoError(t, err)

	_, err = svc.Ingest(context.Background(), IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusDocs,
		RelativePath: "payments/page.mdx",
		RawContent:   "# Payments v2\n",
	})

	assert.ErrorIs(t, err, models.ErrIdentityCollision)
}

func TestIngest_KBArticle(t *testing.T) {
	svc, store, workspaceID := newIngestFixture()

	result, err := svc.Ingest(context.Background(), IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusKB,
		RelativePath: "guides/webhooks-troubleshooting.md",
		RawContent:   "# Webhook Troubleshooting\n\n## Signature verification failing\n\nCheck the webhook secret matches.\n",
	})
	require.NoError(t, err)

	assert.Equal(t, IngestStatusOK, result.Status)
	assert.Equal(t, "kb:guides/webhooks-troubleshooting.md", result.CanonicalID)
	assert.Nil(t, result.Route)

	chunks := store.chunksOf("kb:guides/webhooks-troubleshooting.md")
	require.Len(t, chunks, 1)
	assert.Nil(t, chunks[0].Anchor)
	assert.Equal(t, []string{"Signature verification failing"}, chunks[0].HeadingPath)
}

func TestIngest_InvalidCorpus(t *testing.T) {
	svc, _, workspaceID := newIngestFixture()

	_, err := svc.Ingest(context.Background(), IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.Corpus("wiki"),
		RelativePath: "page.md",
		RawContent:   "x",
	})

	assert.ErrorIs(t, err, models.ErrInvalidCorpus)
}

func TestIngest_Delete(t *testing.T) {
	svc, store, workspaceID := newIngestFixture()

	result, err := svc.Ingest(context.Background(), IngestRequest{
		WorkspaceID:  workspaceID,
		Corpus:       models.CorpusKB,
		RelativePath: "faq.md",
		RawContent:   "# FAQ\n\nAnswers.\n",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), result.DocumentID))
	assert.Empty(t, store.docs)
	assert.Empty(t, store.chunksOf("kb:faq.md"))
}
