package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportpilot/internal/models"
)

func TestChunkDocument_BoundaryPerH2(t *testing.T) {
	text := `# Payments

## Charges

Create a charge with the API.

## Refunds

Issue a refund within 90 days.

## Disputes

Respond to disputes from the dashboard.
`
	chunks := ChunkDocument(models.CorpusDocs, text, DefaultChunkingConfig())

	require.Len(t, chunks, 3)
	assert.Equal(t, []string{"Payments", "Charges"}, chunks[0].HeadingPath)
	assert.Equal(t, []string{"Payments", "Refunds"}, chunks[1].HeadingPath)
	assert.Equal(t, []string{"Payments", "Disputes"}, chunks[2].HeadingPath)
	assert.Equal(t, "charges", *chunks[0].Anchor)
	assert.Equal(t, "refunds", *chunks[1].Anchor)
	assert.Equal(t, "disputes", *chunks[2].Anchor)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestChunkDocument_PreambleBeforeFirstH2(t *testing.T) {
	text := `# Webhooks

Webhooks push events to your endpoint.

## Setup

Register an endpoint URL.
`
	chunks := ChunkDocument(models.CorpusDocs, text, DefaultChunkingConfig())

	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"Webhooks"}, chunks[0].HeadingPath)
	assert.Nil(t, chunks[0].Anchor)
	assert.Contains(t, chunks[0].Content, "push events")
	assert.NotContains(t, chunks[0].Content, "# Webhooks")
	assert.Equal(t, "setup", *chunks[1].Anchor)
}

func TestChunkDocument_NoH2SingleChunk(t *testing.T) {
	text := "# Glossary\n\nShort page with no sections.\n"

	chunks := ChunkDocument(models.CorpusDocs, text, DefaultChunkingConfig())

	require.Len(t, chunks, 1)
	assert.Nil(t, chunks[0].Anchor)
	assert.Equal(t, []string{"Glossary"}, chunks[0].HeadingPath)
	assert.Equal(t, "Short page with no sections.", chunks[0].Content)
}

func TestChunkDocument_H3StaysInline(t *testing.T) {
	text := `## Errors

### Timeouts

Retry with backoff.

### Rate limits

Slow down.
`
	chunks := ChunkDocument(models.CorpusDocs, text, DefaultChunkingConfig())

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "### Timeouts")
	assert.Contains(t, chunks[0].Content, "### Rate limits")
}

func TestChunkDocument_CodeFenceHeadingNotBoundary(t *testing.T) {
	text := "## Config\n\n```yaml\n## not a heading\nkey: value\n```\n\nDone.\n"

	chunks := ChunkDocument(models.CorpusDocs, text, DefaultChunkingConfig())

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "## not a heading")
}

func TestChunkDocument_DuplicateHeadingsDisambiguated(t *testing.T) {
	text := `## Setup

Docs setup.

## Usage

Usage notes.

## Setup

Server setup.

## Setup

Client setup.
`
	chunks := ChunkDocument(models.CorpusDocs, text, DefaultChunkingConfig())

	require.Len(t, chunks, 4)
	assert.Equal(t, "setup", *chunks[0].Anchor)
	assert.Equal(t, "usage", *chunks[1].Anchor)
	assert.Equal(t, "setup-1", *chunks[2].Anchor)
	assert.Equal(t, "setup-2", *chunks[3].Anchor)
}

func TestChunkDocument_OversizedSectionWindows(t *testing.T) {
	cfg := ChunkingConfig{MaxChars: 100, OverlapChars: 20}
	body := strings.Repeat("abcdefghij", 35) // 350 chars
	text := "## Long section\n\n" + body + "\n"

	chunks := ChunkDocument(models.CorpusDocs, text, cfg)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		if i < len(chunks)-1 {
			assert.Len(t, c.Content, cfg.MaxChars, "window %d", i)
		}
		if i > 0 {
			prev := chunks[i-1].Content
			assert.True(t, strings.HasPrefix(c.Content, prev[len(prev)-cfg.OverlapChars:]),
				"window %d must begin with the previous window's tail", i)
		}
		// Every window inherits the parent section's identity.
		require.NotNil(t, c.Anchor)
		assert.Equal(t, "long-section", *c.Anchor)
		assert.Equal(t, []string{"Long section"}, c.HeadingPath)
		assert.Equal(t, i, c.Index)
	}
}

func TestChunkDocument_OversizedBodyNoH2(t *testing.T) {
	cfg := ChunkingConfig{MaxChars: 120, OverlapChars: 30}
	text := strings.Repeat("lorem ipsum dolor sit amet ", 20)

	chunks := ChunkDocument(models.CorpusDocs, text, cfg)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.Nil(t, c.Anchor)
		assert.Empty(t, c.HeadingPath)
	}
}

func TestChunkDocument_KBHeadingPath(t *testing.T) {
	text := `# Exported article

Intro paragraph.

## Signature verification failing

Check the webhook secret.
`
	chunks := ChunkDocument(models.CorpusKB, text, DefaultChunkingConfig())

	require.Len(t, chunks, 2)
	// kb breadcrumbs never include the H1 and kb chunks never get anchors.
	assert.Empty(t, chunks[0].HeadingPath)
	assert.Equal(t, []string{"Signature verification failing"}, chunks[1].HeadingPath)
	assert.Nil(t, chunks[0].Anchor)
	assert.Nil(t, chunks[1].Anchor)
}

func TestChunkDocument_EmptyInput(t *testing.T) {
	assert.Empty(t, ChunkDocument(models.CorpusDocs, "", DefaultChunkingConfig()))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Setup", "setup"},
		{"Signature verification failing", "signature-verification-failing"},
		{"API keys & secrets", "api-keys-secrets"},
		{"  Spaces  everywhere  ", "spaces-everywhere"},
		{"Already-hyphenated", "already-hyphenated"},
		{"100% uptime!", "100-uptime"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "slugify %q", tt.in)
	}
}
