package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContent_Frontmatter(t *testing.T) {
	raw := "---\ntitle: Merchant accounts\ncategory: payments\n---\n\n# Merchant accounts\n\nHow accounts work.\n"

	got := NormalizeContent(raw)

	assert.Equal(t, "Merchant accounts", got.FrontmatterTitle)
	assert.Equal(t, "Merchant accounts", got.FirstH1)
	assert.NotContains(t, got.Text, "category: payments")
	assert.Contains(t, got.Text, "# Merchant accounts")
	assert.Contains(t, got.Text, "How accounts work.")
}

func TestNormalizeContent_NoFrontmatter(t *testing.T) {
	got := NormalizeContent("# Webhooks\n\nSend events to your server.\n")

	assert.Empty(t, got.FrontmatterTitle)
	assert.Equal(t, "Webhooks", got.FirstH1)
}

func TestNormalizeContent_MalformedFrontmatter(t *testing.T) {
	raw := "---\ntitle: [unclosed\n---\n\nBody text.\n"

	got := NormalizeContent(raw)

	assert.Empty(t, got.FrontmatterTitle)
	assert.Contains(t, got.Text, "Body text.")
}

func TestNormalizeContent_StripsComponents(t *testing.T) {
	raw := `import { Callout } from '@/components/callout'
export const metadata = { draft: false }

# Setup

<Callout type="warning">
Keep your secret key private.
</Callout>

<EmbedVideo id="abc123" />

Regular paragraph.
`

	got := NormalizeContent(raw)

	assert.NotContains(t, got.Text, "import {")
	assert.NotContains(t, got.Text, "export const")
	assert.NotContains(t, got.Text, "<Callout")
	assert.NotContains(t, got.Text, "</Callout>")
	assert.NotContains(t, got.Text, "<EmbedVideo")
	assert.Contains(t, got.Text, "Keep your secret key private.")
	assert.Contains(t, got.Text, "Regular paragraph.")
	assert.Equal(t, "Setup", got.FirstH1)
}

func TestNormalizeContent_CodeBlocksVerbatim(t *testing.T) {
	raw := "# API\n\n```js\nimport stripe from 'stripe'\n<NotAComponent />\n```\n\nAfter.\n"

	got := NormalizeContent(raw)

	require.Contains(t, got.Text, "import stripe from 'stripe'")
	require.Contains(t, got.Text, "<NotAComponent />")
	assert.Contains(t, got.Text, "After.")
}

func TestNormalizeContent_H1InsideCodeFenceIgnored(t *testing.T) {
	raw := "```\n# not a heading\n```\n\n# Real heading\n"

	got := NormalizeContent(raw)

	assert.Equal(t, "Real heading", got.FirstH1)
}

func TestNormalizeContent_Empty(t *testing.T) {
	got := NormalizeContent("")

	assert.Empty(t, got.Text)
	assert.Empty(t, got.FrontmatterTitle)
	assert.Empty(t, got.FirstH1)
}
