package service

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"supportpilot/internal/models"
)

// DefaultMaxChars is the size ceiling of one chunk before windowing.
const DefaultMaxChars = 4000

// DefaultOverlapChars is how many characters consecutive windows share.
const DefaultOverlapChars = 400

// ChunkingConfig bounds chunk sizes. Explicit and immutable so tests can
// vary thresholds without touching globals.
type ChunkingConfig struct {
	MaxChars     int
	OverlapChars int
}

// DefaultChunkingConfig returns the production chunking limits.
func DefaultChunkingConfig() ChunkingConfig {
	return ChunkingConfig{MaxChars: DefaultMaxChars, OverlapChars: DefaultOverlapChars}
}

func (c ChunkingConfig) normalized() ChunkingConfig {
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	if c.OverlapChars < 0 {
		c.OverlapChars = 0
	}
	if c.OverlapChars >= c.MaxChars {
		c.OverlapChars = c.MaxChars / 4
	}
	return c
}

// ChunkData is one chunk produced by the engine, before persistence
// attaches identity.
type ChunkData struct {
	Index       int
	Content     string
	HeadingPath []string
	Anchor      *string
}

// chunkSection is one H2-delimited stretch of the document.
type chunkSection struct {
	heading string // empty for the preamble before the first H2
	body    string
}

// ChunkDocument splits normalized content into ordered, addressable chunks.
//
// A level-2 heading starts a new chunk. The first H1 is page-level context:
// it joins the breadcrumb of docs chunks but is never a boundary and never
// chunk content. Deeper headings stay inline in their enclosing section.
// Sections longer than MaxChars are split into overlapping windows that all
// inherit the section's breadcrumb and anchor. Anchors are computed for the
// docs corpus only, using the documentation site's heading-slug algorithm.
func ChunkDocument(corpus models.Corpus, normalized string, cfg ChunkingConfig) []ChunkData {
	cfg = cfg.normalized()
	h1, sections := splitSections(normalized)

	var chunks []ChunkData
	slugSeen := make(map[string]int)
	index := 0

	for _, sec := range sections {
		if strings.TrimSpace(sec.body) == "" && sec.heading == "" {
			continue
		}

		var anchor *string
		if corpus == models.CorpusDocs && sec.heading != "" {
			slug := Slugify(sec.heading)
			if n := slugSeen[slug]; n > 0 {
				disambiguated := fmt.Sprintf("%s-%d", slug, n)
				slugSeen[slug]++
				slug = disambiguated
			} else {
				slugSeen[slug]++
			}
			anchor = &slug
		}

		headingPath := buildHeadingPath(corpus, h1, sec.heading)

		windows := splitWindows(strings.TrimSpace(sec.body), cfg)
		if len(windows) == 0 {
			// A bare heading with no body still owns a chunk so the
			// section stays addressable.
			windows = []string{""}
		}
		for _, window := range windows {
			chunks = append(chunks, ChunkData{
				Index:       index,
				Content:     window,
				HeadingPath: headingPath,
				Anchor:      anchor,
			})
			index++
		}
	}
	return chunks
}

// buildHeadingPath shapes the breadcrumb: docs carry [H1?, H2], kb carries
// [H2] or nothing.
func buildHeadingPath(corpus models.Corpus, h1, h2 string) []string {
	var p []string
	if corpus == models.CorpusDocs && h1 != "" {
		p = append(p, h1)
	}
	if h2 != "" {
		p = append(p, h2)
	}
	return p
}

// splitSections walks the markdown AST to find H2 boundaries. Using the
// AST instead of a line scan means "## " inside fenced code blocks never
// splits a section. Section bodies are sliced verbatim from the source so
// code blocks and inline structure survive untouched.
func splitSections(source string) (h1 string, sections []chunkSection) {
	src := []byte(source)
	reader := text.NewReader(src)
	doc := goldmark.New().Parser().Parse(reader)

	type boundary struct {
		heading   string
		lineStart int // offset of the "## " line
		bodyStart int // offset just past the heading line
	}
	var bounds []boundary

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			continue
		}
		seg := heading.Lines().At(0)
		switch heading.Level {
		case 1:
			if h1 == "" {
				h1 = strings.TrimSpace(string(seg.Value(src)))
			}
		case 2:
			lineStart := strings.LastIndexByte(source[:seg.Start], '\n') + 1
			bodyStart := seg.Stop
			if nl := strings.IndexByte(source[bodyStart:], '\n'); nl >= 0 {
				bodyStart += nl + 1
			} else {
				bodyStart = len(source)
			}
			bounds = append(bounds, boundary{
				heading:   strings.TrimSpace(string(seg.Value(src))),
				lineStart: lineStart,
				bodyStart: bodyStart,
			})
		}
	}

	if len(bounds) == 0 {
		return h1, []chunkSection{{body: stripFirstH1Line(source, h1)}}
	}

	preamble := stripFirstH1Line(source[:bounds[0].lineStart], h1)
	if strings.TrimSpace(preamble) != "" {
		sections = append(sections, chunkSection{body: preamble})
	}
	for i, b := range bounds {
		end := len(source)
		if i+1 < len(bounds) {
			end = bounds[i+1].lineStart
		}
		sections = append(sections, chunkSection{heading: b.heading, body: source[b.bodyStart:end]})
	}
	return h1, sections
}

// stripFirstH1Line removes the "# ..." line itself; the H1 lives in the
// breadcrumb, not in chunk content.
func stripFirstH1Line(s, h1 string) string {
	if h1 == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") && strings.TrimSpace(strings.TrimPrefix(trimmed, "# ")) == h1 {
			return strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		}
	}
	return s
}

// splitWindows cuts an oversized section into consecutive windows of
// exactly MaxChars (the last may be shorter), each window after the first
// repeating the final OverlapChars characters of its predecessor.
func splitWindows(body string, cfg ChunkingConfig) []string {
	if body == "" {
		return nil
	}
	if len(body) <= cfg.MaxChars {
		return []string{body}
	}
	var windows []string
	start := 0
	for {
		end := start + cfg.MaxChars
		if end >= len(body) {
			windows = append(windows, body[start:])
			return windows
		}
		windows = append(windows, body[start:end])
		start = end - cfg.OverlapChars
	}
}

// Slugify computes a heading anchor the way the documentation site's
// heading-link generator does: lowercase, non-alphanumeric runs collapsed
// to single hyphens, leading and trailing hyphens trimmed.
func Slugify(heading string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(heading) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
