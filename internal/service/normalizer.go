package service

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n?`)
	esmImportPattern   = regexp.MustCompile(`^\s*import\s+(?:[^'"]*\s+from\s+)?['"][^'"]+['"];?\s*$`)
	esmExportPattern   = regexp.MustCompile(`^\s*export\s+`)
	// Embedded components are capitalized JSX-style tags. Opening and
	// closing tags are removed while their inner content is kept.
	componentTagPattern = regexp.MustCompile(`</?[A-Z][A-Za-z0-9]*(?:\.[A-Za-z0-9]+)*(?:\s[^<>]*?)?/?>`)
	h1Pattern           = regexp.MustCompile(`^#\s+(.+?)\s*$`)
)

// NormalizedContent is the output of NormalizeContent.
type NormalizedContent struct {
	Text             string
	FrontmatterTitle string
	FirstH1          string
}

// NormalizeContent strips frontmatter and embedded component syntax from
// raw source text. Fenced code blocks and headings pass through verbatim;
// both carry high retrieval signal. Malformed markup is stripped
// best-effort and never causes an error. Pure function of its input.
func NormalizeContent(raw string) NormalizedContent {
	var out NormalizedContent

	body := raw
	if m := frontmatterPattern.FindStringSubmatch(raw); m != nil {
		out.FrontmatterTitle = frontmatterTitle(m[1])
		body = raw[len(m[0]):]
	}

	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))
	inFence := false
	fenceMarker := ""

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inFence {
			kept = append(kept, line)
			if strings.HasPrefix(trimmed, fenceMarker) {
				inFence = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = true
			fenceMarker = trimmed[:3]
			kept = append(kept, line)
			continue
		}

		if esmImportPattern.MatchString(line) || esmExportPattern.MatchString(line) {
			continue
		}

		stripped := componentTagPattern.ReplaceAllString(line, "")
		if strings.TrimSpace(stripped) == "" && strings.TrimSpace(line) != "" {
			// Line held nothing but component markup.
			continue
		}

		if out.FirstH1 == "" {
			if m := h1Pattern.FindStringSubmatch(stripped); m != nil {
				out.FirstH1 = m[1]
			}
		}
		kept = append(kept, stripped)
	}

	out.Text = strings.TrimSpace(strings.Join(kept, "\n")) + "\n"
	if strings.TrimSpace(out.Text) == "" {
		out.Text = ""
	}
	return out
}

// frontmatterTitle decodes the YAML block and pulls the title field, if any.
func frontmatterTitle(block string) string {
	var fm map[string]any
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return ""
	}
	if title, ok := fm["title"].(string); ok {
		return strings.TrimSpace(title)
	}
	return ""
}
