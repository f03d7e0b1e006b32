package service

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"supportpilot/internal/models"
)

// Routed documentation pages are files named page.<ext> anywhere in the
// docs tree. Everything else in the docs corpus is rejected at ingestion,
// not demoted in ranking.
var routedPagePattern = regexp.MustCompile(`^page\.[A-Za-z0-9]+$`)

// DeriveDocsIdentity maps a docs-corpus relative path to its navigable
// route and canonical ID. The route is the path with the trailing
// page.<ext> filename removed; the root page maps to "/".
func DeriveDocsIdentity(relativePath string) (route, canonicalID string, err error) {
	rel, err := cleanRelativePath(relativePath)
	if err != nil {
		return "", "", err
	}
	if !routedPagePattern.MatchString(path.Base(rel)) {
		return "", "", fmt.Errorf("%w: %s", models.ErrNotRoutedPage, relativePath)
	}
	dir := path.Dir(rel)
	if dir == "." {
		route = "/"
	} else {
		route = "/" + dir
	}
	return route, string(models.CorpusDocs) + ":" + route, nil
}

// DeriveKBIdentity maps a kb-corpus relative path to its canonical ID.
// Every kb file is ingestible; there is no route.
func DeriveKBIdentity(relativePath string) (canonicalID string, err error) {
	rel, err := cleanRelativePath(relativePath)
	if err != nil {
		return "", err
	}
	return string(models.CorpusKB) + ":" + rel, nil
}

// DeriveTitle resolves a document title with the precedence
// frontmatter title, first H1, humanized path segment.
func DeriveTitle(corpus models.Corpus, relativePath, frontmatterTitle, firstH1 string) string {
	if frontmatterTitle != "" {
		return frontmatterTitle
	}
	if firstH1 != "" {
		return firstH1
	}
	rel, err := cleanRelativePath(relativePath)
	if err != nil {
		return ""
	}
	if corpus == models.CorpusDocs {
		dir := path.Dir(rel)
		if dir == "." {
			return "Home"
		}
		return humanizeSegment(path.Base(dir))
	}
	base := path.Base(rel)
	return humanizeSegment(strings.TrimSuffix(base, path.Ext(base)))
}

func cleanRelativePath(relativePath string) (string, error) {
	rel := strings.ReplaceAll(relativePath, "\\", "/")
	rel = strings.Trim(path.Clean("/"+rel), "/")
	if rel == "" || rel == "." {
		return "", models.ErrEmptyRelativePath
	}
	return rel, nil
}

// humanizeSegment turns a path segment like "merchant-accounts" into
// "Merchant accounts".
func humanizeSegment(segment string) string {
	s := strings.ReplaceAll(segment, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
