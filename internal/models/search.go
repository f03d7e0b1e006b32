package models

import "github.com/google/uuid"

// Citation tells the caller where an answer fragment came from. It is a
// tagged union keyed by Corpus: the docs variant carries Route/Anchor/URL,
// the kb variant carries SourcePath only. Widgets hyperlink directly to
// URL, so its shape ("{route}" or "{route}#{anchor}") is part of the
// service contract.
type Citation struct {
	Corpus     Corpus  `json:"corpus"`
	Route      string  `json:"route,omitempty"`
	Anchor     *string `json:"anchor,omitempty"`
	URL        string  `json:"url,omitempty"`
	SourcePath string  `json:"source_path,omitempty"`
}

// DocsCitation builds the docs-corpus citation variant.
func DocsCitation(route string, anchor *string) Citation {
	url := route
	if anchor != nil && *anchor != "" {
		url = route + "#" + *anchor
	}
	return Citation{Corpus: CorpusDocs, Route: route, Anchor: anchor, URL: url}
}

// KBCitation builds the kb-corpus citation variant.
func KBCitation(sourcePath string) Citation {
	return Citation{Corpus: CorpusKB, SourcePath: sourcePath}
}

// RetrievedChunk is a chunk joined with the fields of its owning document
// that retrieval needs. The repository materializes these; the ranker never
// issues queries of its own.
type RetrievedChunk struct {
	ChunkID       uuid.UUID
	DocumentID    uuid.UUID
	CanonicalID   string
	Corpus        Corpus
	Route         *string
	SourcePath    string
	DocumentTitle string
	ChunkIndex    int
	HeadingPath   []string
	Anchor        *string
	Content       string
}

// Citation shapes the chunk's citation according to its corpus.
func (c RetrievedChunk) Citation() Citation {
	if c.Corpus == CorpusDocs {
		route := "/"
		if c.Route != nil {
			route = *c.Route
		}
		return DocsCitation(route, c.Anchor)
	}
	return KBCitation(c.SourcePath)
}

// SearchResult is one ranked hit. Transient, never persisted.
type SearchResult struct {
	Corpus      Corpus    `json:"corpus"`
	DocumentID  uuid.UUID `json:"document_id"`
	CanonicalID string    `json:"canonical_id"`
	ChunkID     uuid.UUID `json:"chunk_id"`
	HeadingPath []string  `json:"heading_path"`
	Score       float64   `json:"score"`
	Citation    Citation  `json:"citation"`
	Excerpt     string    `json:"excerpt"`
}

// ConfidenceLevel is the discrete label derived from ranking signals.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ConfidenceSignals are the numeric features the confidence classifier
// derived its label from. Returned alongside the label for observability.
type ConfidenceSignals struct {
	TopScore             float64 `json:"top_score"`
	SecondScore          float64 `json:"second_score"`
	ScoreGap             float64 `json:"score_gap"`
	DocsCount            int     `json:"docs_count"`
	KBCount              int     `json:"kb_count"`
	HasDocsTop1          bool    `json:"has_docs_top1"`
	ResultCount          int     `json:"result_count"`
	SuggestedRoutesCount int     `json:"suggested_routes_count"`
	AvgTop3Score         float64 `json:"avg_top3_score"`
}
