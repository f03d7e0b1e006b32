package service

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"supportpilot/internal/models"
)

// SearchConfig holds the lexical scoring constants. All weights are named
// and overridable; nothing in the scoring path reads ambient state.
type SearchConfig struct {
	// DefaultTopK bounds the result set when the caller does not ask
	// for a specific size.
	DefaultTopK int
	// ScoreFloor excludes chunks scoring at or below it from the result
	// set entirely.
	ScoreFloor float64
	// BodyWeight scales the per-term frequency signal for body matches.
	BodyWeight float64
	// HeadingWeight is the bonus per question term found in the chunk's
	// heading breadcrumb. Heading text is curated, so it outweighs body
	// matches.
	HeadingWeight float64
	// ProximityBonus is awarded per adjacent question-term pair appearing
	// near each other, in source order, in the chunk body.
	ProximityBonus float64
	// ProximityWindow is how many tokens apart two terms may be and still
	// count as near-adjacent.
	ProximityWindow int
	// ExcerptMaxChars bounds result excerpts. Display only; never feeds
	// back into scoring.
	ExcerptMaxChars int
}

// DefaultSearchConfig returns the production scoring constants. The exact
// magnitudes are heuristic; they are validated by the ranking-order tests,
// not derived from a formal model.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		DefaultTopK:     5,
		ScoreFloor:      0.1,
		BodyWeight:      1.0,
		HeadingWeight:   2.5,
		ProximityBonus:  1.5,
		ProximityWindow: 3,
		ExcerptMaxChars: 280,
	}
}

// stopwords are dropped from questions before scoring. Deliberately small;
// domain words must never land here.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "be": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "and": {}, "or": {},
	"it": {}, "my": {}, "i": {}, "do": {}, "does": {}, "can": {}, "with": {},
	"what": {}, "how": {}, "why": {}, "when": {},
}

// Rank scores every candidate chunk against the question and returns the
// descending-ranked hits with citations and excerpts. It is a pure function
// of its arguments: no hidden state, no caching, so identical inputs always
// produce identical ordering and scores. Candidates scoring at or below the
// floor are dropped, not returned near zero.
func Rank(question string, chunks []models.RetrievedChunk, cfg SearchConfig) []models.SearchResult {
	terms := questionTerms(question)
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		chunk        models.RetrievedChunk
		score        float64
		headingBonus float64
		order        int
	}

	var hits []scored
	for i, chunk := range chunks {
		score, headingBonus := scoreChunk(terms, chunk, cfg)
		if score <= cfg.ScoreFloor {
			continue
		}
		hits = append(hits, scored{chunk: chunk, score: score, headingBonus: headingBonus, order: i})
	}

	// Descending score; ties go to the stronger heading match, then to
	// insertion order. Reproducibility is a contract, so no random
	// tie-breaks anywhere.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].headingBonus > hits[j].headingBonus
	})

	results := make([]models.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, models.SearchResult{
			Corpus:      h.chunk.Corpus,
			DocumentID:  h.chunk.DocumentID,
			CanonicalID: h.chunk.CanonicalID,
			ChunkID:     h.chunk.ChunkID,
			HeadingPath: h.chunk.HeadingPath,
			Score:       h.score,
			Citation:    h.chunk.Citation(),
			Excerpt:     makeExcerpt(h.chunk.Content, cfg.ExcerptMaxChars),
		})
	}
	return results
}

// scoreChunk combines three deterministic lexical signals: diminishing
// per-term frequency, a heading-match bonus, and a phrase-proximity bonus.
func scoreChunk(terms []string, chunk models.RetrievedChunk, cfg SearchConfig) (total, headingBonus float64) {
	bodyTokens := tokenize(chunk.Content)
	headingTokens := tokenize(strings.Join(chunk.HeadingPath, " "))

	tf := make(map[string]int, len(bodyTokens))
	positions := make(map[string][]int)
	for i, tok := range bodyTokens {
		tf[tok]++
		positions[tok] = append(positions[tok], i)
	}
	inHeading := make(map[string]bool, len(headingTokens))
	for _, tok := range headingTokens {
		inHeading[tok] = true
	}

	for _, term := range terms {
		if n := tf[term]; n > 0 {
			// 1 + log(tf): more occurrences help, with diminishing returns.
			total += cfg.BodyWeight * (1 + math.Log(float64(n)))
		}
		if inHeading[term] {
			headingBonus += cfg.HeadingWeight
		}
	}
	total += headingBonus
	total += proximityScore(terms, positions, cfg)
	return total, headingBonus
}

// proximityScore rewards chunks where consecutive question terms appear
// close together in source order.
func proximityScore(terms []string, positions map[string][]int, cfg SearchConfig) float64 {
	var score float64
	for i := 0; i+1 < len(terms); i++ {
		first, second := positions[terms[i]], positions[terms[i+1]]
		if nearInOrder(first, second, cfg.ProximityWindow) {
			score += cfg.ProximityBonus
		}
	}
	return score
}

func nearInOrder(first, second []int, window int) bool {
	for _, p := range first {
		for _, q := range second {
			if q > p && q-p <= window {
				return true
			}
		}
	}
	return false
}

// questionTerms returns the question's distinct normalized terms in first
// appearance order, minus stopwords.
func questionTerms(question string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, tok := range tokenize(question) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		terms = append(terms, tok)
	}
	return terms
}

// tokenize lowercases and splits on every non-alphanumeric rune.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// makeExcerpt returns a bounded prefix of the chunk content, trimmed at a
// word boundary with an ellipsis when cut.
func makeExcerpt(content string, maxChars int) string {
	text := strings.Join(strings.Fields(content), " ")
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

// SuggestRoutes derives unique navigation suggestions from ranked results
// in rank order, first rank wins. Suggestions are always docs routes; a kb
// hit never contributes, even when it ranked first. No matches means an
// empty list, not an error.
func SuggestRoutes(results []models.SearchResult) []string {
	seen := make(map[string]struct{})
	var routes []string
	for _, r := range results {
		if r.Corpus != models.CorpusDocs || r.Citation.Route == "" {
			continue
		}
		if _, dup := seen[r.Citation.Route]; dup {
			continue
		}
		seen[r.Citation.Route] = struct{}{}
		routes = append(routes, r.Citation.Route)
	}
	return routes
}
