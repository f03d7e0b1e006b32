package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"supportpilot/internal/models"
)

func scoredResult(corpus models.Corpus, score float64) models.SearchResult {
	return models.SearchResult{Corpus: corpus, Score: score}
}

func TestScoreConfidence_NoResultsIsLow(t *testing.T) {
	level, signals := ScoreConfidence(nil, nil, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceLow, level)
	assert.Zero(t, signals.ResultCount)
	assert.Zero(t, signals.TopScore)
}

func TestScoreConfidence_WeakTopScoreIsLow(t *testing.T) {
	results := []models.SearchResult{
		scoredResult(models.CorpusDocs, 0.8),
		scoredResult(models.CorpusDocs, 0.5),
	}

	level, _ := ScoreConfidence(results, []string{"/a"}, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceLow, level)
}

func TestScoreConfidence_DocsLeadWithWideGapIsHigh(t *testing.T) {
	results := []models.SearchResult{
		scoredResult(models.CorpusDocs, 6.0),
		scoredResult(models.CorpusDocs, 2.0),
	}

	level, signals := ScoreConfidence(results, []string{"/a"}, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceHigh, level)
	assert.Equal(t, 4.0, signals.ScoreGap)
	assert.True(t, signals.HasDocsTop1)
}

func TestScoreConfidence_DocsLeadWithStrongTop3IsHigh(t *testing.T) {
	results := []models.SearchResult{
		scoredResult(models.CorpusDocs, 5.5),
		scoredResult(models.CorpusDocs, 5.0),
		scoredResult(models.CorpusKB, 4.0),
	}

	level, signals := ScoreConfidence(results, []string{"/a"}, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceHigh, level)
	assert.InDelta(t, 4.833, signals.AvgTop3Score, 0.01)
}

func TestScoreConfidence_SingleDocsHitIsMedium(t *testing.T) {
	results := []models.SearchResult{scoredResult(models.CorpusDocs, 3.0)}

	level, _ := ScoreConfidence(results, []string{"/a"}, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceMedium, level)
}

func TestScoreConfidence_DocsLeadNarrowGapIsMedium(t *testing.T) {
	results := []models.SearchResult{
		scoredResult(models.CorpusDocs, 3.0),
		scoredResult(models.CorpusDocs, 2.5),
	}

	level, _ := ScoreConfidence(results, []string{"/a"}, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceMedium, level)
}

func TestScoreConfidence_StrongKBOnlyIsMedium(t *testing.T) {
	results := []models.SearchResult{
		scoredResult(models.CorpusKB, 4.0),
		scoredResult(models.CorpusKB, 3.5),
	}

	level, signals := ScoreConfidence(results, nil, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceMedium, level)
	assert.Zero(t, signals.DocsCount)
	assert.Equal(t, 2, signals.KBCount)
}

func TestScoreConfidence_WeakKBOnlyIsLow(t *testing.T) {
	results := []models.SearchResult{scoredResult(models.CorpusKB, 1.5)}

	level, _ := ScoreConfidence(results, nil, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceLow, level)
}

func TestScoreConfidence_KBTopWithStrongMixIsMedium(t *testing.T) {
	results := []models.SearchResult{
		scoredResult(models.CorpusKB, 4.0),
		scoredResult(models.CorpusDocs, 3.5),
		scoredResult(models.CorpusDocs, 3.0),
	}

	level, signals := ScoreConfidence(results, []string{"/a"}, DefaultConfidenceConfig())

	assert.Equal(t, models.ConfidenceMedium, level)
	assert.False(t, signals.HasDocsTop1)
}

func TestScoreConfidence_MonotonicInTopScore(t *testing.T) {
	rank := map[models.ConfidenceLevel]int{
		models.ConfidenceLow:    0,
		models.ConfidenceMedium: 1,
		models.ConfidenceHigh:   2,
	}
	cfg := DefaultConfidenceConfig()

	prev := -1
	for _, top := range []float64{0.5, 1.0, 1.5, 2.0, 3.0, 4.5, 6.0, 9.0} {
		results := []models.SearchResult{
			scoredResult(models.CorpusDocs, top),
			scoredResult(models.CorpusDocs, 2.0),
		}
		level, _ := ScoreConfidence(results, []string{"/a"}, cfg)
		assert.GreaterOrEqual(t, rank[level], prev, "top score %v lowered confidence", top)
		prev = rank[level]
	}
}

func TestScoreConfidence_SignalsShape(t *testing.T) {
	results := []models.SearchResult{
		scoredResult(models.CorpusDocs, 5.0),
		scoredResult(models.CorpusKB, 3.0),
		scoredResult(models.CorpusDocs, 2.0),
		scoredResult(models.CorpusKB, 1.5),
	}

	_, signals := ScoreConfidence(results, []string{"/a", "/b"}, DefaultConfidenceConfig())

	assert.Equal(t, 4, signals.ResultCount)
	assert.Equal(t, 2, signals.DocsCount)
	assert.Equal(t, 2, signals.KBCount)
	assert.Equal(t, 5.0, signals.TopScore)
	assert.Equal(t, 3.0, signals.SecondScore)
	assert.Equal(t, 2.0, signals.ScoreGap)
	assert.Equal(t, 2, signals.SuggestedRoutesCount)
	assert.InDelta(t, 10.0/3.0, signals.AvgTop3Score, 1e-9)
}
