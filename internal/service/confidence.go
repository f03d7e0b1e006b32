package service

import "supportpilot/internal/models"

// ConfidenceConfig holds the classification thresholds. Configuration
// constants, never derived at runtime.
type ConfidenceConfig struct {
	// MinRelevance is the floor below which the top score means "low".
	MinRelevance float64
	// HighGap is the top-to-second score gap that, with docs ranked
	// first, signals a clear winner.
	HighGap float64
	// HighAvgTop3 is the mean top-three score above which docs-led
	// results are high confidence.
	HighAvgTop3 float64
	// MediumRelevance is the floor a result set without docs leadership
	// must clear for medium confidence: either the mean top-three score
	// (any corpus mix) or the top score (kb-only match).
	MediumRelevance float64
}

// DefaultConfidenceConfig returns the production thresholds, tuned against
// the lexical scoring constants in DefaultSearchConfig.
func DefaultConfidenceConfig() ConfidenceConfig {
	return ConfidenceConfig{
		MinRelevance:    1.0,
		HighGap:         2.0,
		HighAvgTop3:     4.5,
		MediumRelevance: 2.5,
	}
}

// ScoreConfidence classifies answer confidence from ranking signals. Pure
// function; rules apply in order and the first match wins. Zero results is
// a normal low-confidence outcome, never an error.
func ScoreConfidence(results []models.SearchResult, suggestedRoutes []string, cfg ConfidenceConfig) (models.ConfidenceLevel, models.ConfidenceSignals) {
	signals := deriveSignals(results, suggestedRoutes)

	switch {
	case signals.ResultCount == 0:
		return models.ConfidenceLow, signals
	case signals.TopScore < cfg.MinRelevance:
		return models.ConfidenceLow, signals
	case signals.HasDocsTop1 && signals.DocsCount >= 2 &&
		(signals.ScoreGap > cfg.HighGap || signals.AvgTop3Score > cfg.HighAvgTop3):
		return models.ConfidenceHigh, signals
	case (signals.HasDocsTop1 && signals.DocsCount >= 1) || signals.AvgTop3Score > cfg.MediumRelevance:
		return models.ConfidenceMedium, signals
	case signals.DocsCount == 0 && signals.TopScore > cfg.MediumRelevance:
		return models.ConfidenceMedium, signals
	default:
		return models.ConfidenceLow, signals
	}
}

func deriveSignals(results []models.SearchResult, suggestedRoutes []string) models.ConfidenceSignals {
	signals := models.ConfidenceSignals{
		ResultCount:          len(results),
		SuggestedRoutesCount: len(suggestedRoutes),
	}
	if len(results) == 0 {
		return signals
	}

	signals.TopScore = results[0].Score
	signals.HasDocsTop1 = results[0].Corpus == models.CorpusDocs
	if len(results) > 1 {
		signals.SecondScore = results[1].Score
	}
	signals.ScoreGap = signals.TopScore - signals.SecondScore

	var top3Sum float64
	top3 := 0
	for i, r := range results {
		switch r.Corpus {
		case models.CorpusDocs:
			signals.DocsCount++
		case models.CorpusKB:
			signals.KBCount++
		}
		if i < 3 {
			top3Sum += r.Score
			top3++
		}
	}
	signals.AvgTop3Score = top3Sum / float64(top3)
	return signals
}
