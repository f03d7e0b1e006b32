package service

import (
	"fmt"
	"strings"

	"supportpilot/internal/models"
)

// TicketConfig bounds the fields of a generated ticket draft.
type TicketConfig struct {
	MaxTitleChars      int
	MaxQuestionQuote   int
	MaxAnswerPreview   int
	MaxSuggestions     int
	MinSpecificPrompts int
}

// DefaultTicketConfig returns the production draft limits.
func DefaultTicketConfig() TicketConfig {
	return TicketConfig{
		MaxTitleChars:      80,
		MaxQuestionQuote:   160,
		MaxAnswerPreview:   240,
		MaxSuggestions:     5,
		MinSpecificPrompts: 3,
	}
}

// NoDocumentationFound is the exact summary sentence used when a query
// matched nothing. Support tooling greps for it, so it is a constant.
const NoDocumentationFound = "No relevant documentation was found for this query."

// suggestionRule pairs question cue words with the follow-up information a
// support agent will want. A data table instead of branching logic so new
// cues are one-line additions.
type suggestionRule struct {
	triggers []string
	prompts  []string
}

var suggestionRules = []suggestionRule{
	{
		triggers: []string{"error", "fail", "failing", "failed", "broken", "crash", "exception", "timeout"},
		prompts: []string{
			"The exact error message or code the customer is seeing",
			"When the problem started and whether anything changed just before",
		},
	},
	{
		triggers: []string{"setup", "install", "configure", "configuration", "onboarding", "integrate", "integration"},
		prompts: []string{
			"Which setup step the customer is on and what the current configuration looks like",
			"The platform or framework version the customer is integrating with",
		},
	},
	{
		triggers: []string{"payment", "payments", "charge", "charged", "transaction", "refund", "payout", "invoice", "billing"},
		prompts: []string{
			"The transaction or payment ID involved",
			"The amount, currency, and approximate time of the transaction",
		},
	},
}

var fallbackPrompts = []string{
	"What the customer was trying to accomplish",
	"Steps to reproduce the issue, if applicable",
	"Account or workspace identifier for follow-up",
}

// GenerateTicketDraft deterministically synthesizes a support-ticket draft
// from the question, the top-ranked results, and whatever answer text was
// generated (may be empty). It never fails: missing inputs degrade to
// generic fallback content, because a draft must always be producible as
// the low-confidence fallback path.
func GenerateTicketDraft(question string, topResults []models.SearchResult, attemptedAnswer string, citations []models.Citation, cfg TicketConfig) models.TicketDraft {
	draft := models.TicketDraft{
		Title:             ticketTitle(question, cfg.MaxTitleChars),
		UserQuestion:      question,
		AttemptedAnswer:   attemptedAnswer,
		Summary:           ticketSummary(question, topResults, attemptedAnswer, cfg),
		SuggestedNextInfo: suggestNextInfo(question, topResults, cfg),
		Citations:         citations,
	}
	if len(draft.Citations) == 0 {
		for i, r := range topResults {
			if i == 3 {
				break
			}
			draft.Citations = append(draft.Citations, r.Citation)
		}
	}
	return draft
}

func ticketTitle(question string, maxChars int) string {
	title := strings.TrimSpace(question)
	title = strings.TrimRight(title, "?!. \t")
	if title == "" {
		title = "Support request"
	}
	runes := []rune(title)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	if len(runes) > maxChars {
		runes = append(runes[:maxChars-1], '…')
	}
	return string(runes)
}

func ticketSummary(question string, results []models.SearchResult, attemptedAnswer string, cfg TicketConfig) []string {
	summary := []string{
		fmt.Sprintf("Customer question: %q", truncate(question, cfg.MaxQuestionQuote)),
	}

	docsCount, kbCount := 0, 0
	for _, r := range results {
		if r.Corpus == models.CorpusDocs {
			docsCount++
		} else {
			kbCount++
		}
	}
	switch {
	case docsCount == 0 && kbCount == 0:
		summary = append(summary, NoDocumentationFound)
	default:
		summary = append(summary, fmt.Sprintf(
			"Found %d documentation section(s) and %d knowledge base article(s) that may be related.",
			docsCount, kbCount))
	}

	if attemptedAnswer != "" {
		summary = append(summary, fmt.Sprintf("Assistant's attempted answer: %q", truncate(attemptedAnswer, cfg.MaxAnswerPreview)))
	} else {
		summary = append(summary, "No answer was generated before escalation.")
	}

	summary = append(summary, "This ticket was drafted automatically because answer confidence was insufficient.")
	return summary
}

func suggestNextInfo(question string, results []models.SearchResult, cfg TicketConfig) []string {
	lower := strings.ToLower(question)
	var prompts []string

	for _, rule := range suggestionRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				prompts = append(prompts, rule.prompts...)
				break
			}
		}
	}

	if len(results) > 0 {
		top := results[0]
		if top.Corpus == models.CorpusDocs && top.Citation.Route != "" {
			prompts = append(prompts, fmt.Sprintf("Whether the customer already followed the page at %s", top.Citation.URL))
		} else if len(top.HeadingPath) > 0 {
			prompts = append(prompts, fmt.Sprintf("Whether the %q article matches the customer's situation", top.HeadingPath[len(top.HeadingPath)-1]))
		}
	}

	prompts = dedupe(prompts)
	for _, generic := range fallbackPrompts {
		if len(prompts) >= cfg.MinSpecificPrompts {
			break
		}
		prompts = append(prompts, generic)
	}
	prompts = dedupe(prompts)
	if len(prompts) > cfg.MaxSuggestions {
		prompts = prompts[:cfg.MaxSuggestions]
	}
	return prompts
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

func truncate(s string, maxChars int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= maxChars {
		return string(runes)
	}
	return string(runes[:maxChars-1]) + "…"
}
