package models

// TicketDraft is a deterministically generated support-escalation summary.
// It is produced as the low-confidence fallback path and must always be
// producible, so lacking inputs degrade to generic content instead of
// failing. Draft only; nothing is submitted to an external helpdesk.
type TicketDraft struct {
	Title             string     `json:"title"`
	Summary           []string   `json:"summary"`
	UserQuestion      string     `json:"user_question"`
	AttemptedAnswer   string     `json:"attempted_answer,omitempty"`
	SuggestedNextInfo []string   `json:"suggested_next_info"`
	Citations         []Citation `json:"citations"`
}
