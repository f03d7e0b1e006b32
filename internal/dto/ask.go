package dto

// AskRequest is the query-surface request body.
type AskRequest struct {
	Question    string   `json:"question" validate:"required"`
	TopK        int      `json:"top_k,omitempty"`
	CorpusScope []string `json:"corpus_scope,omitempty" validate:"dive,oneof=docs kb"`
}
