package dto

// IngestRequest is the ingestion-surface request body.
type IngestRequest struct {
	Corpus       string `json:"corpus" validate:"required,oneof=docs kb"`
	RelativePath string `json:"relative_path" validate:"required"`
	Content      string `json:"content" validate:"required"`
}

// IngestResponse reports what happened to the offered file.
type IngestResponse struct {
	Status      string  `json:"status"` // ok | skipped | error
	CanonicalID string  `json:"canonical_id,omitempty"`
	Route       *string `json:"route,omitempty"`
	ChunkCount  int     `json:"chunk_count,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	Error       string  `json:"error,omitempty"`
}
