package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportpilot/internal/models"
)

// AskRequest is one question against a workspace's ingested content.
type AskRequest struct {
	WorkspaceID uuid.UUID
	Question    string
	TopK        int             // 0 means the configured default
	CorpusScope []models.Corpus // empty means both corpora
}

// AskResponse carries everything the query surface exposes: ranked
// results, navigation suggestions, the confidence verdict with its
// signals, the optional generated answer, and a ticket draft when
// confidence came out low.
type AskResponse struct {
	Results         []models.SearchResult    `json:"results"`
	SuggestedRoutes []string                 `json:"suggested_routes"`
	Confidence      models.ConfidenceLevel   `json:"confidence"`
	Signals         models.ConfidenceSignals `json:"signals"`
	Answer          string                   `json:"answer,omitempty"`
	TicketDraft     *models.TicketDraft      `json:"ticket_draft,omitempty"`
}

type QueryService struct {
	store      DocumentStore
	generator  Generator // nil in draft-only mode
	search     SearchConfig
	confidence ConfidenceConfig
	ticket     TicketConfig
	logger     *zap.Logger
}

func NewQueryService(
	store DocumentStore,
	generator Generator,
	search SearchConfig,
	confidence ConfidenceConfig,
	ticket TicketConfig,
	logger *zap.Logger,
) *QueryService {
	return &QueryService{
		store:      store,
		generator:  generator,
		search:     search,
		confidence: confidence,
		ticket:     ticket,
		logger:     logger,
	}
}

// Ask answers a question from the workspace's chunk set. Ranking is a full
// linear scan of the candidates, so the call is a pure function of the
// question and the stored content: same inputs, same ordering. Zero
// matches is a normal outcome surfaced as low confidence with an empty
// result list.
func (s *QueryService) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question is empty")
	}
	scope := req.CorpusScope
	if len(scope) == 0 {
		scope = []models.Corpus{models.CorpusDocs, models.CorpusKB}
	}
	for _, c := range scope {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCorpus, c)
		}
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.search.DefaultTopK
	}

	chunks, err := s.store.FindChunks(ctx, req.WorkspaceID, scope)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	ranked := Rank(req.Question, chunks, s.search)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	routes := SuggestRoutes(ranked)
	confidence, signals := ScoreConfidence(ranked, routes, s.confidence)

	resp := &AskResponse{
		Results:         ranked,
		SuggestedRoutes: routes,
		Confidence:      confidence,
		Signals:         signals,
	}

	if s.generator != nil && len(ranked) > 0 {
		answer, err := s.generator.Generate(ctx, req.Question, ranked)
		if err != nil {
			// Generation is best effort; ranking, confidence, and the
			// ticket fallback still stand on their own.
			s.logger.Warn("Answer generation failed", zap.Error(err))
		} else {
			resp.Answer = answer
		}
	}

	if confidence == models.ConfidenceLow {
		draft := GenerateTicketDraft(req.Question, ranked, resp.Answer, nil, s.ticket)
		resp.TicketDraft = &draft
	}

	s.logger.Info("Question answered",
		zap.String("workspace_id", req.WorkspaceID.String()),
		zap.Int("results", len(ranked)),
		zap.String("confidence", string(confidence)),
	)
	return resp, nil
}
