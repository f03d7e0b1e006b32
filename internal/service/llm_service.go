package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"

	"supportpilot/internal/models"
	"supportpilot/pkg/config"
)

// LLMService phrases final answers with GigaChat. It implements Generator;
// deployments without an API key simply run draft-only and never construct
// one.
type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func buildSystemInstruction() string {
	return `You are a documentation assistant for a product support site. Answer customer questions using ONLY the documentation excerpts provided in the prompt.

Rules:
- Base every statement on the provided excerpts. Never invent endpoints, settings, or behavior.
- If the excerpts do not contain the answer, say so plainly in one sentence.
- Keep answers short: two to four sentences, then bullet steps only when the excerpts describe a procedure.
- Quote setting names, field names, and code identifiers exactly as written in the excerpts.
- Do not mention that you were given excerpts or context; just answer.`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.2

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// Generate phrases an answer to the question from the ranked excerpts.
func (s *LLMService) Generate(ctx context.Context, question string, results []models.SearchResult) (string, error) {
	prompt := buildAnswerPrompt(question, results)

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	s.logger.Debug("Answer generated", zap.Int("prompt_chars", len(prompt)), zap.Int("answer_chars", len(answer)))
	return answer, nil
}

// buildAnswerPrompt lays the ranked excerpts out under the question, each
// labelled with its breadcrumb so the model can attribute claims.
func buildAnswerPrompt(question string, results []models.SearchResult) string {
	var b strings.Builder
	b.WriteString("Customer question: ")
	b.WriteString(question)
	b.WriteString("\n\nDocumentation excerpts:\n\n")

	if len(results) == 0 {
		b.WriteString("(none found)\n")
		return b.String()
	}
	for i, r := range results {
		label := r.CanonicalID
		if len(r.HeadingPath) > 0 {
			label = strings.Join(r.HeadingPath, " > ")
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n\n", i+1, label, r.Excerpt)
	}
	return b.String()
}
