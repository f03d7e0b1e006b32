package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supportpilot/internal/dto"
	"supportpilot/internal/models"
	"supportpilot/pkg/auth"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrInvalidAPIKey     = errors.New("invalid API key")
)

// WorkspaceStore is the persistence contract for workspace auth.
type WorkspaceStore interface {
	Create(ctx context.Context, ws *models.Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
}

type AuthService struct {
	workspaces WorkspaceStore
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(workspaces WorkspaceStore, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		workspaces: workspaces,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// CreateWorkspace creates a workspace and returns its API key. The key is
// stored only as a bcrypt hash; this is the one time the plaintext exists.
func (s *AuthService) CreateWorkspace(ctx context.Context, name string) (*models.Workspace, string, error) {
	keyBytes := make([]byte, 24)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, "", fmt.Errorf("generate api key: %w", err)
	}
	apiKey := "spk_" + hex.EncodeToString(keyBytes)

	hash, err := auth.HashAPIKey(apiKey)
	if err != nil {
		return nil, "", err
	}

	ws := &models.Workspace{
		ID:         uuid.New(),
		Name:       name,
		APIKeyHash: hash,
		CreatedAt:  time.Now(),
	}
	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, "", fmt.Errorf("create workspace: %w", err)
	}

	s.logger.Info("Workspace created", zap.String("workspace_id", ws.ID.String()), zap.String("name", name))
	return ws, apiKey, nil
}

// ExchangeAPIKey validates a workspace API key and issues a short-lived
// access token for it.
func (s *AuthService) ExchangeAPIKey(ctx context.Context, req *dto.TokenRequest) (*dto.TokenResponse, error) {
	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		return nil, ErrWorkspaceNotFound
	}

	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil || ws == nil {
		return nil, ErrWorkspaceNotFound
	}

	if !auth.CheckAPIKey(ws.APIKeyHash, req.APIKey) {
		s.logger.Warn("API key rejected", zap.String("workspace_id", req.WorkspaceID))
		return nil, ErrInvalidAPIKey
	}

	token, err := s.jwtManager.GenerateToken(ws.ID.String(), ws.Name)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtManager.TokenDuration().Seconds()),
	}, nil
}
