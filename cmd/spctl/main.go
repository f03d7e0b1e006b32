package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"supportpilot/internal/models"
	"supportpilot/internal/repository"
	"supportpilot/internal/service"
	"supportpilot/pkg/auth"
	"supportpilot/pkg/config"
	"supportpilot/pkg/logger"
	"supportpilot/pkg/postgres"
)

var contentExtensions = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

func main() {
	root := &cobra.Command{
		Use:   "spctl",
		Short: "SupportPilot content administration",
	}
	root.AddCommand(newWorkspaceCmd(), newSyncCmd(), newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env wires the shared dependencies the subcommands need.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	close  func()
	ingest *service.IngestService
	auth   *service.AuthService
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Logger.Level); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()

	db, err := postgres.NewPool(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}

	docRepo := repository.NewDocumentRepository(db, log)
	workspaceRepo := repository.NewWorkspaceRepository(db, log)
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	chunking := service.ChunkingConfig{
		MaxChars:     cfg.Chunking.MaxChars,
		OverlapChars: cfg.Chunking.OverlapChars,
	}

	return &env{
		cfg:    cfg,
		log:    log,
		close:  func() { db.Close(); logger.Sync() },
		ingest: service.NewIngestService(docRepo, chunking, log),
		auth:   service.NewAuthService(workspaceRepo, jwtManager, log),
	}, nil
}

func newWorkspaceCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a workspace and print its API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			ws, apiKey, err := e.auth.CreateWorkspace(ctx, name)
			if err != nil {
				return err
			}
			fmt.Printf("workspace_id: %s\n", ws.ID)
			fmt.Printf("api_key:      %s\n", apiKey)
			fmt.Println("Store the API key now; it is not retrievable later.")
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "workspace display name")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}

func newSyncCmd() *cobra.Command {
	var (
		dir         string
		corpusName  string
		workspaceID string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Walk a content tree and ingest every matching file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			wsID, corpus, err := parseTarget(workspaceID, corpusName)
			if err != nil {
				return err
			}

			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			ok, skipped, failed := 0, 0, 0
			err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !contentExtensions[strings.ToLower(filepath.Ext(path))] {
					return nil
				}
				rel, err := filepath.Rel(dir, path)
				if err != nil {
					return err
				}
				result, err := ingestFile(ctx, e, wsID, corpus, dir, rel)
				switch {
				case err != nil:
					failed++
					e.log.Warn("Ingestion failed", zap.String("path", rel), zap.Error(err))
				case result.Status == service.IngestStatusOK:
					ok++
				default:
					skipped++
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Printf("sync complete: %d ingested, %d skipped, %d failed\n", ok, skipped, failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "content directory to walk")
	cmd.Flags().StringVar(&corpusName, "corpus", "", "corpus (docs or kb)")
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace UUID")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("corpus")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func newWatchCmd() *cobra.Command {
	var (
		dir         string
		corpusName  string
		workspaceID string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a content tree and re-ingest files as they change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			wsID, corpus, err := parseTarget(workspaceID, corpusName)
			if err != nil {
				return err
			}

			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.close()

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// fsnotify is not recursive; every subdirectory needs its
			// own watch.
			err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return watcher.Add(path)
				}
				return nil
			})
			if err != nil {
				return err
			}

			e.log.Info("Watching content tree", zap.String("dir", dir), zap.String("corpus", string(corpus)))

			for {
				select {
				case <-ctx.Done():
					return nil
				case event, okCh := <-watcher.Events:
					if !okCh {
						return nil
					}
					if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
						continue
					}
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
						continue
					}
					if !contentExtensions[strings.ToLower(filepath.Ext(event.Name))] {
						continue
					}
					rel, err := filepath.Rel(dir, event.Name)
					if err != nil {
						continue
					}
					if result, err := ingestFile(ctx, e, wsID, corpus, dir, rel); err != nil {
						e.log.Warn("Re-ingestion failed", zap.String("path", rel), zap.Error(err))
					} else if result.Status == service.IngestStatusOK {
						e.log.Info("Re-ingested", zap.String("path", rel), zap.Int("chunks", result.ChunkCount))
					}
				case err, okCh := <-watcher.Errors:
					if !okCh {
						return nil
					}
					e.log.Warn("Watcher error", zap.Error(err))
				}
			}
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "content directory to watch")
	cmd.Flags().StringVar(&corpusName, "corpus", "", "corpus (docs or kb)")
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace UUID")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("corpus")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func parseTarget(workspaceID, corpusName string) (uuid.UUID, models.Corpus, error) {
	wsID, err := uuid.Parse(workspaceID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid workspace id: %w", err)
	}
	corpus := models.Corpus(corpusName)
	if !corpus.Valid() {
		return uuid.Nil, "", fmt.Errorf("%w: %q", models.ErrInvalidCorpus, corpusName)
	}
	return wsID, corpus, nil
}

func ingestFile(ctx context.Context, e *env, wsID uuid.UUID, corpus models.Corpus, dir, rel string) (*service.IngestResult, error) {
	content, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		return nil, err
	}
	return e.ingest.Ingest(ctx, service.IngestRequest{
		WorkspaceID:  wsID,
		Corpus:       corpus,
		RelativePath: filepath.ToSlash(rel),
		RawContent:   string(content),
	})
}
