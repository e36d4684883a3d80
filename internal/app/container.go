package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/infrastructure/config"
	"github.com/gigakumar/ekupkaran-go/internal/infrastructure/daemon"
	"github.com/gigakumar/ekupkaran-go/internal/infrastructure/history"
	"github.com/gigakumar/ekupkaran-go/internal/infrastructure/security"
	"github.com/gigakumar/ekupkaran-go/internal/infrastructure/state"
	"github.com/gigakumar/ekupkaran-go/internal/pkg/logger"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
	"github.com/gigakumar/ekupkaran-go/internal/services"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Planner      *services.PlannerService
	Knowledge    *services.KnowledgeService
	Doctor       *services.DoctorService
	Preferences  *services.PreferencesService
	Client       ports.AutomationClient
	ConfigLoader *config.FileLoader
	StateStore   *state.FileStore
	HistoryStore ports.HistoryRepository
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	stateStore := state.NewFileStore("")
	historyStore := buildHistoryStore(cfg)

	client, err := daemon.NewClient(resolveBaseURL(stateStore, cfg), httpClient(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("configure daemon client: %w", err)
	}

	prefsService := &services.PreferencesService{State: stateStore, Logger: log}

	guardrail, err := security.NewGuardrail("")
	if err != nil {
		return nil, fmt.Errorf("load guardrail rules: %w", err)
	}

	planner := &services.PlannerService{
		Client:      client,
		Preferences: prefsService,
		History:     historyStore,
		Risk:        guardrail,
		Logger:      log,
	}
	knowledge := &services.KnowledgeService{
		Client:      client,
		Preferences: prefsService,
		Logger:      log,
	}
	doctor := &services.DoctorService{
		ConfigProvider: cfgLoader,
		Client:         client,
		State:          stateStore,
		History:        historyStore,
	}

	return &Container{
		Planner:      planner,
		Knowledge:    knowledge,
		Doctor:       doctor,
		Preferences:  prefsService,
		Client:       client,
		ConfigLoader: cfgLoader,
		StateStore:   stateStore,
		HistoryStore: historyStore,
		Logger:       log,
	}, nil
}

// SetBackendHost updates the daemon endpoint and persists it for future
// sessions. The client forgets its cached route shape on change.
func (c *Container) SetBackendHost(raw string) error {
	normalized := strings.TrimRight(strings.TrimSpace(raw), "/")
	if err := c.Client.SetBaseURL(normalized); err != nil {
		return err
	}
	return c.StateStore.Save(domain.BackendHostStateKey, []byte(normalized))
}

// resolveBaseURL picks the daemon endpoint: the persisted host wins over
// the config file, which already folds in EKUPKARAN_BACKEND and the
// loopback default.
func resolveBaseURL(store *state.FileStore, cfg domain.Config) string {
	if data, found, err := store.Load(domain.BackendHostStateKey); err == nil && found {
		if host := strings.TrimSpace(string(data)); host != "" {
			return host
		}
	}
	return cfg.Daemon.BaseURL
}

func buildHistoryStore(cfg domain.Config) ports.HistoryRepository {
	if !cfg.History.Enabled {
		return nil
	}
	return history.NewSQLiteStore()
}

func httpClient(cfg domain.Config) *http.Client {
	timeout := domain.DefaultRequestTimeout
	if cfg.Daemon.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Daemon.TimeoutSeconds) * time.Second
	}
	return &http.Client{Timeout: timeout}
}
