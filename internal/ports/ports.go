// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like the daemon HTTP client, local storage, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., AutomationClient, StateRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.ekupkaran/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// AutomationClient is the facade over the daemon's HTTP surface; one method
// per daemon capability. Implementations own endpoint-shape resolution and
// defensive decoding, and map failures to the domain error taxonomy.
type AutomationClient interface {
	Health(ctx context.Context) (domain.DaemonHealth, error)
	Index(ctx context.Context, text, source string) (domain.IndexReceipt, error)
	Query(ctx context.Context, query string, limit int) ([]domain.QueryHit, error)
	Plan(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error)
	ListDocuments(ctx context.Context, limit int) ([]domain.KnowledgeDocument, error)
	FetchDocument(ctx context.Context, id string) (domain.KnowledgeDocumentDetail, error)
	DeleteDocument(ctx context.Context, id string) error
	ListAuditEvents(ctx context.Context, limit int) ([]domain.AuditEvent, error)
	AppendAuditEvent(ctx context.Context, event domain.AuditEventPayload) error
	ListPlugins(ctx context.Context) ([]domain.PluginManifest, error)

	// BaseURL reports the current daemon endpoint; SetBaseURL replaces it
	// and resets any cached route-shape knowledge.
	BaseURL() string
	SetBaseURL(raw string) error
}

// StateRepository persists opaque key-value blobs owned by the host
// platform (preferences, backend host). The core loads on start and saves
// on mutation; the storage medium is not its concern.
type StateRepository interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// HistoryRepository records completed planning runs locally.
type HistoryRepository interface {
	Save(record domain.PlanRunRecord) error
	Records(limit int) ([]domain.PlanRunRecord, error)
	Clear() error
}

// RiskEvaluator grades a plan action before dispatch. Implementations
// typically match the action text against configurable danger rules.
type RiskEvaluator interface {
	Evaluate(action domain.PlanAction) (domain.RiskAssessment, error)
}

// ConfirmationPrompter handles interactive user confirmations before
// dispatching sensitive or preview-required plan actions.
type ConfirmationPrompter interface {
	Confirm(action domain.PlanAction) (bool, error)
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
