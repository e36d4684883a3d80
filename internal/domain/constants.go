package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultRequestTimeout bounds every daemon HTTP call
	DefaultRequestTimeout = 25 * time.Second
	// DefaultStatusRefreshInterval is how often auto-refresh polls /health
	DefaultStatusRefreshInterval = 30 * time.Second
)

// Daemon defaults
const (
	// DefaultBaseURL is the loopback endpoint the daemon binds by default
	DefaultBaseURL = "http://127.0.0.1:9000"
	// BackendEnvVar overrides the daemon base URL from the environment
	BackendEnvVar = "EKUPKARAN_BACKEND"
)

// Limit constants
const (
	// DefaultQueryLimit is the default number of knowledge hits to request
	DefaultQueryLimit = 5
	// GroundingQueryLimit bounds the context query issued before planning
	GroundingQueryLimit = 3
	// DefaultDocumentLimit caps document listings client-side
	DefaultDocumentLimit = 40
	// AuditFetchLimit caps how many audit events are fetched for display
	AuditFetchLimit = 60
	// AuditTrailWindow is how many recent events the trail presents
	AuditTrailWindow = 12
)

// History constants
const (
	// DefaultHistoryLimit is the default number of run records to display
	DefaultHistoryLimit = 20
)

// State store keys, kept compatible with the desktop front-end's blobs.
const (
	// PreferencesStateKey addresses the persisted preferences blob
	PreferencesStateKey = "ekupkaran.preferences"
	// BackendHostStateKey addresses the persisted daemon base URL
	BackendHostStateKey = "ekupkaran.backendHost"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
