package domain

import (
	"strings"
	"time"
)

// PlanAction is one automation step proposed by the daemon. The ID is
// generated locally for list rendering and is not stable across reloads.
type PlanAction struct {
	ID              string
	Name            string
	Payload         string
	Sensitive       bool
	PreviewRequired bool
}

// QueryHit is a single knowledge-search result.
type QueryHit struct {
	ID      string
	DocID   string
	Score   float64
	Text    string
	Preview string
}

// DisplayText returns the best available snippet for a hit.
func (h QueryHit) DisplayText() string {
	if h.Preview != "" {
		return h.Preview
	}
	return h.DocID
}

// KnowledgeDocument is an index summary entry.
type KnowledgeDocument struct {
	ID        string
	Source    string
	Timestamp time.Time
	Preview   string
}

// KnowledgeDocumentDetail carries the full document body.
type KnowledgeDocumentDetail struct {
	ID        string
	Source    string
	Timestamp time.Time
	Text      string
}

// IndexReceipt is the daemon's acknowledgement of a newly indexed snippet.
type IndexReceipt struct {
	ID        string
	Source    string
	Timestamp time.Time
	Preview   string
}

// AuditEvent is one logged action or plan event from the daemon's trail.
type AuditEvent struct {
	ID        string
	Type      string
	Payload   map[string]string
	Timestamp time.Time
}

// AuditEventPayload is a client-authored event to append to the trail.
type AuditEventPayload struct {
	Type      string
	Payload   map[string]string
	Timestamp time.Time
}

// PluginManifest describes an installed daemon plugin.
type PluginManifest struct {
	ID             string
	Name           string
	Version        string
	Scopes         []string
	API            string
	Signature      string
	MinCoreVersion string
	Capabilities   []string
}

// SignatureValid reports whether the manifest carries a recognized
// signature marker.
func (m PluginManifest) SignatureValid() bool {
	return strings.HasPrefix(strings.ToLower(m.Signature), "ed25519:")
}

// BackendInfo is the daemon's self-description reported alongside health.
type BackendInfo struct {
	Host    string
	Plugins int
	Storage string
}

// DaemonHealth is a liveness snapshot, replaced wholesale on every check.
type DaemonHealth struct {
	OK            bool
	DocumentCount int
	Backend       BackendInfo
}

// PlanParams tune a single plan request.
type PlanParams struct {
	Temperature float64
	MaxTokens   int
}
