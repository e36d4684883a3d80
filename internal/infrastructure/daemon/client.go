package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// Client is the HTTP facade over the automation daemon: one method per
// daemon capability, composing resolver, transport and codec.
type Client struct {
	mu        sync.RWMutex
	baseURL   *url.URL
	resolver  *endpointResolver
	transport *transport
	logger    ports.Logger
}

// NewClient builds a client for the given base URL.
func NewClient(rawURL string, httpClient *http.Client, log ports.Logger) (*Client, error) {
	base, err := parseBaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		resolver:  &endpointResolver{},
		transport: newTransport(httpClient),
		logger:    log,
	}, nil
}

// BaseURL reports the configured daemon endpoint.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL.String()
}

// SetBaseURL replaces the daemon endpoint and forgets the cached route
// shape, since the new daemon may mount its routes differently.
func (c *Client) SetBaseURL(raw string) error {
	base, err := parseBaseURL(raw)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.baseURL = base
	c.mu.Unlock()
	c.resolver.reset()
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBaseURL, raw)
	}
	return base, nil
}

func (c *Client) absolute(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rel := *c.baseURL
	rel.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	return rel.String()
}

// request issues one call with the preferred route shape. A 404 triggers
// a single probe of the other shape; a probe success flips the cached
// preference for every later call, a probe 404 (or any other status)
// surfaces the original failure, and a probe transport failure surfaces
// itself since it is no evidence for either shape.
func (c *Client) request(ctx context.Context, method, logical string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		encoded, err := encode(body)
		if err != nil {
			return nil, err
		}
		payload = encoded
	}

	prefixed := c.resolver.prefersNamespace.Load()
	primary := c.resolver.resolve(logical)
	data, err := c.transport.send(ctx, method, c.absolute(primary), payload)
	if err == nil {
		return data, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	fallback := c.resolver.alternate(logical)
	if fallback == primary {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Debug("probing alternate route shape", map[string]interface{}{
			"path": fallback, "method": method,
		})
	}
	data, probeErr := c.transport.send(ctx, method, c.absolute(fallback), payload)
	if probeErr != nil {
		if errors.Is(probeErr, domain.ErrDaemonUnavailable) {
			return nil, probeErr
		}
		return nil, err
	}
	c.resolver.recordOutcome(!prefixed, true)
	return data, nil
}

// Health returns the daemon liveness snapshot.
func (c *Client) Health(ctx context.Context) (domain.DaemonHealth, error) {
	data, err := c.request(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return domain.DaemonHealth{}, err
	}
	wire, err := decode[struct {
		Status    string `json:"status"`
		Documents *int   `json:"documents"`
		Backend   struct {
			Host    string `json:"host"`
			Plugins *int   `json:"plugins"`
			Storage string `json:"storage"`
		} `json:"backend"`
	}](data)
	if err != nil {
		return domain.DaemonHealth{}, err
	}
	return domain.DaemonHealth{
		OK:            strings.EqualFold(wire.Status, "ok"),
		DocumentCount: intOrZero(wire.Documents),
		Backend: domain.BackendInfo{
			Host:    wire.Backend.Host,
			Plugins: intOrZero(wire.Backend.Plugins),
			Storage: wire.Backend.Storage,
		},
	}, nil
}

// Index submits a snippet for indexing and returns the daemon's receipt.
// Emptiness of text is the caller's concern, not enforced here.
func (c *Client) Index(ctx context.Context, text, source string) (domain.IndexReceipt, error) {
	body := struct {
		Text   string `json:"text"`
		Source string `json:"source"`
	}{Text: text, Source: source}
	data, err := c.request(ctx, http.MethodPost, "/index", body)
	if err != nil {
		return domain.IndexReceipt{}, err
	}
	wire, err := decode[struct {
		ID      string   `json:"id"`
		Source  *string  `json:"source"`
		Ts      *float64 `json:"ts"`
		Preview *string  `json:"preview"`
	}](data)
	if err != nil {
		return domain.IndexReceipt{}, err
	}
	if wire.ID == "" {
		return domain.IndexReceipt{}, fmt.Errorf("%w: index response missing id", domain.ErrDecodeFailed)
	}
	return domain.IndexReceipt{
		ID:        wire.ID,
		Source:    stringOr(wire.Source, "unknown"),
		Timestamp: epochTime(wire.Ts),
		Preview:   stringOr(wire.Preview, ""),
	}, nil
}

// Query runs a knowledge search and returns hits in server order.
func (c *Client) Query(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
	body := struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}{Query: query, Limit: limit}
	data, err := c.request(ctx, http.MethodPost, "/query", body)
	if err != nil {
		return nil, err
	}
	wire, err := decode[struct {
		Hits []struct {
			DocID   *string  `json:"doc_id"`
			Score   *float64 `json:"score"`
			Text    *string  `json:"text"`
			Preview *string  `json:"preview"`
		} `json:"hits"`
	}](data)
	if err != nil {
		return nil, err
	}
	hits := make([]domain.QueryHit, 0, len(wire.Hits))
	for _, h := range wire.Hits {
		hits = append(hits, domain.QueryHit{
			ID:      uuid.NewString(),
			DocID:   stringOr(h.DocID, ""),
			Score:   floatOrZero(h.Score),
			Text:    stringOr(h.Text, ""),
			Preview: stringOr(h.Preview, ""),
		})
	}
	return hits, nil
}

// Plan asks the daemon for an action plan toward a goal.
func (c *Client) Plan(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
	body := struct {
		Goal   string `json:"goal"`
		Params struct {
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		} `json:"params"`
	}{Goal: goal}
	body.Params.Temperature = params.Temperature
	body.Params.MaxTokens = params.MaxTokens

	data, err := c.request(ctx, http.MethodPost, "/plan", body)
	if err != nil {
		return nil, err
	}
	wire, err := decode[struct {
		Actions []struct {
			Name            *string `json:"name"`
			Payload         Value   `json:"payload"`
			Sensitive       *bool   `json:"sensitive"`
			PreviewRequired *bool   `json:"preview_required"`
		} `json:"actions"`
	}](data)
	if err != nil {
		return nil, err
	}
	actions := make([]domain.PlanAction, 0, len(wire.Actions))
	for _, a := range wire.Actions {
		actions = append(actions, domain.PlanAction{
			ID:              uuid.NewString(),
			Name:            stringOr(a.Name, ""),
			Payload:         a.Payload.PayloadString(),
			Sensitive:       boolOrFalse(a.Sensitive),
			PreviewRequired: boolOrFalse(a.PreviewRequired),
		})
	}
	return actions, nil
}

// ListDocuments returns index summary entries, truncated client-side if
// the daemon returns more than limit.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]domain.KnowledgeDocument, error) {
	data, err := c.request(ctx, http.MethodGet, "/documents", nil)
	if err != nil {
		return nil, err
	}
	wire, err := decode[struct {
		Documents []struct {
			ID      string   `json:"id"`
			Source  *string  `json:"source"`
			Ts      *float64 `json:"ts"`
			Preview *string  `json:"preview"`
		} `json:"documents"`
	}](data)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.KnowledgeDocument, 0, len(wire.Documents))
	for _, d := range wire.Documents {
		if limit > 0 && len(docs) >= limit {
			break
		}
		if d.ID == "" {
			continue
		}
		docs = append(docs, domain.KnowledgeDocument{
			ID:        d.ID,
			Source:    stringOr(d.Source, "unknown"),
			Timestamp: epochTime(d.Ts),
			Preview:   stringOr(d.Preview, ""),
		})
	}
	return docs, nil
}

// FetchDocument retrieves the full document body.
func (c *Client) FetchDocument(ctx context.Context, id string) (domain.KnowledgeDocumentDetail, error) {
	data, err := c.request(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.KnowledgeDocumentDetail{}, err
	}
	wire, err := decode[struct {
		ID     string   `json:"id"`
		Source *string  `json:"source"`
		Ts     *float64 `json:"ts"`
		Text   string   `json:"text"`
	}](data)
	if err != nil {
		return domain.KnowledgeDocumentDetail{}, err
	}
	if wire.ID == "" {
		return domain.KnowledgeDocumentDetail{}, fmt.Errorf("%w: document response missing id", domain.ErrDecodeFailed)
	}
	return domain.KnowledgeDocumentDetail{
		ID:        wire.ID,
		Source:    stringOr(wire.Source, "unknown"),
		Timestamp: epochTime(wire.Ts),
		Text:      wire.Text,
	}, nil
}

// DeleteDocument removes a document from the knowledge base.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.request(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil)
	return err
}

// ListAuditEvents fetches the audit trail, truncated to the first limit
// entries; callers own any display reordering.
func (c *Client) ListAuditEvents(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	data, err := c.request(ctx, http.MethodGet, "/audit", nil)
	if err != nil {
		return nil, err
	}
	wire, err := decode[struct {
		Events []struct {
			Type    *string  `json:"type"`
			Payload Value    `json:"payload"`
			Ts      *float64 `json:"ts"`
		} `json:"events"`
	}](data)
	if err != nil {
		return nil, err
	}
	events := make([]domain.AuditEvent, 0, len(wire.Events))
	for _, e := range wire.Events {
		if limit > 0 && len(events) >= limit {
			break
		}
		events = append(events, domain.AuditEvent{
			ID:        uuid.NewString(),
			Type:      stringOr(e.Type, ""),
			Payload:   e.Payload.StringMap(),
			Timestamp: epochTime(e.Ts),
		})
	}
	return events, nil
}

// AppendAuditEvent records an event on the daemon's trail. The response
// body is discarded.
func (c *Client) AppendAuditEvent(ctx context.Context, event domain.AuditEventPayload) error {
	payload := event.Payload
	if payload == nil {
		payload = map[string]string{}
	}
	body := struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
		Ts      float64           `json:"ts"`
	}{
		Type:    event.Type,
		Payload: payload,
		Ts:      float64(event.Timestamp.UnixMilli()) / 1000,
	}
	_, err := c.request(ctx, http.MethodPost, "/audit", body)
	return err
}

// ListPlugins returns the installed plugin manifests.
func (c *Client) ListPlugins(ctx context.Context) ([]domain.PluginManifest, error) {
	data, err := c.request(ctx, http.MethodGet, "/plugins", nil)
	if err != nil {
		return nil, err
	}
	wire, err := decode[struct {
		Plugins []struct {
			ID             *string   `json:"id"`
			Name           *string   `json:"name"`
			Version        *string   `json:"version"`
			Scopes         []string  `json:"scopes"`
			API            *string   `json:"api"`
			Signature      *string   `json:"signature"`
			MinCoreVersion *string   `json:"min_core_version"`
			Capabilities   []Value   `json:"capabilities"`
		} `json:"plugins"`
	}](data)
	if err != nil {
		return nil, err
	}
	plugins := make([]domain.PluginManifest, 0, len(wire.Plugins))
	for _, p := range wire.Plugins {
		caps := make([]string, 0, len(p.Capabilities))
		for _, capability := range p.Capabilities {
			caps = append(caps, capability.PayloadString())
		}
		id := stringOr(p.ID, "")
		if id == "" {
			id = uuid.NewString()
		}
		plugins = append(plugins, domain.PluginManifest{
			ID:             id,
			Name:           stringOr(p.Name, "Unnamed Plugin"),
			Version:        stringOr(p.Version, "0.0.0"),
			Scopes:         p.Scopes,
			API:            stringOr(p.API, ""),
			Signature:      stringOr(p.Signature, ""),
			MinCoreVersion: stringOr(p.MinCoreVersion, ""),
			Capabilities:   caps,
		})
	}
	return plugins, nil
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func floatOrZero(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func boolOrFalse(value *bool) bool {
	return value != nil && *value
}

func epochTime(seconds *float64) time.Time {
	if seconds == nil {
		return time.Unix(0, 0)
	}
	return time.Unix(0, int64(*seconds*float64(time.Second)))
}

var _ ports.AutomationClient = (*Client)(nil)
