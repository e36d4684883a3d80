package services

import (
	"context"
	"errors"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// stubClient lets each test script exactly the daemon behavior it needs.
type stubClient struct {
	healthFn func(ctx context.Context) (domain.DaemonHealth, error)
	indexFn  func(ctx context.Context, text, source string) (domain.IndexReceipt, error)
	queryFn  func(ctx context.Context, query string, limit int) ([]domain.QueryHit, error)
	planFn   func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error)
	listFn   func(ctx context.Context, limit int) ([]domain.KnowledgeDocument, error)
	fetchFn  func(ctx context.Context, id string) (domain.KnowledgeDocumentDetail, error)
	deleteFn func(ctx context.Context, id string) error
	eventsFn func(ctx context.Context, limit int) ([]domain.AuditEvent, error)
	appendFn func(ctx context.Context, event domain.AuditEventPayload) error
	plugsFn  func(ctx context.Context) ([]domain.PluginManifest, error)
}

func (s *stubClient) Health(ctx context.Context) (domain.DaemonHealth, error) {
	if s.healthFn == nil {
		return domain.DaemonHealth{OK: true}, nil
	}
	return s.healthFn(ctx)
}

func (s *stubClient) Index(ctx context.Context, text, source string) (domain.IndexReceipt, error) {
	if s.indexFn == nil {
		return domain.IndexReceipt{ID: "doc-stub", Source: source}, nil
	}
	return s.indexFn(ctx, text, source)
}

func (s *stubClient) Query(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
	if s.queryFn == nil {
		return nil, nil
	}
	return s.queryFn(ctx, query, limit)
}

func (s *stubClient) Plan(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
	if s.planFn == nil {
		return nil, errors.New("plan not scripted")
	}
	return s.planFn(ctx, goal, params)
}

func (s *stubClient) ListDocuments(ctx context.Context, limit int) ([]domain.KnowledgeDocument, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit)
}

func (s *stubClient) FetchDocument(ctx context.Context, id string) (domain.KnowledgeDocumentDetail, error) {
	if s.fetchFn == nil {
		return domain.KnowledgeDocumentDetail{ID: id}, nil
	}
	return s.fetchFn(ctx, id)
}

func (s *stubClient) DeleteDocument(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s *stubClient) ListAuditEvents(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if s.eventsFn == nil {
		return nil, nil
	}
	return s.eventsFn(ctx, limit)
}

func (s *stubClient) AppendAuditEvent(ctx context.Context, event domain.AuditEventPayload) error {
	if s.appendFn == nil {
		return nil
	}
	return s.appendFn(ctx, event)
}

func (s *stubClient) ListPlugins(ctx context.Context) ([]domain.PluginManifest, error) {
	if s.plugsFn == nil {
		return nil, nil
	}
	return s.plugsFn(ctx)
}

func (s *stubClient) BaseURL() string { return "http://127.0.0.1:9000" }

func (s *stubClient) SetBaseURL(string) error { return nil }

var _ ports.AutomationClient = (*stubClient)(nil)

// memoryState is an in-memory StateRepository.
type memoryState struct {
	blobs map[string][]byte
}

func newMemoryState() *memoryState {
	return &memoryState{blobs: map[string][]byte{}}
}

func (m *memoryState) Load(key string) ([]byte, bool, error) {
	data, found := m.blobs[key]
	return data, found, nil
}

func (m *memoryState) Save(key string, data []byte) error {
	m.blobs[key] = data
	return nil
}

func (m *memoryState) Delete(key string) error {
	delete(m.blobs, key)
	return nil
}

// memoryHistory records plan runs in memory.
type memoryHistory struct {
	records []domain.PlanRunRecord
	saveErr error
}

func (m *memoryHistory) Save(record domain.PlanRunRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memoryHistory) Records(limit int) ([]domain.PlanRunRecord, error) {
	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

func (m *memoryHistory) Clear() error {
	m.records = nil
	return nil
}

// scriptedPrompter answers confirmations with a fixed verdict.
type scriptedPrompter struct {
	answer  bool
	err     error
	asked   []domain.PlanAction
	enabled bool
}

func (p *scriptedPrompter) Confirm(action domain.PlanAction) (bool, error) {
	p.asked = append(p.asked, action)
	return p.answer, p.err
}

func (p *scriptedPrompter) Enabled() bool { return p.enabled }

// scriptedRisk returns a fixed verdict for every action.
type scriptedRisk struct {
	verdict domain.RiskAssessment
	err     error
}

func (r *scriptedRisk) Evaluate(domain.PlanAction) (domain.RiskAssessment, error) {
	return r.verdict, r.err
}

func prefsWith(mutate func(*domain.Preferences)) *PreferencesService {
	svc := &PreferencesService{State: newMemoryState()}
	if mutate != nil {
		if _, err := svc.Update(mutate); err != nil {
			panic(err)
		}
	}
	return svc
}
