package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// KnowledgeService orchestrates document browsing: indexing snippets,
// semantic search, and the delete-then-refresh flow.
type KnowledgeService struct {
	Client      ports.AutomationClient
	Preferences *PreferencesService
	Logger      ports.Logger
}

// IndexResult is the receipt plus the refreshed views.
type IndexResult struct {
	Receipt    domain.IndexReceipt
	Documents  []domain.KnowledgeDocument
	AuditTrail []domain.AuditEvent
}

// Index validates and submits a snippet, then reloads the document list
// and the audit trail.
func (s *KnowledgeService) Index(ctx context.Context, text, source string) (IndexResult, error) {
	if s.Client == nil {
		return IndexResult{}, errors.New("services.KnowledgeService dependencies not satisfied")
	}
	if strings.TrimSpace(text) == "" {
		return IndexResult{}, fmt.Errorf("%w: snippet text must not be empty", domain.ErrValidation)
	}
	if source == "" {
		source = "api"
	}

	receipt, err := s.Client.Index(ctx, text, source)
	if err != nil {
		return IndexResult{}, fmt.Errorf("index snippet: %w", err)
	}

	docs, err := s.Client.ListDocuments(ctx, domain.DefaultDocumentLimit)
	if err != nil {
		s.warn("failed to reload documents", err)
	}
	return IndexResult{
		Receipt:    receipt,
		Documents:  docs,
		AuditTrail: auditTrail(ctx, s.Client, s.prefs(), s.Logger),
	}, nil
}

// Query validates and runs a semantic search; hits keep server order.
func (s *KnowledgeService) Query(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
	if s.Client == nil {
		return nil, errors.New("services.KnowledgeService dependencies not satisfied")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query text must not be empty", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = domain.DefaultQueryLimit
	}
	hits, err := s.Client.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query knowledge: %w", err)
	}
	return hits, nil
}

// Documents lists index summary entries.
func (s *KnowledgeService) Documents(ctx context.Context, limit int) ([]domain.KnowledgeDocument, error) {
	if limit <= 0 {
		limit = domain.DefaultDocumentLimit
	}
	return s.Client.ListDocuments(ctx, limit)
}

// Document fetches a full document body.
func (s *KnowledgeService) Document(ctx context.Context, id string) (domain.KnowledgeDocumentDetail, error) {
	if strings.TrimSpace(id) == "" {
		return domain.KnowledgeDocumentDetail{}, fmt.Errorf("%w: document id must not be empty", domain.ErrValidation)
	}
	return s.Client.FetchDocument(ctx, id)
}

// DeleteResult carries the refreshed views alongside the delete outcome.
type DeleteResult struct {
	Documents  []domain.KnowledgeDocument
	AuditTrail []domain.AuditEvent
}

// DeleteDocument removes a document, then unconditionally reloads the
// document list and the audit trail; the delete outcome is surfaced as
// the returned error either way.
func (s *KnowledgeService) DeleteDocument(ctx context.Context, id string) (DeleteResult, error) {
	if s.Client == nil {
		return DeleteResult{}, errors.New("services.KnowledgeService dependencies not satisfied")
	}
	deleteErr := s.Client.DeleteDocument(ctx, id)

	docs, err := s.Client.ListDocuments(ctx, domain.DefaultDocumentLimit)
	if err != nil {
		s.warn("failed to reload documents", err)
	}
	result := DeleteResult{
		Documents:  docs,
		AuditTrail: auditTrail(ctx, s.Client, s.prefs(), s.Logger),
	}
	if deleteErr != nil {
		return result, fmt.Errorf("delete document %s: %w", id, deleteErr)
	}
	return result, nil
}

func (s *KnowledgeService) prefs() domain.Preferences {
	if s.Preferences == nil {
		return domain.DefaultPreferences()
	}
	return s.Preferences.Current()
}

func (s *KnowledgeService) warn(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}
