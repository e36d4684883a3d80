package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

func TestIndexValidatesAndRefreshes(t *testing.T) {
	var indexedSource string
	var listLimit int
	client := &stubClient{
		indexFn: func(ctx context.Context, text, source string) (domain.IndexReceipt, error) {
			indexedSource = source
			return domain.IndexReceipt{ID: "doc-1", Source: source}, nil
		},
		listFn: func(ctx context.Context, limit int) ([]domain.KnowledgeDocument, error) {
			listLimit = limit
			return []domain.KnowledgeDocument{{ID: "doc-1"}}, nil
		},
	}
	svc := &KnowledgeService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.Index(context.Background(), "remember this", "")
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if indexedSource != "api" {
		t.Fatalf("empty source should default to api, got %q", indexedSource)
	}
	if listLimit != domain.DefaultDocumentLimit {
		t.Fatalf("refresh limit = %d, want %d", listLimit, domain.DefaultDocumentLimit)
	}
	if len(result.Documents) != 1 || result.Receipt.ID != "doc-1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestIndexRejectsBlankText(t *testing.T) {
	svc := &KnowledgeService{Client: &stubClient{}, Preferences: prefsWith(nil)}
	_, err := svc.Index(context.Background(), "  \n ", "cli")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestQueryDefaultsLimit(t *testing.T) {
	var gotLimit int
	client := &stubClient{
		queryFn: func(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := &KnowledgeService{Client: client, Preferences: prefsWith(nil)}

	if _, err := svc.Query(context.Background(), "notes", 0); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotLimit != domain.DefaultQueryLimit {
		t.Fatalf("limit = %d, want %d", gotLimit, domain.DefaultQueryLimit)
	}
}

func TestQueryRejectsBlankText(t *testing.T) {
	svc := &KnowledgeService{Client: &stubClient{}, Preferences: prefsWith(nil)}
	_, err := svc.Query(context.Background(), "   ", 5)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteRefreshesEvenOnFailure(t *testing.T) {
	refreshed := false
	client := &stubClient{
		deleteFn: func(ctx context.Context, id string) error {
			return &domain.StatusError{Code: 404}
		},
		listFn: func(ctx context.Context, limit int) ([]domain.KnowledgeDocument, error) {
			refreshed = true
			return []domain.KnowledgeDocument{{ID: "doc-2"}}, nil
		},
	}
	svc := &KnowledgeService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.DeleteDocument(context.Background(), "doc-1")
	if !domain.IsNotFound(err) {
		t.Fatalf("delete failure must surface, got %v", err)
	}
	if !refreshed {
		t.Fatal("views must refresh even when the delete fails")
	}
	if len(result.Documents) != 1 {
		t.Fatalf("refreshed documents missing: %+v", result)
	}
}

func TestDocumentRejectsBlankID(t *testing.T) {
	svc := &KnowledgeService{Client: &stubClient{}, Preferences: prefsWith(nil)}
	_, err := svc.Document(context.Background(), " ")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
