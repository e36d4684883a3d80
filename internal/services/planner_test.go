package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

func TestRunPlanGroundsGoalWithPreviews(t *testing.T) {
	var plannedGoal string
	var queryLimit int
	client := &stubClient{
		queryFn: func(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
			queryLimit = limit
			return []domain.QueryHit{
				{DocID: "doc-1", Preview: "Meeting notes"},
				{DocID: "doc-2"},
			}, nil
		},
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			plannedGoal = goal
			return []domain.PlanAction{{Name: "summarize"}}, nil
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.RunPlan(context.Background(), PlanRequest{
		Goal:             "Summarize inbox",
		IncludeKnowledge: true,
	})
	if err != nil {
		t.Fatalf("RunPlan: %v", err)
	}

	want := "Summarize inbox\n\nContext:\n1. Meeting notes\n2. doc-2"
	if diff := cmp.Diff(want, plannedGoal); diff != "" {
		t.Fatalf("grounded goal mismatch (-want +got):\n%s", diff)
	}
	if queryLimit != domain.GroundingQueryLimit {
		t.Fatalf("grounding query limit = %d, want %d", queryLimit, domain.GroundingQueryLimit)
	}
	if !result.AuditLogged {
		t.Fatal("audit append succeeded, AuditLogged should be true")
	}
	if result.Goal != "Summarize inbox" {
		t.Fatalf("result keeps the raw goal, got %q", result.Goal)
	}
}

func TestRunPlanToleratesGroundingFailure(t *testing.T) {
	client := &stubClient{
		queryFn: func(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
			return nil, errors.New("index offline")
		},
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			if goal != "Plan my day" {
				t.Fatalf("goal should stay ungrounded, got %q", goal)
			}
			return []domain.PlanAction{{Name: "block calendar"}}, nil
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.RunPlan(context.Background(), PlanRequest{Goal: "Plan my day", IncludeKnowledge: true})
	if err != nil {
		t.Fatalf("grounding failure must not abort the plan: %v", err)
	}
	if len(result.Knowledge) != 0 {
		t.Fatalf("failed grounding should leave no hits, got %d", len(result.Knowledge))
	}
}

func TestRunPlanSwallowsAuditFailure(t *testing.T) {
	client := &stubClient{
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			return []domain.PlanAction{{Name: "a"}}, nil
		},
		appendFn: func(ctx context.Context, event domain.AuditEventPayload) error {
			return errors.New("trail unavailable")
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.RunPlan(context.Background(), PlanRequest{Goal: "goal"})
	if err != nil {
		t.Fatalf("audit failure must not abort the plan: %v", err)
	}
	if result.AuditLogged {
		t.Fatal("AuditLogged should report the append failure")
	}
}

func TestRunPlanSkipsAuditWhenDisabled(t *testing.T) {
	client := &stubClient{
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			return []domain.PlanAction{{Name: "a"}}, nil
		},
		appendFn: func(ctx context.Context, event domain.AuditEventPayload) error {
			t.Fatal("audit append should not run with logging disabled")
			return nil
		},
	}
	prefs := prefsWith(func(p *domain.Preferences) { p.AuditLogging = false })
	svc := &PlannerService{Client: client, Preferences: prefs}

	if _, err := svc.RunPlan(context.Background(), PlanRequest{Goal: "goal"}); err != nil {
		t.Fatalf("RunPlan: %v", err)
	}
}

func TestRunPlanRejectsEmptyGoal(t *testing.T) {
	svc := &PlannerService{Client: &stubClient{}, Preferences: prefsWith(nil)}
	_, err := svc.RunPlan(context.Background(), PlanRequest{Goal: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRunPlanRecordsHistory(t *testing.T) {
	history := &memoryHistory{}
	client := &stubClient{
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			return []domain.PlanAction{{Name: "a"}, {Name: "b"}}, nil
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil), History: history}

	if _, err := svc.RunPlan(context.Background(), PlanRequest{Goal: "goal"}); err != nil {
		t.Fatalf("RunPlan: %v", err)
	}
	if len(history.records) != 1 {
		t.Fatalf("expected one history record, got %d", len(history.records))
	}
	rec := history.records[0]
	if rec.ActionCount != 2 || !rec.Success || rec.ModelProfile != "tinyllama" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestPlanWithContextJoinsBranches(t *testing.T) {
	client := &stubClient{
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			return []domain.PlanAction{{Name: "a"}}, nil
		},
		queryFn: func(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
			if limit != domain.DefaultQueryLimit {
				t.Errorf("context query limit = %d, want %d", limit, domain.DefaultQueryLimit)
			}
			return []domain.QueryHit{{DocID: "doc-1"}}, nil
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.PlanWithContext(context.Background(), "goal", domain.PlanParams{})
	if err != nil {
		t.Fatalf("PlanWithContext: %v", err)
	}
	if len(result.Actions) != 1 || len(result.Knowledge) != 1 {
		t.Fatalf("unexpected join: %+v", result)
	}
}

func TestPlanWithContextToleratesQueryFailure(t *testing.T) {
	client := &stubClient{
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			return []domain.PlanAction{{Name: "a"}}, nil
		},
		queryFn: func(ctx context.Context, query string, limit int) ([]domain.QueryHit, error) {
			return nil, errors.New("index offline")
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.PlanWithContext(context.Background(), "goal", domain.PlanParams{})
	if err != nil {
		t.Fatalf("query branch failure must not discard the plan: %v", err)
	}
	if len(result.Knowledge) != 0 {
		t.Fatalf("expected no hits, got %d", len(result.Knowledge))
	}
}

func TestPlanWithContextSurfacesPlanFailure(t *testing.T) {
	client := &stubClient{
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			return nil, &domain.StatusError{Code: 500}
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	_, err := svc.PlanWithContext(context.Background(), "goal", domain.PlanParams{})
	if !domain.IsStatus(err, 500) {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
}

func TestExecuteAppendFailureIsExecutionFailure(t *testing.T) {
	client := &stubClient{
		appendFn: func(ctx context.Context, event domain.AuditEventPayload) error {
			return &domain.StatusError{Code: 503}
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	ok, err := svc.Execute(context.Background(), domain.PlanAction{Name: "send"})
	if ok || !domain.IsStatus(err, 503) {
		t.Fatalf("append failure must fail the dispatch, got ok=%v err=%v", ok, err)
	}
}

func TestExecuteSensitiveNeedsPrompter(t *testing.T) {
	svc := &PlannerService{Client: &stubClient{}, Preferences: prefsWith(nil)}

	ok, err := svc.Execute(context.Background(), domain.PlanAction{Name: "send", Sensitive: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ok {
		t.Fatal("sensitive action without a prompter must not dispatch")
	}
}

func TestExecuteDeclinedConfirmation(t *testing.T) {
	appended := false
	client := &stubClient{
		appendFn: func(ctx context.Context, event domain.AuditEventPayload) error {
			appended = true
			return nil
		},
	}
	prompter := &scriptedPrompter{answer: false, enabled: true}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil), Prompter: prompter}

	ok, err := svc.Execute(context.Background(), domain.PlanAction{Name: "send", Sensitive: true})
	if err != nil || ok {
		t.Fatalf("declined confirmation should yield (false, nil), got ok=%v err=%v", ok, err)
	}
	if appended {
		t.Fatal("declined action must not reach the audit trail")
	}
	if len(prompter.asked) != 1 {
		t.Fatalf("prompter asked %d times, want 1", len(prompter.asked))
	}
}

func TestExecuteConfirmedSensitiveAction(t *testing.T) {
	var recorded domain.AuditEventPayload
	client := &stubClient{
		appendFn: func(ctx context.Context, event domain.AuditEventPayload) error {
			recorded = event
			return nil
		},
	}
	prompter := &scriptedPrompter{answer: true, enabled: true}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil), Prompter: prompter}

	ok, err := svc.Execute(context.Background(), domain.PlanAction{Name: "send", Payload: "hello", Sensitive: true})
	if err != nil || !ok {
		t.Fatalf("confirmed dispatch failed: ok=%v err=%v", ok, err)
	}
	if recorded.Type != "action_execute" {
		t.Fatalf("event type = %q", recorded.Type)
	}
	want := map[string]string{
		"name":             "send",
		"payload":          "hello",
		"sensitive":        "true",
		"preview_required": "false",
	}
	if diff := cmp.Diff(want, recorded.Payload); diff != "" {
		t.Fatalf("event payload mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteGuardrailBlocks(t *testing.T) {
	client := &stubClient{
		appendFn: func(ctx context.Context, event domain.AuditEventPayload) error {
			t.Fatal("blocked action must not reach the audit trail")
			return nil
		},
	}
	risk := &scriptedRisk{verdict: domain.RiskAssessment{
		Level:   domain.RiskCritical,
		Action:  domain.ActionBlock,
		Reasons: []string{"Recursive filesystem delete"},
	}}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil), Risk: risk}

	ok, err := svc.Execute(context.Background(), domain.PlanAction{Name: "cleanup", Payload: "rm -rf /"})
	if ok || !errors.Is(err, domain.ErrActionBlocked) {
		t.Fatalf("expected ErrActionBlocked, got ok=%v err=%v", ok, err)
	}
}

func TestExecuteGuardrailEscalatesToPrompter(t *testing.T) {
	prompter := &scriptedPrompter{answer: true, enabled: true}
	risk := &scriptedRisk{verdict: domain.RiskAssessment{
		Level:  domain.RiskMedium,
		Action: domain.ActionConfirm,
	}}
	svc := &PlannerService{Client: &stubClient{}, Preferences: prefsWith(nil), Prompter: prompter, Risk: risk}

	ok, err := svc.Execute(context.Background(), domain.PlanAction{Name: "sudo restart"})
	if err != nil || !ok {
		t.Fatalf("confirmed risky dispatch failed: ok=%v err=%v", ok, err)
	}
	if len(prompter.asked) != 1 {
		t.Fatal("guardrail confirm verdict should route through the prompter")
	}
}

func TestAuditTrailWindowsAndReverses(t *testing.T) {
	events := make([]domain.AuditEvent, 0, 20)
	for i := 0; i < 20; i++ {
		events = append(events, domain.AuditEvent{Type: string(rune('a' + i))})
	}
	var requestedLimit int
	client := &stubClient{
		eventsFn: func(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
			requestedLimit = limit
			return events, nil
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	trail := svc.AuditTrail(context.Background())
	if requestedLimit != domain.AuditFetchLimit {
		t.Fatalf("fetch limit = %d, want %d", requestedLimit, domain.AuditFetchLimit)
	}
	if len(trail) != domain.AuditTrailWindow {
		t.Fatalf("trail length = %d, want %d", len(trail), domain.AuditTrailWindow)
	}
	if trail[0].Type != "t" || trail[len(trail)-1].Type != "i" {
		t.Fatalf("trail should hold the newest window reversed, got first=%q last=%q", trail[0].Type, trail[len(trail)-1].Type)
	}
}

func TestAuditTrailSkipsDaemonWhenDisabled(t *testing.T) {
	client := &stubClient{
		eventsFn: func(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
			t.Fatal("trail fetch should not run with logging disabled")
			return nil, nil
		},
	}
	prefs := prefsWith(func(p *domain.Preferences) { p.AuditLogging = false })
	svc := &PlannerService{Client: client, Preferences: prefs}

	if trail := svc.AuditTrail(context.Background()); trail != nil {
		t.Fatalf("expected empty trail, got %v", trail)
	}
}

func TestQuickActionsCatalog(t *testing.T) {
	actions := QuickActions()
	if len(actions) != 4 {
		t.Fatalf("catalog size = %d, want 4", len(actions))
	}
	for _, action := range actions {
		if action.Title == "" || action.Goal == "" {
			t.Fatalf("catalog entry incomplete: %+v", action)
		}
	}
}

func TestRunQuickActionDispatchesFirstAction(t *testing.T) {
	client := &stubClient{
		planFn: func(ctx context.Context, goal string, params domain.PlanParams) ([]domain.PlanAction, error) {
			return []domain.PlanAction{{Name: "first"}, {Name: "second"}}, nil
		},
	}
	svc := &PlannerService{Client: client, Preferences: prefsWith(nil)}

	result, err := svc.RunQuickAction(context.Background(), QuickActions()[0])
	if err != nil {
		t.Fatalf("RunQuickAction: %v", err)
	}
	if result.Dispatched.Name != "first" {
		t.Fatalf("dispatched %q, want first", result.Dispatched.Name)
	}
}
