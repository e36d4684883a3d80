package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// PlannerService orchestrates planning workflows against the daemon:
// grounded plan generation, action dispatch with audit logging, and the
// curated quick actions.
type PlannerService struct {
	Client      ports.AutomationClient
	Preferences *PreferencesService
	History     ports.HistoryRepository
	Prompter    ports.ConfirmationPrompter
	Risk        ports.RiskEvaluator
	Logger      ports.Logger
}

// PlanRequest describes one planning run.
type PlanRequest struct {
	Goal             string
	Params           domain.PlanParams
	IncludeKnowledge bool
	Metadata         map[string]string
}

// PlanResult is the assembled outcome of a planning run. AuditLogged
// reports whether the best-effort audit append actually happened.
type PlanResult struct {
	Goal        string
	Actions     []domain.PlanAction
	Knowledge   []domain.QueryHit
	AuditLogged bool
	Duration    time.Duration
}

// QuickAction is a curated goal the dashboard can trigger in one step.
type QuickAction struct {
	Title    string
	Subtitle string
	Goal     string
}

// QuickActions returns the built-in quick action catalog.
func QuickActions() []QuickAction {
	return []QuickAction{
		{Title: "Summarize inbox", Subtitle: "Scan mail and highlight follow-ups", Goal: "Summarize today's inbox and list the top action items."},
		{Title: "Plan my day", Subtitle: "Generate a 5-step morning plan", Goal: "Create a prioritized plan for my day with calendar blocks."},
		{Title: "Draft a response", Subtitle: "Use knowledge base for context", Goal: "Draft a friendly response summarizing the last meeting notes."},
		{Title: "Plugin audit checklist", Subtitle: "Review installed plugins", Goal: "Generate an automation plan to review installed plugins and surface permissions that require approval."},
	}
}

// RunPlan generates a plan for a goal. When grounding is requested, a
// bounded context query runs first; its failure never aborts the plan.
// After a successful plan, an audit event is appended best-effort when
// audit logging is enabled.
func (s *PlannerService) RunPlan(ctx context.Context, req PlanRequest) (PlanResult, error) {
	if s.Client == nil {
		return PlanResult{}, errors.New("services.PlannerService dependencies not satisfied")
	}

	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return PlanResult{}, fmt.Errorf("%w: goal must not be empty", domain.ErrValidation)
	}

	var hits []domain.QueryHit
	if req.IncludeKnowledge {
		found, err := s.Client.Query(ctx, goal, domain.GroundingQueryLimit)
		if err != nil {
			s.warn("knowledge grounding failed", err)
		} else {
			hits = found
		}
	}

	started := time.Now()
	actions, err := s.Client.Plan(ctx, groundedGoal(goal, hits), req.Params)
	duration := time.Since(started)
	if err != nil {
		s.recordRun(goal, 0, len(hits) > 0, duration, err)
		return PlanResult{}, fmt.Errorf("generate plan: %w", err)
	}

	result := PlanResult{
		Goal:      goal,
		Actions:   actions,
		Knowledge: hits,
		Duration:  duration,
	}

	if s.prefs().AuditLogging {
		if err := s.Client.AppendAuditEvent(ctx, planAuditEvent(goal, actions, req)); err != nil {
			s.warn("failed to record audit event", err)
		} else {
			result.AuditLogged = true
		}
	}

	s.recordRun(goal, len(actions), len(hits) > 0, duration, nil)
	return result, nil
}

// PlanWithContext issues the plan and a context query for the same goal
// concurrently and joins them. The query branch failing never discards
// the plan branch's result.
func (s *PlannerService) PlanWithContext(ctx context.Context, goal string, params domain.PlanParams) (PlanResult, error) {
	if s.Client == nil {
		return PlanResult{}, errors.New("services.PlannerService dependencies not satisfied")
	}
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return PlanResult{}, fmt.Errorf("%w: goal must not be empty", domain.ErrValidation)
	}

	var (
		wg       sync.WaitGroup
		actions  []domain.PlanAction
		hits     []domain.QueryHit
		planErr  error
		queryErr error
	)
	started := time.Now()

	wg.Add(2)
	go func() {
		defer wg.Done()
		actions, planErr = s.Client.Plan(ctx, goal, params)
	}()
	go func() {
		defer wg.Done()
		hits, queryErr = s.Client.Query(ctx, goal, domain.DefaultQueryLimit)
	}()
	wg.Wait()

	if planErr != nil {
		return PlanResult{}, fmt.Errorf("generate plan: %w", planErr)
	}
	if queryErr != nil {
		s.warn("context query failed", queryErr)
		hits = nil
	}
	return PlanResult{
		Goal:      goal,
		Actions:   actions,
		Knowledge: hits,
		Duration:  time.Since(started),
	}, nil
}

// Execute dispatches a plan action by appending it to the daemon's audit
// trail; unlike planning's best-effort logging, the append here is the
// user-visible side effect, so its failure is the execution failure.
// The guardrail runs first: a blocking rule refuses dispatch, a confirm
// rule escalates the action to the prompter. Sensitive or
// preview-required actions need confirmation regardless.
func (s *PlannerService) Execute(ctx context.Context, action domain.PlanAction) (bool, error) {
	if s.Client == nil {
		return false, errors.New("services.PlannerService dependencies not satisfied")
	}

	needsConfirm := action.Sensitive || action.PreviewRequired
	if s.Risk != nil {
		verdict, err := s.Risk.Evaluate(action)
		if err != nil {
			return false, fmt.Errorf("evaluate action %q: %w", action.Name, err)
		}
		if verdict.Blocked() {
			return false, fmt.Errorf("%w: %s", domain.ErrActionBlocked, strings.Join(verdict.Reasons, "; "))
		}
		if verdict.RequiresConfirmation() {
			needsConfirm = true
		}
	}

	if needsConfirm {
		if s.Prompter == nil || !s.Prompter.Enabled() {
			return false, nil
		}
		confirmed, err := s.Prompter.Confirm(action)
		if err != nil {
			return false, err
		}
		if !confirmed {
			return false, nil
		}
	}

	event := domain.AuditEventPayload{
		Type: "action_execute",
		Payload: map[string]string{
			"name":             action.Name,
			"payload":          action.Payload,
			"sensitive":        strconv.FormatBool(action.Sensitive),
			"preview_required": strconv.FormatBool(action.PreviewRequired),
		},
		Timestamp: time.Now(),
	}
	if err := s.Client.AppendAuditEvent(ctx, event); err != nil {
		return false, fmt.Errorf("dispatch action %q: %w", action.Name, err)
	}
	return true, nil
}

// QuickActionResult is a one-shot plan-and-dispatch outcome.
type QuickActionResult struct {
	Plan       PlanResult
	Dispatched domain.PlanAction
	AuditTrail []domain.AuditEvent
}

// RunQuickAction plans a curated goal, dispatches the first action, and
// refreshes the audit trail.
func (s *PlannerService) RunQuickAction(ctx context.Context, action QuickAction) (QuickActionResult, error) {
	prefs := s.prefs()
	plan, err := s.RunPlan(ctx, PlanRequest{
		Goal: action.Goal,
		Params: domain.PlanParams{
			Temperature: prefs.PlanDefaults.Temperature,
			MaxTokens:   prefs.PlanDefaults.MaxTokens,
		},
		IncludeKnowledge: prefs.PlanDefaults.IncludeKnowledge,
		Metadata:         map[string]string{"source": "quick-action", "label": action.Title},
	})
	if err != nil {
		return QuickActionResult{}, err
	}
	if len(plan.Actions) == 0 {
		return QuickActionResult{Plan: plan}, errors.New("no actions generated")
	}

	first := plan.Actions[0]
	ok, err := s.Execute(ctx, first)
	if err != nil {
		return QuickActionResult{Plan: plan}, err
	}
	if !ok {
		return QuickActionResult{Plan: plan}, fmt.Errorf("action %q was not dispatched", first.Name)
	}

	trail := auditTrail(ctx, s.Client, prefs, s.Logger)
	return QuickActionResult{Plan: plan, Dispatched: first, AuditTrail: trail}, nil
}

// AuditTrail returns the recent audit events for display, newest first.
// With audit logging disabled it returns an empty trail without calling
// the daemon.
func (s *PlannerService) AuditTrail(ctx context.Context) []domain.AuditEvent {
	return auditTrail(ctx, s.Client, s.prefs(), s.Logger)
}

func (s *PlannerService) prefs() domain.Preferences {
	if s.Preferences == nil {
		return domain.DefaultPreferences()
	}
	return s.Preferences.Current()
}

func (s *PlannerService) warn(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Warn(msg, map[string]interface{}{"error": err.Error()})
	}
}

func (s *PlannerService) recordRun(goal string, actionCount int, grounded bool, duration time.Duration, runErr error) {
	if s.History == nil {
		return
	}
	record := domain.PlanRunRecord{
		Timestamp:    time.Now(),
		Goal:         goal,
		ActionCount:  actionCount,
		Grounded:     grounded,
		ModelProfile: s.prefs().ModelProfile,
		DurationMS:   duration.Milliseconds(),
		Success:      runErr == nil,
	}
	if runErr != nil {
		record.Error = runErr.Error()
	}
	if err := s.History.Save(record); err != nil {
		s.warn("failed to record plan run", err)
	}
}

// groundedGoal appends a numbered context block built from hit previews;
// a hit with no preview falls back to its document id, then to empty.
func groundedGoal(goal string, hits []domain.QueryHit) string {
	if len(hits) == 0 {
		return goal
	}
	lines := make([]string, 0, len(hits))
	for i, hit := range hits {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, hit.DisplayText()))
	}
	return goal + "\n\nContext:\n" + strings.Join(lines, "\n")
}

func planAuditEvent(goal string, actions []domain.PlanAction, req PlanRequest) domain.AuditEventPayload {
	names := make([]string, 0, len(actions))
	for _, action := range actions {
		names = append(names, action.Name)
	}
	payload := map[string]string{
		"goal":         goal,
		"actions":      strings.Join(names, ", "),
		"action_count": strconv.Itoa(len(actions)),
	}
	for key, value := range req.Metadata {
		payload[key] = value
	}
	return domain.AuditEventPayload{
		Type:      "plan_generated",
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// auditTrail fetches a bounded slice of the trail and presents the most
// recent window in reverse chronological order.
func auditTrail(ctx context.Context, client ports.AutomationClient, prefs domain.Preferences, log ports.Logger) []domain.AuditEvent {
	if !prefs.AuditLogging {
		return nil
	}
	events, err := client.ListAuditEvents(ctx, domain.AuditFetchLimit)
	if err != nil {
		if log != nil {
			log.Warn("failed to load audit trail", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	if len(events) > domain.AuditTrailWindow {
		events = events[len(events)-domain.AuditTrailWindow:]
	}
	reversed := make([]domain.AuditEvent, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		reversed = append(reversed, events[i])
	}
	return reversed
}
