package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

func TestGuardrailBlocksDestructivePayloads(t *testing.T) {
	guardrail, err := NewGuardrail(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewGuardrail: %v", err)
	}

	verdict, err := guardrail.Evaluate(domain.PlanAction{
		Name:    "cleanup",
		Payload: "rm -rf /var/data",
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !verdict.Blocked() || verdict.Level != domain.RiskCritical {
		t.Fatalf("expected critical block, got %+v", verdict)
	}
	if len(verdict.Reasons) == 0 {
		t.Fatal("block verdict should carry a reason")
	}
}

func TestGuardrailAllowsBenignActions(t *testing.T) {
	guardrail, err := NewGuardrail(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewGuardrail: %v", err)
	}

	verdict, err := guardrail.Evaluate(domain.PlanAction{
		Name:    "summarize",
		Payload: "Summarize today's inbox",
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Level != domain.RiskSafe || verdict.Action != domain.ActionAllow {
		t.Fatalf("expected safe allow, got %+v", verdict)
	}
}

func TestGuardrailEscalatesBulkOperations(t *testing.T) {
	guardrail, err := NewGuardrail(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewGuardrail: %v", err)
	}

	verdict, err := guardrail.Evaluate(domain.PlanAction{
		Name:    "mail_cleanup",
		Payload: "delete all messages older than a year",
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !verdict.RequiresConfirmation() {
		t.Fatalf("bulk delete should need confirmation, got %+v", verdict)
	}
}

func TestGuardrailKeepsMostSevereVerdict(t *testing.T) {
	guardrail, err := NewGuardrail(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewGuardrail: %v", err)
	}

	// matches both the sudo rule (medium) and the rm -rf rule (critical)
	verdict, err := guardrail.Evaluate(domain.PlanAction{
		Name:    "shell",
		Payload: "sudo rm -rf /opt/app",
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Level != domain.RiskCritical || !verdict.Blocked() {
		t.Fatalf("most severe rule should win, got %+v", verdict)
	}
	if len(verdict.Reasons) < 2 {
		t.Fatalf("all matched reasons should accumulate, got %v", verdict.Reasons)
	}
}

func TestGuardrailLoadsCustomRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: '(?i)launch'
      level: high
      message: "Launches are risky"
      action: confirm
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	guardrail, err := NewGuardrail(path)
	if err != nil {
		t.Fatalf("NewGuardrail: %v", err)
	}

	verdict, err := guardrail.Evaluate(domain.PlanAction{Name: "Launch rocket"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Level != domain.RiskHigh || !verdict.RequiresConfirmation() {
		t.Fatalf("custom rule not applied: %+v", verdict)
	}

	// the stock rules are replaced, not merged
	verdict, err = guardrail.Evaluate(domain.PlanAction{Payload: "rm -rf /"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if verdict.Level != domain.RiskSafe {
		t.Fatalf("default rules should not apply with a custom file, got %+v", verdict)
	}
}

func TestGuardrailRejectsBadRegex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: '(unclosed'
      level: high
      message: "bad"
      action: confirm
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := NewGuardrail(path); err == nil {
		t.Fatal("invalid pattern should fail rule loading")
	}
}
