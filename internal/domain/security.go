package domain

// RiskLevel grades how dangerous a plan action looks.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// GuardrailAction tells the dispatcher what to do with a risky action.
type GuardrailAction string

const (
	ActionAllow   GuardrailAction = "allow"
	ActionConfirm GuardrailAction = "confirm"
	ActionBlock   GuardrailAction = "block"
)

// RiskAssessment is the guardrail verdict for one plan action.
type RiskAssessment struct {
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}

// RequiresConfirmation reports whether the verdict demands a prompt
// before dispatch.
func (a RiskAssessment) RequiresConfirmation() bool {
	return a.Action == ActionConfirm
}

// Blocked reports whether dispatch must be refused outright.
func (a RiskAssessment) Blocked() bool {
	return a.Action == ActionBlock
}
