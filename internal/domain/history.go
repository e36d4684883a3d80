package domain

import "time"

// PlanRunRecord is one locally recorded planning run.
type PlanRunRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Goal         string    `json:"goal"`
	ActionCount  int       `json:"action_count"`
	Grounded     bool      `json:"grounded"`
	ModelProfile string    `json:"model_profile"`
	DurationMS   int64     `json:"duration_ms"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
}
