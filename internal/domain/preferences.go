package domain

import "encoding/json"

// Preferences captures user level toggles that parameterize daemon calls.
// The in-memory form is always total; partial persisted blobs are merged
// over DefaultPreferences.
type Preferences struct {
	ModelProfile      string       `json:"modelProfile"`
	AuditLogging      bool         `json:"auditLogging"`
	AutoRefreshStatus bool         `json:"autoRefreshStatus"`
	PlanDefaults      PlanDefaults `json:"planDefaults"`
}

// PlanDefaults seed the planner form.
type PlanDefaults struct {
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"maxTokens"`
	IncludeKnowledge bool    `json:"includeKnowledge"`
}

// DefaultPreferences returns the built-in configuration.
func DefaultPreferences() Preferences {
	return Preferences{
		ModelProfile:      "tinyllama",
		AuditLogging:      true,
		AutoRefreshStatus: true,
		PlanDefaults: PlanDefaults{
			Temperature:      0.4,
			MaxTokens:        256,
			IncludeKnowledge: true,
		},
	}
}

// preference patches mirror the persisted JSON; pointer fields mark which
// keys the blob actually carried so unset keys keep their defaults.
type preferencesPatch struct {
	ModelProfile      *string           `json:"modelProfile"`
	AuditLogging      *bool             `json:"auditLogging"`
	AutoRefreshStatus *bool             `json:"autoRefreshStatus"`
	PlanDefaults      *planDefaultsPatch `json:"planDefaults"`
}

type planDefaultsPatch struct {
	Temperature      *float64 `json:"temperature"`
	MaxTokens        *int     `json:"maxTokens"`
	IncludeKnowledge *bool    `json:"includeKnowledge"`
}

// MergePreferences layers a persisted JSON blob over the built-in defaults.
// The nested PlanDefaults block is merged independently so a blob missing
// one nested key never drops the others. A blob that fails to parse yields
// the defaults unchanged.
func MergePreferences(data []byte) Preferences {
	prefs := DefaultPreferences()
	if len(data) == 0 {
		return prefs
	}

	var patch preferencesPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return prefs
	}

	if patch.ModelProfile != nil {
		prefs.ModelProfile = *patch.ModelProfile
	}
	if patch.AuditLogging != nil {
		prefs.AuditLogging = *patch.AuditLogging
	}
	if patch.AutoRefreshStatus != nil {
		prefs.AutoRefreshStatus = *patch.AutoRefreshStatus
	}
	if patch.PlanDefaults != nil {
		if patch.PlanDefaults.Temperature != nil {
			prefs.PlanDefaults.Temperature = *patch.PlanDefaults.Temperature
		}
		if patch.PlanDefaults.MaxTokens != nil {
			prefs.PlanDefaults.MaxTokens = *patch.PlanDefaults.MaxTokens
		}
		if patch.PlanDefaults.IncludeKnowledge != nil {
			prefs.PlanDefaults.IncludeKnowledge = *patch.PlanDefaults.IncludeKnowledge
		}
	}
	return prefs
}

// EncodePreferences serializes preferences for the state store.
func EncodePreferences(prefs Preferences) ([]byte, error) {
	return json.Marshal(prefs)
}
