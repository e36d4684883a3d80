package daemon

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
)

// Value holds any JSON value. The daemon's payload fields arrive in
// loosely specified shapes (a string one release, an object the next);
// Value absorbs whatever came over the wire and renders it back as a
// deterministic string, so the untyped form never leaks past the codec.
type Value struct {
	raw any
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	v.raw = decoded
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// IsNull reports whether the value is absent or JSON null.
func (v Value) IsNull() bool {
	return v.raw == nil
}

// String renders the value deterministically: objects as "{k: v, ...}"
// sorted by key, arrays as "[v, v]", null as "null", strings verbatim.
func (v Value) String() string {
	return renderValue(v.raw)
}

// PayloadString is the string form domain payloads normalize to: a wire
// string passes through, an absent value becomes empty, anything else is
// rendered.
func (v Value) PayloadString() string {
	if v.raw == nil {
		return ""
	}
	if s, ok := v.raw.(string); ok {
		return s
	}
	return renderValue(v.raw)
}

// StringMap coerces an object value into the canonical string-keyed
// string-valued form, stringifying non-string leaves. Non-object values
// yield an empty map.
func (v Value) StringMap() map[string]string {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(obj))
	for key, val := range obj {
		if s, isString := val.(string); isString {
			out[key] = s
			continue
		}
		out[key] = renderValue(val)
	}
	return out
}

func renderValue(raw any) string {
	switch val := raw.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, renderValue(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+": "+renderValue(val[key]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// decode unmarshals a response body, mapping parse failures to the
// decode branch of the error taxonomy.
func decode[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return out, nil
}

// encode serializes a request body.
func encode(body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return data, nil
}
