// internal/model/additional_input.go
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlatformFields lists the extra field identifiers one platform requires.
type PlatformFields struct {
	Platform string   `json:"platform"`
	Fields   []string `json:"fields"`
}

// AdditionalInputs is the step-two schema. Platforms keep the order the
// backend listed them in, which a plain map would lose.
type AdditionalInputs []PlatformFields

// Platforms returns the platform names in schema order.
func (a AdditionalInputs) Platforms() []string {
	out := make([]string, 0, len(a))
	for _, p := range a {
		out = append(out, p.Platform)
	}
	return out
}

// Fields returns the field identifiers for platform, or nil when absent.
func (a AdditionalInputs) Fields(platform string) []string {
	for _, p := range a {
		if p.Platform == platform {
			return p.Fields
		}
	}
	return nil
}

// UnmarshalJSON decodes the backend object form {"<platform>": ["field", ...]}
// and also accepts the array form that json.Marshal produces for stored
// wizard sessions.
func (a *AdditionalInputs) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*a = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []PlatformFields
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*a = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("additional inputs: expected object, got %v", tok)
	}

	out := AdditionalInputs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		platform, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("additional inputs: expected platform key, got %v", keyTok)
		}
		var fields []string
		if err := dec.Decode(&fields); err != nil {
			return fmt.Errorf("additional inputs: platform %q: %w", platform, err)
		}
		out = append(out, PlatformFields{Platform: platform, Fields: fields})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}

// AdditionalInputsResponse is the body of GET /additional-inputs.
type AdditionalInputsResponse struct {
	Message         string           `json:"message"`
	AdditionalInput AdditionalInputs `json:"additional_input"`
}

// PlatformFieldValues maps platform -> field identifier -> value.
type PlatformFieldValues map[string]map[string]string
