// internal/apiclient/schema.go
package apiclient

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// payloadSchema rejects response bodies whose shape the views cannot render.
type payloadSchema struct {
	schema *gojsonschema.Schema
}

func mustSchema(src string) payloadSchema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("apiclient: bad schema: %v", err))
	}
	return payloadSchema{schema: s}
}

func (p payloadSchema) check(body []byte) error {
	res, err := p.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("unexpected response shape: %s", strings.Join(msgs, "; "))
}

var (
	dashboardSchema = mustSchema(`{
		"type": "object",
		"required": ["campaignAnalytics", "leadsAnalytics"],
		"properties": {
			"campaignAnalytics": {"type": "object"},
			"leadsAnalytics": {"type": "object"}
		}
	}`)

	campaignSchema = mustSchema(`{
		"type": "object",
		"required": ["name"],
		"properties": {
			"channels": {"type": "array"},
			"targetAudience": {"type": "array"}
		}
	}`)

	campaignListSchema = mustSchema(`{
		"type": "array",
		"items": {"type": "object"}
	}`)

	leadsSchema = mustSchema(`{
		"type": "object",
		"required": ["leads"],
		"properties": {
			"leads": {"type": "array", "items": {"type": "object"}}
		}
	}`)

	additionalInputsSchema = mustSchema(`{
		"type": "object",
		"required": ["additional_input"],
		"properties": {
			"additional_input": {
				"type": "object",
				"additionalProperties": {"type": "array", "items": {"type": "string"}}
			}
		}
	}`)
)
