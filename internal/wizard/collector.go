// internal/wizard/collector.go
package wizard

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/unclebandit/campaign-dashboard/internal/model"
)

var labelCaser = cases.Title(language.English, cases.NoLower)

// FieldCollector holds step-two values for every platform in the schema.
// It is a value type: Set returns a new collector and never mutates the
// receiver's maps.
type FieldCollector struct {
	schema model.AdditionalInputs
	values model.PlatformFieldValues
}

func NewFieldCollector(schema model.AdditionalInputs, values model.PlatformFieldValues) FieldCollector {
	if values == nil {
		values = model.PlatformFieldValues{}
	}
	return FieldCollector{schema: schema, values: values}
}

// Set updates one leaf, replacing only the affected platform's sub-map.
// Fields the schema does not list are rejected.
func (c FieldCollector) Set(platform, field, value string) (FieldCollector, bool) {
	if !c.known(platform, field) {
		return c, false
	}

	next := make(model.PlatformFieldValues, len(c.values)+1)
	for p, m := range c.values {
		next[p] = m
	}
	sub := make(map[string]string, len(c.values[platform])+1)
	for k, v := range c.values[platform] {
		sub[k] = v
	}
	sub[field] = value
	next[platform] = sub

	return FieldCollector{schema: c.schema, values: next}, true
}

func (c FieldCollector) Value(platform, field string) string {
	return c.values[platform][field]
}

// Values returns a deep copy of the collected values.
func (c FieldCollector) Values() model.PlatformFieldValues {
	out := make(model.PlatformFieldValues, len(c.values))
	for p, m := range c.values {
		sub := make(map[string]string, len(m))
		for k, v := range m {
			sub[k] = v
		}
		out[p] = sub
	}
	return out
}

// Input is one rendered step-two field.
type Input struct {
	Field string
	Label string
	Value string
}

// Section groups the inputs of one platform.
type Section struct {
	Platform string
	Inputs   []Input
}

// Sections lists every platform in the schema, in schema order, regardless of
// which channels were selected in step one.
func (c FieldCollector) Sections() []Section {
	out := make([]Section, 0, len(c.schema))
	for _, pf := range c.schema {
		s := Section{Platform: pf.Platform, Inputs: make([]Input, 0, len(pf.Fields))}
		for _, f := range pf.Fields {
			s.Inputs = append(s.Inputs, Input{
				Field: f,
				Label: FieldLabel(f),
				Value: c.Value(pf.Platform, f),
			})
		}
		out = append(out, s)
	}
	return out
}

func (c FieldCollector) known(platform, field string) bool {
	for _, f := range c.schema.Fields(platform) {
		if f == field {
			return true
		}
	}
	return false
}

// FieldLabel turns "ad_account_id" into "Ad Account Id".
func FieldLabel(field string) string {
	return labelCaser.String(strings.ReplaceAll(field, "_", " "))
}
