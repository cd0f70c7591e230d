// internal/wizard/builder.go
package wizard

import (
	"math"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
)

// Platforms offered in step one, in display order.
var Platforms = []string{"Facebook Ads", "Google Ads", "Twitter", "LinkedIn", "TikTok"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Inf and NaN parse as floats but cannot be stored or sent as JSON.
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
	return v
}

// Basics is the campaign identity entered in step one. Budget is a pointer so
// an empty input is distinguishable from zero.
type Basics struct {
	Name      string   `validate:"required"`
	StartDate string   `validate:"required"`
	EndDate   string   `validate:"required"`
	Budget    *float64 `validate:"required,finite,gte=0"`
}

// Check runs the required-field rules and reports the failing fields.
func (b Basics) Check() error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &appErrors.ValidationError{Fields: fields}
}

// ToggleChannel removes the named channel if present, preserving the order of
// the rest, and otherwise appends it with no accounts.
func ToggleChannel(channels []model.Channel, name string) []model.Channel {
	out := make([]model.Channel, 0, len(channels)+1)
	found := false
	for _, c := range channels {
		if c.Name == name {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, model.Channel{Name: name, Account: []model.Account{}})
	}
	return out
}

// AddAudience appends rec only when all five descriptors are filled in.
func AddAudience(list []model.TargetAudience, rec model.TargetAudience) ([]model.TargetAudience, bool) {
	if validate.Struct(rec) != nil {
		return list, false
	}
	out := make([]model.TargetAudience, len(list), len(list)+1)
	copy(out, list)
	return append(out, rec), true
}

// RemoveAudience drops the entry at index i; out-of-range indexes are ignored.
func RemoveAudience(list []model.TargetAudience, i int) ([]model.TargetAudience, bool) {
	if i < 0 || i >= len(list) {
		return list, false
	}
	out := make([]model.TargetAudience, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), true
}
