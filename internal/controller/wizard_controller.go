// internal/controller/wizard_controller.go
package controller

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/campaign-dashboard/internal/errors"
	"github.com/unclebandit/campaign-dashboard/internal/model"
	"github.com/unclebandit/campaign-dashboard/internal/service"
	"github.com/unclebandit/campaign-dashboard/internal/view"
	"github.com/unclebandit/campaign-dashboard/internal/wizard"
)

const fieldPrefix = "field|"

var fieldLabels = map[string]string{
	"Name":      "Campaign Name",
	"StartDate": "Start Date",
	"EndDate":   "End Date",
	"Budget":    "Budget",
}

// WizardController drives the two-step campaign creation form. Every POST
// redirects back to the wizard page unless the form must be shown again.
type WizardController struct {
	WizardService *service.WizardService
	Renderer      *view.Renderer
	Logger        *zap.Logger
}

type platformOption struct {
	Name     string
	Selected bool
}

type wizardBody struct {
	ID         string
	Step       int
	View       string
	Error      string
	CanRetry   bool
	Draft      model.DraftCampaign
	BudgetText string
	Platforms  []platformOption
	Sections   []wizard.Section
	Missing    []string
	Notice     string
}

func newWizardBody(st wizard.State) wizardBody {
	platforms := make([]platformOption, 0, len(wizard.Platforms))
	for _, p := range wizard.Platforms {
		platforms = append(platforms, platformOption{Name: p, Selected: st.Draft.HasChannel(p)})
	}
	return wizardBody{
		ID:         st.ID,
		Step:       st.Step.Number(),
		View:       string(st.View()),
		Error:      st.Error,
		CanRetry:   st.Failure == wizard.FailureSchemaFetch,
		Draft:      st.Draft,
		BudgetText: strconv.FormatFloat(st.Draft.Budget, 'f', -1, 64),
		Platforms:  platforms,
		Sections:   st.Collector().Sections(),
	}
}

func (c *WizardController) render(w http.ResponseWriter, status int, body wizardBody) {
	c.Renderer.Render(w, status, view.PageWizard, view.Page{Title: "Create New Campaign", Body: body})
}

// Open starts a session and sends the browser to it.
func (c *WizardController) Open(w http.ResponseWriter, r *http.Request) {
	st, err := c.WizardService.Open(r.Context())
	if err != nil {
		c.Logger.Error("failed to open wizard", zap.Error(err))
		c.Renderer.Error(w, http.StatusInternalServerError, "Could not start a new campaign")
		return
	}
	http.Redirect(w, r, "/wizard/"+st.ID, http.StatusSeeOther)
}

func (c *WizardController) Show(w http.ResponseWriter, r *http.Request) {
	st, err := c.WizardService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.render(w, http.StatusOK, newWizardBody(st))
}

// Basics stores step one and moves on when the required fields are present.
func (c *WizardController) Basics(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	b := basicsFrom(r)
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		return wz.SubmitBasics(ctx, b)
	})
}

func (c *WizardController) ToggleChannel(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	b := basicsFrom(r)
	platform := r.PostFormValue("platform")
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		if err := wz.SetBasics(b); err != nil {
			return err
		}
		return wz.ToggleChannel(platform)
	})
}

// AddAudience silently ignores incomplete records.
func (c *WizardController) AddAudience(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	b := basicsFrom(r)
	rec := model.TargetAudience{
		Name:        strings.TrimSpace(r.PostFormValue("audience_name")),
		Description: strings.TrimSpace(r.PostFormValue("audience_description")),
		AgeRange:    strings.TrimSpace(r.PostFormValue("audience_age_range")),
		Address:     strings.TrimSpace(r.PostFormValue("audience_address")),
		Job:         strings.TrimSpace(r.PostFormValue("audience_job")),
	}
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		if err := wz.SetBasics(b); err != nil {
			return err
		}
		_, err := wz.AddAudience(rec)
		return err
	})
}

func (c *WizardController) RemoveAudience(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	b := basicsFrom(r)
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		index = -1
	}
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		if err := wz.SetBasics(b); err != nil {
			return err
		}
		_, err := wz.RemoveAudience(index)
		return err
	})
}

// Back keeps the step-two values typed so far.
func (c *WizardController) Back(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		if err := applyFields(wz, r.PostForm); err != nil {
			return err
		}
		return wz.Back()
	})
}

func (c *WizardController) Submit(w http.ResponseWriter, r *http.Request) {
	if !c.parseForm(w, r) {
		return
	}
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error {
		if err := applyFields(wz, r.PostForm); err != nil {
			return err
		}
		return wz.Submit(ctx)
	})
}

func (c *WizardController) Retry(w http.ResponseWriter, r *http.Request) {
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error { return wz.Retry(ctx) })
}

func (c *WizardController) Dismiss(w http.ResponseWriter, r *http.Request) {
	c.act(w, r, func(ctx context.Context, wz *wizard.Wizard) error { return wz.Dismiss() })
}

func (c *WizardController) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := c.WizardService.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// act applies one wizard action. Backend failures are part of the stored
// state and show up as the error panel after the redirect.
func (c *WizardController) act(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, wz *wizard.Wizard) error) {
	id := chi.URLParam(r, "id")
	st, err := c.WizardService.Update(r.Context(), id, fn)
	if _, isUI := appErrors.AsUIError(err); err != nil && !isUI {
		var verr *appErrors.ValidationError
		if errors.As(err, &verr) {
			body := newWizardBody(st)
			for _, f := range verr.Fields {
				body.Missing = append(body.Missing, fieldLabels[f])
			}
			c.render(w, http.StatusUnprocessableEntity, body)
			return
		}
		c.fail(w, r, err)
		return
	}

	if st.Step.Terminal() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/wizard/"+id, http.StatusSeeOther)
}

func (c *WizardController) fail(w http.ResponseWriter, r *http.Request, err error) {
	id := chi.URLParam(r, "id")
	switch {
	case errors.Is(err, appErrors.ErrWizardNotFound):
		c.Renderer.Error(w, http.StatusNotFound, "This campaign draft has expired or does not exist")
	case errors.Is(err, appErrors.ErrBusy), errors.Is(err, appErrors.ErrInvalidTransition):
		st, gerr := c.WizardService.Get(r.Context(), id)
		if gerr != nil {
			c.Renderer.Error(w, http.StatusConflict, "Please wait for the current request to finish")
			return
		}
		body := newWizardBody(st)
		body.Notice = "That action is not available right now"
		c.render(w, http.StatusConflict, body)
	default:
		c.Logger.Error("wizard action failed", zap.String("wizard_id", id), zap.Error(err))
		c.Renderer.Error(w, http.StatusInternalServerError, "Something went wrong")
	}
}

func basicsFrom(r *http.Request) wizard.Basics {
	b := wizard.Basics{
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		StartDate: r.PostFormValue("startDate"),
		EndDate:   r.PostFormValue("endDate"),
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("budget")), 64)
	if err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		b.Budget = &v
	}
	return b
}

// parseForm answers 400 when the request body is not a readable form.
func (c *WizardController) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		c.Logger.Warn("invalid wizard form", zap.String("wizard_id", chi.URLParam(r, "id")), zap.Error(err))
		c.Renderer.Error(w, http.StatusBadRequest, "The form could not be read")
		return false
	}
	return true
}

// applyFields copies "field|<platform>|<field>" inputs into the wizard.
func applyFields(wz *wizard.Wizard, form url.Values) error {
	for key, vals := range form {
		if !strings.HasPrefix(key, fieldPrefix) || len(vals) == 0 {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(key, fieldPrefix), "|", 2)
		if len(parts) != 2 {
			continue
		}
		if _, err := wz.SetField(parts[0], parts[1], vals[0]); err != nil {
			return err
		}
	}
	return nil
}
