// internal/model/wizard_event.go
package model

import "time"

type WizardEventType string

const (
	WizardOpened       WizardEventType = "wizard.opened"
	WizardSchemaLoaded WizardEventType = "wizard.schema_loaded"
	WizardSchemaFailed WizardEventType = "wizard.schema_failed"
	WizardSubmitted    WizardEventType = "wizard.submitted"
	WizardSubmitFailed WizardEventType = "wizard.submit_failed"
	WizardCancelled    WizardEventType = "wizard.cancelled"
)

// WizardEventsTopic is the queue wizard activity is published to.
const WizardEventsTopic = "wizard_events"

// WizardEvent records one step of a campaign creation session.
type WizardEvent struct {
	Type         WizardEventType `json:"type"`
	WizardID     string          `json:"wizard_id"`
	CampaignName string          `json:"campaign_name,omitempty"`
	At           time.Time       `json:"at"`
}
