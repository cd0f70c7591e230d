package queue

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/unclebandit/campaign-dashboard/internal/metrics"
	"github.com/unclebandit/campaign-dashboard/internal/model"
)

// DecodeWizardEvent accepts an in-process event or an AMQP message body.
func DecodeWizardEvent(payload any) (model.WizardEvent, error) {
	switch p := payload.(type) {
	case model.WizardEvent:
		return p, nil
	case *model.WizardEvent:
		if p == nil {
			return model.WizardEvent{}, fmt.Errorf("nil wizard event")
		}
		return *p, nil
	case []byte:
		var ev model.WizardEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return model.WizardEvent{}, fmt.Errorf("invalid wizard event: %w", err)
		}
		return ev, nil
	}
	return model.WizardEvent{}, fmt.Errorf("unexpected payload type %T", payload)
}

// StartWizardEventSubscriber counts and logs every wizard event on q.
func StartWizardEventSubscriber(q Queue, logger *zap.Logger) error {
	err := q.Subscribe(model.WizardEventsTopic, func(payload any) error {
		ev, err := DecodeWizardEvent(payload)
		if err != nil {
			logger.Warn("dropping wizard event", zap.Error(err))
			return nil // no retry
		}
		metrics.WizardEvents.WithLabelValues(string(ev.Type)).Inc()
		logger.Info("wizard event",
			zap.String("type", string(ev.Type)),
			zap.String("wizard_id", ev.WizardID),
			zap.String("campaign", ev.CampaignName),
			zap.Time("at", ev.At),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to start subscriber for %s: %w", model.WizardEventsTopic, err)
	}
	return nil
}
