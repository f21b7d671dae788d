package notification

import (
	"context"

	"github.com/pkg/errors"

	"rf2dash/pkg/caster"
	"rf2dash/pkg/model"
	"rf2dash/pkg/pubsub"
)

const EnvelopeAlert = "alert"

// AlertService pushes notifications to the open dashboard pages as blocking
// alerts.
type AlertService struct {
	ps     *pubsub.PubSub[string]
	caster caster.ChannelCaster[caster.Envelope[model.Alert]]
}

func NewAlertService(ps *pubsub.PubSub[string]) *AlertService {
	return &AlertService{
		ps:     ps,
		caster: caster.JSONChannelCaster[caster.Envelope[model.Alert]]{},
	}
}

func (a *AlertService) Send(_ context.Context, subject, message string) error {
	payload, err := a.caster.To(caster.Wrap(EnvelopeAlert, model.Alert{Subject: subject, Message: message}))
	if err != nil {
		return errors.Wrap(err, "encode alert")
	}
	a.ps.Publish(pubsub.TopicAlert, payload)
	return nil
}
