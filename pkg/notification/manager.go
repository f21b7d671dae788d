package notification

import (
	"context"

	"github.com/nikoksr/notify"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/model"
)

const SubjectExport = "Export"

// Manager sends user notifications through every configured service.
type Manager struct {
	n *notify.Notify
}

func NewManager(services ...notify.Notifier) *Manager {
	return &Manager{
		n: notify.NewWithServices(services...),
	}
}

// Add registers another service.
func (m *Manager) Add(services ...notify.Notifier) {
	m.n.UseServices(services...)
}

// Notify sends the alert. Delivery failures are logged and otherwise
// ignored.
func (m *Manager) Notify(ctx context.Context, alert model.Alert) {
	err := m.n.Send(ctx, alert.Subject, alert.Message)
	if err != nil {
		log.WithField("subject", alert.Subject).Errorf("error sending notification: %v", err)
	}
}
