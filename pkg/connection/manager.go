package connection

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultReconnectDelay = time.Second

// Handler receives the effects of every transition and each inbound
// message, in order, from the manager's goroutine.
type Handler interface {
	Apply(eff Effects)
	OnMessage(payload []byte)
}

type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Manager owns the single live connection to the telemetry server.
type Manager struct {
	url            string
	dialer         Dialer
	handler        Handler
	machine        *Machine
	reconnectDelay time.Duration
	after          func(time.Duration) <-chan time.Time
}

func NewManager(url string, reconnectDelay time.Duration, handler Handler) *Manager {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &Manager{
		url:     url,
		handler: handler,
		dialer: &websocket.Dialer{
			HandshakeTimeout:  10 * time.Second,
			EnableCompression: true,
		},
		machine:        NewMachine(),
		reconnectDelay: reconnectDelay,
		after:          time.After,
	}
}

func (m *Manager) State() State {
	return m.machine.State()
}

// Run connects and keeps reconnecting after every close, with a fixed delay
// and no retry limit, until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	for {
		eff := m.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !eff.ScheduleReconnect {
			continue
		}
		log.WithField("delay", m.reconnectDelay).Info("telemetry connection closed, reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.after(m.reconnectDelay):
		}
	}
}

// session runs one connection from dial to close and returns the effects of
// the close.
func (m *Manager) session(ctx context.Context) Effects {
	m.handler.Apply(m.machine.Dialing())

	c, _, err := m.dialer.DialContext(ctx, m.url, nil)
	if err != nil {
		err = errors.Wrapf(err, "dial %s", m.url)
		log.WithField("err", err).Error("unable to connect to telemetry server")
		m.handler.Apply(m.machine.Errored(err))
		return m.close()
	}
	log.Infof("connected to %s", m.url)
	m.handler.Apply(m.machine.Opened())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	defer c.Close()

	for {
		_, payload, err := c.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = errors.Wrap(err, "read telemetry")
				log.WithField("err", err).Warn("telemetry connection error")
				m.handler.Apply(m.machine.Errored(err))
			}
			return m.close()
		}
		m.handler.OnMessage(payload)
	}
}

func (m *Manager) close() Effects {
	eff := m.machine.Closed()
	m.handler.Apply(eff)
	return eff
}
