package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/chart"
	"rf2dash/pkg/connection"
	"rf2dash/pkg/decoder"
	"rf2dash/pkg/display"
	"rf2dash/pkg/export"
	"rf2dash/pkg/metrics"
	"rf2dash/pkg/model"
	"rf2dash/pkg/notification"
	"rf2dash/pkg/session"
	"rf2dash/pkg/view"
)

// Exporter submits a buffer snapshot to the export endpoint.
type Exporter interface {
	Export(ctx context.Context, entries []session.Entry, current *int) export.Result
}

// State is the per-weekend session state shared by the message loop and the
// export flow.
type State struct {
	Collector *session.Collector
	Tracker   *session.Tracker
}

func NewState() *State {
	return &State{
		Collector: session.NewCollector(),
		Tracker:   &session.Tracker{},
	}
}

// App wires decoded telemetry into the display, the chart feed and the
// collector, and runs exports on demand.
type App struct {
	mu      sync.Mutex
	state   *State
	updater *display.Updater

	view     *view.State
	feed     *chart.Feed
	exporter Exporter
	notifier *notification.Manager
	metrics  *metrics.Collector

	exporting atomic.Bool
	now       func() time.Time
}

var _ connection.Handler = (*App)(nil)

func NewApp(v *view.State, feed *chart.Feed, exporter Exporter, notifier *notification.Manager, m *metrics.Collector) *App {
	st := NewState()
	return &App{
		state:    st,
		updater:  display.NewUpdater(v, feed, st.Tracker),
		view:     v,
		feed:     feed,
		exporter: exporter,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

func (a *App) View() *view.State {
	return a.view
}

func (a *App) Feed() *chart.Feed {
	return a.feed
}

// Apply renders the effects of a connection transition.
func (a *App) Apply(eff connection.Effects) {
	a.mu.Lock()
	if eff.State == connection.StateConnecting {
		a.metrics.ConnectAttempt()
	}
	a.metrics.SetConnectionState(int(eff.State))
	a.view.SetStatus(eff.Status, eff.StatusClass)
	if eff.ResetDisplay {
		a.updater.ConnectionLost()
	}
	if eff.ClearPlaceholders {
		a.updater.ClearPlaceholders()
	}
	a.mu.Unlock()
	a.view.Flush()
}

// OnMessage handles one inbound telemetry message.
func (a *App) OnMessage(payload []byte) {
	a.metrics.MessageReceived()
	s, err := decoder.Decode(payload)
	if err != nil {
		a.metrics.MessageMalformed()
		log.WithField("err", err).Warn("dropping telemetry message")
		return
	}

	a.mu.Lock()
	tr, ok := a.updater.Apply(s)
	if ok && tr.EnteredQual && a.state.Collector.Start() {
		log.WithField("session", tr.To).Info("qualifying started, collecting samples")
	}
	if a.state.Collector.Offer(s, a.now()) {
		a.metrics.SampleCollected()
		a.metrics.SetBufferSize(a.state.Collector.Buffer().Len())
	}
	a.mu.Unlock()
	a.view.Flush()
}

// ResetCollection stops collecting; the next qualifying entry starts a fresh
// buffer.
func (a *App) ResetCollection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Collector.Reset()
	log.Info("collection reset")
}

// Collecting reports whether collection is active and how many samples are
// buffered.
func (a *App) Collecting() (bool, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Collector.Active(), a.state.Collector.Buffer().Len()
}

// Export sends the buffered samples and notifies the user of the outcome.
// A concurrent call returns a busy result without touching the network.
func (a *App) Export(ctx context.Context) export.Result {
	if !a.exporting.CompareAndSwap(false, true) {
		return export.Result{Kind: export.Busy}
	}
	a.view.SetExportBusy(true)
	a.view.Flush()
	defer func() {
		a.view.SetExportBusy(false)
		a.view.Flush()
		a.exporting.Store(false)
	}()

	a.mu.Lock()
	entries := a.state.Collector.Buffer().Entries()
	current := a.state.Tracker.Current()
	a.mu.Unlock()

	res := a.exporter.Export(ctx, entries, current)
	a.metrics.Export(res.Kind.String())
	if res.Err != nil {
		log.WithField("err", errors.Cause(res.Err)).Error("export failed")
	}
	a.notifier.Notify(ctx, model.Alert{Subject: notification.SubjectExport, Message: res.Message()})
	return res
}
