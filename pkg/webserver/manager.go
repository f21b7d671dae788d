package webserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/chart"
	"rf2dash/pkg/export"
	"rf2dash/pkg/pubsub"
	"rf2dash/pkg/view"
)

const DefaultAddr = ":8090"

var upgrader = websocket.Upgrader{} // use default options

// Dashboard is what the web surface drives.
type Dashboard interface {
	View() *view.State
	Feed() *chart.Feed
	Export(ctx context.Context) export.Result
	ResetCollection()
	Collecting() (bool, int)
}

type Manager struct {
	r         *mux.Router
	addr      string
	dashboard Dashboard
	ps        *pubsub.PubSub[string]
}

func NewManager(addr string, d Dashboard, ps *pubsub.PubSub[string], metrics http.Handler) *Manager {
	if addr == "" {
		addr = DefaultAddr
	}
	m := &Manager{
		r:         mux.NewRouter(),
		addr:      addr,
		dashboard: d,
		ps:        ps,
	}

	m.rootHandlers(metrics)
	return m
}

func (m *Manager) Router() *mux.Router {
	return m.r
}

func (m *Manager) rootHandlers(metrics http.Handler) {
	m.r.HandleFunc("/", m.indexHandler()).Methods(http.MethodGet)
	m.r.HandleFunc("/ws/view", m.viewSocketHandler())
	m.r.HandleFunc("/api/export", m.exportHandler()).Methods(http.MethodPost)
	m.r.HandleFunc("/api/collection", m.collectionHandler()).Methods(http.MethodGet)
	m.r.HandleFunc("/api/collection/reset", m.resetHandler()).Methods(http.MethodPost)
	m.r.HandleFunc("/charts/{name:brake|throttle}.png", m.chartHandler()).Methods(http.MethodGet)
	if metrics != nil {
		m.r.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
}

// Debug logs every registered route.
func (m *Manager) Debug() {
	_ = m.r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, _ := route.GetMethods()
		log.Debugf("route %s [%s]", pathTemplate, strings.Join(methods, ","))
		return nil
	})
}

// Serve listens until ctx is done, then shuts down gracefully.
func (m *Manager) Serve(ctx context.Context) error {
	return ListenAndServe(ctx, m.addr, m.r)
}

// ListenAndServe runs an HTTP server on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      handler,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("webserver listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- errors.Wrapf(err, "listen %s", addr)
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.WithField("addr", addr).Info("webserver shutting down")
	return srv.Shutdown(shutdownCtx)
}
