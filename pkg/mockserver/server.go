// Package mockserver stands in for the simulator-side telemetry server: it
// pushes one player sample per interval to every websocket client.
package mockserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/webserver"
)

const (
	DefaultAddr     = ":8080"
	DefaultInterval = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatusMessage is sent instead of a sample when no player vehicle exists.
type StatusMessage struct {
	Status string `json:"status"`
}

var noPlayer = StatusMessage{Status: "no_player_vehicle_found"}

type Server struct {
	r        *mux.Router
	addr     string
	interval time.Duration
	sim      *Simulator
	now      func() time.Time
}

func NewServer(addr string, interval time.Duration, sim *Simulator) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Server{
		r:        mux.NewRouter(),
		addr:     addr,
		interval: interval,
		sim:      sim,
		now:      time.Now,
	}
	s.r.HandleFunc("/ws", s.websocketHandler())
	return s
}

func (s *Server) Router() *mux.Router {
	return s.r
}

func (s *Server) Serve(ctx context.Context) error {
	log.Infof("mock telemetry on ws://localhost%s/ws", s.addr)
	return webserver.ListenAndServe(ctx, s.addr, s.r)
}

func (s *Server) payload() ([]byte, error) {
	sample, ok := s.sim.Sample(s.now())
	if !ok {
		return json.Marshal(noPlayer)
	}
	return json.Marshal(sample)
}

func (s *Server) websocketHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithField("err", err).Warn("upgrade")
			return
		}
		defer c.Close()
		log.WithField("client", r.RemoteAddr).Info("new telemetry client")

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				bytes, err := s.payload()
				if err != nil {
					log.WithField("err", err).Error("marshal sample")
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, bytes); err != nil {
					log.WithField("err", err).Debug("write")
					return
				}
			case <-closed:
				log.WithField("client", r.RemoteAddr).Info("telemetry client closed")
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}
