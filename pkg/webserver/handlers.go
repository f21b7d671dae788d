package webserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/export"
	"rf2dash/pkg/pubsub"
)

const (
	defaultChartWidth  = 600
	defaultChartHeight = 200
)

type ExportReply struct {
	Outcome  string `json:"outcome"`
	Message  string `json:"message"`
	Exported int    `json:"exported"`
	Dropped  int    `json:"dropped"`
	Filename string `json:"filename,omitempty"`
}

type CollectionReply struct {
	Active  bool `json:"active"`
	Samples int  `json:"samples"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("err", err).Warn("write response")
	}
}

func (m *Manager) indexHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		e := pageData{
			WebSocketURL: "ws://" + r.Host + "/ws/view",
			BrakeURL:     "/charts/brake.png",
			ThrottleURL:  "/charts/throttle.png",
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := homeTemplate.Execute(w, e); err != nil {
			log.WithField("err", err).Error("render dashboard page")
		}
	}
}

// viewSocketHandler pushes the view state, then every change and every alert,
// to one browser.
func (m *Manager) viewSocketHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithField("err", err).Warn("upgrade")
			return
		}
		defer c.Close()

		states := m.ps.Subscribe(pubsub.TopicView)
		defer m.ps.Unsubscribe(pubsub.TopicView, states)
		alerts := m.ps.Subscribe(pubsub.TopicAlert)
		defer m.ps.Unsubscribe(pubsub.TopicAlert, alerts)

		initial, err := m.dashboard.View().Encoded()
		if err != nil {
			log.WithField("err", err).Error("encode view state")
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(initial)); err != nil {
			return
		}

		// the page never sends anything; reading only detects the close
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			var payload string
			select {
			case payload = <-states:
			case payload = <-alerts:
			case <-closed:
				return
			case <-r.Context().Done():
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				log.WithField("err", err).Debug("view socket write")
				return
			}
		}
	}
}

func (m *Manager) exportHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// the export runs to completion even if the page goes away
		res := m.dashboard.Export(context.WithoutCancel(r.Context()))
		reply := ExportReply{
			Outcome:  res.Kind.String(),
			Message:  res.Message(),
			Exported: res.Exported,
			Dropped:  res.Dropped,
			Filename: res.Filename,
		}
		status := http.StatusOK
		switch res.Kind {
		case export.Busy:
			status = http.StatusConflict
		case export.Failure:
			status = http.StatusBadGateway
		}
		writeJSON(w, status, reply)
	}
}

func (m *Manager) collectionHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		active, n := m.dashboard.Collecting()
		writeJSON(w, http.StatusOK, CollectionReply{Active: active, Samples: n})
	}
}

func (m *Manager) resetHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		m.dashboard.ResetCollection()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (m *Manager) chartHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		series, ok := m.dashboard.Feed().Series(mux.Vars(r)["name"])
		if !ok {
			http.NotFound(w, r)
			return
		}
		width := intParam(r, "w", defaultChartWidth)
		height := intParam(r, "h", defaultChartHeight)

		var buf bytes.Buffer
		if err := series.RenderPNG(&buf, time.Now(), width, height); err != nil {
			log.WithField("series", series.Name()).Errorf("render chart: %v", err)
			http.Error(w, "chart rendering failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	}
}

func intParam(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 || v > 2000 {
		return fallback
	}
	return v
}
