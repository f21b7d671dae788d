// Package exportapi serves the CSV export endpoint the dashboard posts to,
// and keeps a history of every file written.
package exportapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/history"
	"rf2dash/pkg/model"
	"rf2dash/pkg/webserver"
)

const (
	DefaultAddr = ":8000"
	DefaultDir  = "export"

	title   = "rFactor2 Telemetry Export API"
	version = "2.1"
)

// History stores and lists exports.
type History interface {
	Record(r model.ExportRecord) (model.ExportRecord, error)
	List(limit int) ([]model.ExportRecord, error)
	Get(id string) (model.ExportRecord, error)
}

type Server struct {
	r       *mux.Router
	addr    string
	dir     string
	history History
	now     func() time.Time
}

func NewServer(addr, dir string, history History) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if dir == "" {
		dir = DefaultDir
	}
	s := &Server{
		r:       mux.NewRouter(),
		addr:    addr,
		dir:     dir,
		history: history,
		now:     time.Now,
	}
	s.routes()
	return s
}

func (s *Server) Router() *mux.Router {
	return s.r
}

func (s *Server) Serve(ctx context.Context) error {
	return webserver.ListenAndServe(ctx, s.addr, s.r)
}

func (s *Server) routes() {
	s.r.HandleFunc("/", s.infoHandler()).Methods(http.MethodGet)
	s.r.HandleFunc("/export-csv", s.exportHandler()).Methods(http.MethodPost, http.MethodOptions)
	s.r.HandleFunc("/exports", s.listHandler()).Methods(http.MethodGet)
	s.r.HandleFunc("/exports/{id}", s.getHandler()).Methods(http.MethodGet)
	s.r.Use(mux.CORSMethodMiddleware(s.r))
	s.r.Use(allowAnyOrigin)
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("err", err).Warn("write response")
	}
}

func (s *Server) infoHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": title,
			"version": version,
			"endpoints": map[string]string{
				"/export-csv":   "Export telemetry data to CSV (POST)",
				"/exports":      "Export history (GET, ?format=table for text)",
				"/exports/{id}": "One export (GET)",
			},
		})
	}
}

func decodeRequest(r *http.Request) (model.ExportRequest, error) {
	var req model.ExportRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		return req, errors.Wrap(err, "decode body")
	}
	if req.Data == nil {
		return req, errors.New("missing data")
	}
	if req.SessionInfo.CurrentSession == nil {
		return req, errors.New("missing sessionInfo.currentSession")
	}
	return req, nil
}

func (s *Server) exportHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Detail: err.Error()})
			return
		}

		f, err := WriteCSV(s.dir, req, s.now())
		if errors.Cause(err) == ErrOutsideDir {
			log.WithField("file", f.Name).Warn("rejected export file name")
			writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Detail: err.Error()})
			return
		}
		if err != nil {
			log.WithField("file", f.Path).Errorf("error during csv export: %v", err)
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: "Error during CSV export: " + err.Error()})
			return
		}

		rec, err := s.history.Record(model.ExportRecord{
			Filename: f.Name,
			Driver:   f.Driver,
			Track:    f.Track,
			Vehicle:  f.Vehicle,
			Session:  *req.SessionInfo.CurrentSession,
			Points:   len(req.Data),
		})
		if err != nil {
			// the csv is on disk either way
			log.WithField("file", f.Name).Errorf("unable to record export: %v", err)
		} else {
			log.WithFields(log.Fields{"id": rec.ID, "file": f.Name, "points": rec.Points}).Info("csv export written")
		}

		writeJSON(w, http.StatusOK, model.ExportResponse{
			Success:     true,
			Message:     "CSV export successful",
			Filename:    f.Name,
			Filepath:    f.Path,
			TotalPoints: len(req.Data),
			SessionInfo: model.ExportSessionSummary{
				StartTime:      req.SessionInfo.StartTime,
				EndTime:        req.SessionInfo.EndTime,
				CurrentSession: req.SessionInfo.CurrentSession,
			},
		})
	}
}

func (s *Server) listHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := s.history.List(limit)
		if err != nil {
			log.WithField("err", err).Error("list exports")
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: err.Error()})
			return
		}
		if r.URL.Query().Get("format") == "table" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(RenderTable(records)))
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (s *Server) getHandler() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.history.Get(mux.Vars(r)["id"])
		if errors.Cause(err) == history.ErrNotFound {
			writeJSON(w, http.StatusNotFound, model.ErrorResponse{Detail: err.Error()})
			return
		}
		if err != nil {
			log.WithField("err", err).Error("get export")
			writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}
