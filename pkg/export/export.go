package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/model"
	"rf2dash/pkg/session"
)

const DefaultEndpoint = "http://localhost:8000/export-csv"

var ErrEndpoint = errors.New("export endpoint rejected the request")

type Kind int

const (
	NothingToExport Kind = iota
	NoCompleteData
	Success
	Failure
	Busy
)

func (k Kind) String() string {
	switch k {
	case NothingToExport:
		return "nothing_to_export"
	case NoCompleteData:
		return "no_complete_data"
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Busy:
		return "busy"
	}
	return "unknown"
}

// Result is the outcome of one export attempt.
type Result struct {
	Kind     Kind
	Exported int
	Dropped  int
	Filename string
	Err      error
}

// Message is the text shown to the user for the outcome.
func (r Result) Message() string {
	switch r.Kind {
	case NothingToExport:
		return "Aucune donnée à exporter"
	case NoCompleteData:
		return "Aucune donnée complète à exporter"
	case Success:
		msg := fmt.Sprintf("Export réussi !\nFichier: %s\nPoints exportés: %d", r.Filename, r.Exported)
		if r.Dropped > 0 {
			msg += fmt.Sprintf("\nPoints supprimés (incomplets): %d", r.Dropped)
		}
		return msg
	case Busy:
		return "Export déjà en cours"
	}
	return "Erreur lors de l'export des données"
}

// Client submits collected samples to the export endpoint. At most one
// export runs at a time.
type Client struct {
	endpoint string
	http     *http.Client
	busy     atomic.Bool
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Busy reports whether an export is in flight.
func (c *Client) Busy() bool {
	return c.busy.Load()
}

// Export validates the entries again and posts the complete ones. Empty or
// fully incomplete input never reaches the network.
func (c *Client) Export(ctx context.Context, entries []session.Entry, current *int) Result {
	if !c.busy.CompareAndSwap(false, true) {
		return Result{Kind: Busy}
	}
	defer c.busy.Store(false)

	if len(entries) == 0 {
		return Result{Kind: NothingToExport}
	}
	points, dropped := session.Clean(entries)
	if len(points) == 0 {
		return Result{Kind: NoCompleteData, Dropped: dropped}
	}

	req := model.ExportRequest{
		Data:        points,
		SessionInfo: BuildSessionInfo(points, current),
	}
	filename, err := c.post(ctx, req)
	if err != nil {
		log.WithFields(log.Fields{"endpoint": c.endpoint, "points": len(points)}).Errorf("export failed: %v", err)
		return Result{Kind: Failure, Err: err, Dropped: dropped}
	}
	log.WithFields(log.Fields{"file": filename, "points": len(points), "dropped": dropped}).Info("export done")
	return Result{Kind: Success, Exported: len(points), Dropped: dropped, Filename: filename}
}

// BuildSessionInfo describes the exported points. points must not be empty.
func BuildSessionInfo(points []model.DataPoint, current *int) model.SessionInfo {
	return model.SessionInfo{
		CurrentSession: current,
		TotalPoints:    len(points),
		StartTime:      points[0].Timestamp,
		EndTime:        points[len(points)-1].Timestamp,
		TrackName:      points[0].TrackName,
	}
}

func (c *Client) post(ctx context.Context, body model.ExportRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "encode export request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build export request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "post export")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read export response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Errorf("export endpoint error body: %s", respBody)
		return "", errors.Wrapf(ErrEndpoint, "status %d", resp.StatusCode)
	}

	var out model.ExportResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", errors.Wrap(err, "decode export response")
	}
	return out.Filename, nil
}
