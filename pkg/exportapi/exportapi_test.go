package exportapi

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rf2dash/pkg/history"
	"rf2dash/pkg/model"
)

func ptr[T any](v T) *T { return &v }

func request() model.ExportRequest {
	points := []model.DataPoint{
		{Timestamp: "2024-05-01T12:00:00.000Z", Session: 5, Gear: 3, Brake: 0.12344, Throttle: 0.5, DriverName: "Alex Dupont", VehicleName: "Oreca 07", TrackName: "Spa", Place: 2},
		{Timestamp: "2024-05-01T12:00:00.100Z", Session: 10, Gear: 4, Brake: 0, Throttle: 1, DriverName: "Alex Dupont", VehicleName: "Oreca 07", TrackName: "Spa", Place: 1},
	}
	return model.ExportRequest{
		Data: points,
		SessionInfo: model.SessionInfo{
			CurrentSession: ptr(10),
			TotalPoints:    2,
			StartTime:      points[0].Timestamp,
			EndTime:        points[1].Timestamp,
			TrackName:      "Spa Francorchamps",
		},
	}
}

func newServer(t *testing.T) (*Server, string, *history.Manager) {
	t.Helper()
	dir := t.TempDir()
	h, err := history.NewManager(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	s := NewServer("", filepath.Join(dir, "export"), h)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 14, 3, 9, 0, time.Local) }
	return s, dir, h
}

func post(t *testing.T, s *Server, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/export-csv", bytes.NewReader(body)))
	return rec
}

func TestExportWritesCSV(t *testing.T) {
	s, dir, h := newServer(t)
	body, err := json.Marshal(request())
	require.NoError(t, err)

	rec := post(t, s, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp model.ExportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "telemetry_Alex_Dupont_Spa_Francorchamps_Oreca_07_20240501_140309.csv", resp.Filename)
	assert.Equal(t, 2, resp.TotalPoints)
	assert.Equal(t, "2024-05-01T12:00:00.000Z", resp.SessionInfo.StartTime)
	require.NotNil(t, resp.SessionInfo.CurrentSession)
	assert.Equal(t, 10, *resp.SessionInfo.CurrentSession)

	f, err := os.Open(filepath.Join(dir, "export", resp.Filename))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"2024-05-01T12:00:00.000Z", "5", "Qualifying_1", "3", "12.34", "50.0", "Alex Dupont", "Oreca 07", "Spa", "2"}, rows[1])
	assert.Equal(t, "Race_1", rows[2][2])
	assert.Equal(t, "100.0", rows[2][5])

	records, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, resp.Filename, records[0].Filename)
	assert.Equal(t, 2, records[0].Points)
	assert.Equal(t, 10, records[0].Session)
}

func TestExportRejectsInvalidBody(t *testing.T) {
	s, _, _ := newServer(t)
	for _, body := range []string{`{`, `{"sessionInfo":{"currentSession":1}}`, `{"data":[]}`} {
		rec := post(t, s, []byte(body))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		var e model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		assert.NotEmpty(t, e.Detail)
	}
}

func TestExportEmptyDataWritesHeaderOnly(t *testing.T) {
	s, _, _ := newServer(t)
	rec := post(t, s, []byte(`{"data":[],"sessionInfo":{"currentSession":0,"totalPoints":0,"startTime":"","endTime":""}}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.ExportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Filename, "telemetry_unknown_unknown_unknown_"))
	assert.Equal(t, 0, resp.TotalPoints)
}

func TestExportKeepsFileInsideDir(t *testing.T) {
	s, dir, _ := newServer(t)
	req := request()
	for i := range req.Data {
		req.Data[i].DriverName = "../../escaped/pwn"
		req.Data[i].VehicleName = `..\car`
	}
	req.SessionInfo.TrackName = "/etc"
	body, err := json.Marshal(req)
	require.NoError(t, err)

	rec := post(t, s, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp model.ExportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	exportDir := filepath.Join(dir, "export")
	rel, err := filepath.Rel(exportDir, resp.Filepath)
	require.NoError(t, err)
	assert.Equal(t, resp.Filename, rel)
	assert.FileExists(t, filepath.Join(exportDir, resp.Filename))
	assert.NoDirExists(t, filepath.Join(dir, "escaped"))

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "telemetry_____escaped_pwn__etc___car_20240501_140309.csv", entries[0].Name())
}

func TestExportFailsWhenDirUnwritable(t *testing.T) {
	s, dir, _ := newServer(t)
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	s.dir = filepath.Join(blocker, "export")

	body, _ := json.Marshal(request())
	rec := post(t, s, body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error during CSV export")
}

func TestListExports(t *testing.T) {
	s, _, _ := newServer(t)
	body, _ := json.Marshal(request())
	require.Equal(t, http.StatusOK, post(t, s, body).Code)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var records []model.ExportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Alex Dupont", records[0].Driver)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports?format=table", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Pilote")
	assert.Contains(t, rec.Body.String(), "R1")
}

func TestGetExport(t *testing.T) {
	s, _, _ := newServer(t)
	body, _ := json.Marshal(request())
	require.Equal(t, http.StatusOK, post(t, s, body).Code)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports", nil))
	var records []model.ExportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/"+records[0].ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.ExportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, records[0].Filename, got.Filename)
	assert.Equal(t, 2, got.Points)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exports/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInfo(t *testing.T) {
	s, _, _ := newServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/export-csv")
}
