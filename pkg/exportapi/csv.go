package exportapi

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"rf2dash/pkg/helper"
	"rf2dash/pkg/model"
	"rf2dash/pkg/session"
)

const unknownName = "unknown"

// ErrOutsideDir is returned when a request would write outside the export directory.
var ErrOutsideDir = errors.New("export file outside export directory")

var csvHeader = []string{
	"timestamp", "session", "session_name", "gear", "brake_percent",
	"throttle_percent", "driver_name", "vehicle_name", "track_name", "place",
}

// CSVFile names the file a request is written to.
type CSVFile struct {
	Name    string
	Path    string
	Driver  string
	Track   string
	Vehicle string
}

func fileFor(dir string, req model.ExportRequest, at time.Time) CSVFile {
	f := CSVFile{Driver: unknownName, Track: unknownName, Vehicle: unknownName}
	if len(req.Data) > 0 {
		f.Driver = req.Data[0].DriverName
		f.Vehicle = req.Data[0].VehicleName
		f.Track = req.Data[0].TrackName
	}
	if req.SessionInfo.TrackName != "" {
		f.Track = req.SessionInfo.TrackName
	}
	f.Name = helper.ExportFilename(f.Driver, f.Track, f.Vehicle, at)
	f.Path = filepath.Join(dir, f.Name)
	return f
}

// WriteCSV writes one row per data point under dir.
func WriteCSV(dir string, req model.ExportRequest, at time.Time) (CSVFile, error) {
	f := fileFor(dir, req, at)
	if rel, err := filepath.Rel(dir, f.Path); err != nil || rel != f.Name {
		return f, errors.Wrapf(ErrOutsideDir, "%q", f.Name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return f, errors.Wrapf(err, "create %s", dir)
	}

	out, err := os.Create(f.Path)
	if err != nil {
		return f, errors.Wrap(err, "create csv")
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return f, errors.Wrap(err, "write csv header")
	}
	for _, p := range req.Data {
		err := w.Write([]string{
			p.Timestamp,
			strconv.Itoa(p.Session),
			session.FileName(p.Session),
			strconv.Itoa(p.Gear),
			formatPercent(p.Brake),
			formatPercent(p.Throttle),
			p.DriverName,
			p.VehicleName,
			p.TrackName,
			strconv.Itoa(p.Place),
		})
		if err != nil {
			return f, errors.Wrap(err, "write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return f, errors.Wrap(err, "flush csv")
	}
	return f, errors.Wrap(out.Close(), "close csv")
}

// formatPercent always keeps a decimal part: 0.5 is written as 50.0.
func formatPercent(f float64) string {
	s := strconv.FormatFloat(helper.Percent2(f), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
