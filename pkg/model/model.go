package model

import (
	"fmt"
	"time"
)

const UnknownTrack = "Unknown Track"

// TelemetrySample is one decoded message from the telemetry server. Every
// field is optional: nil means the key was absent or had the wrong type.
type TelemetrySample struct {
	Session     *int     `json:"session,omitempty"`
	Gear        *int     `json:"gear,omitempty"`
	Brake       *float64 `json:"brake,omitempty"`
	Throttle    *float64 `json:"throttle,omitempty"`
	Place       *int     `json:"place,omitempty"`
	DriverName  *string  `json:"driverName,omitempty"`
	VehicleName *string  `json:"vehicleName,omitempty"`
	TrackName   *string  `json:"trackName,omitempty"`
}

// Complete reports whether the sample carries every field required for
// collection and export.
func (s TelemetrySample) Complete() bool {
	return s.Session != nil &&
		s.Gear != nil &&
		s.Brake != nil &&
		s.Throttle != nil &&
		s.Place != nil &&
		s.DriverName != nil && *s.DriverName != "" &&
		s.VehicleName != nil && *s.VehicleName != ""
}

// DataPoint is a complete sample as submitted to the export endpoint.
// Complete must hold on the source sample.
func (s TelemetrySample) DataPoint(capturedAt time.Time) DataPoint {
	track := UnknownTrack
	if s.TrackName != nil && *s.TrackName != "" {
		track = *s.TrackName
	}
	return DataPoint{
		Timestamp:   capturedAt.UTC().Format(TimestampLayout),
		Session:     *s.Session,
		Gear:        *s.Gear,
		Brake:       *s.Brake,
		Throttle:    *s.Throttle,
		DriverName:  *s.DriverName,
		VehicleName: *s.VehicleName,
		TrackName:   track,
		Place:       *s.Place,
	}
}

// TimestampLayout matches the ISO-8601 millisecond form browsers emit.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type DataPoint struct {
	Timestamp   string  `json:"timestamp"`
	Session     int     `json:"session"`
	Gear        int     `json:"gear"`
	Brake       float64 `json:"brake"`
	Throttle    float64 `json:"throttle"`
	DriverName  string  `json:"driverName"`
	VehicleName string  `json:"vehicleName"`
	TrackName   string  `json:"trackName"`
	Place       int     `json:"place"`
}

type SessionInfo struct {
	CurrentSession *int   `json:"currentSession"`
	TotalPoints    int    `json:"totalPoints"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	TrackName      string `json:"trackName,omitempty"`
}

type ExportRequest struct {
	Data        []DataPoint `json:"data"`
	SessionInfo SessionInfo `json:"sessionInfo"`
}

type ExportSessionSummary struct {
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	CurrentSession *int   `json:"current_session"`
}

type ExportResponse struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	Filename    string               `json:"filename"`
	Filepath    string               `json:"filepath"`
	TotalPoints int                  `json:"total_points"`
	SessionInfo ExportSessionSummary `json:"session_info"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ExportRecord is one row of the export history.
type ExportRecord struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Driver    string    `json:"driver"`
	Track     string    `json:"track"`
	Vehicle   string    `json:"vehicle"`
	Session   int       `json:"session"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r ExportRecord) String() string {
	return fmt.Sprintf("  ▸ Fichier: %s\n  ▸ Pilote: %s\n  ▸ Circuit: %s\n  ▸ Points: %d", r.Filename, r.Driver, r.Track, r.Points)
}

// Alert is a blocking user notification shown by the dashboard page.
type Alert struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}
