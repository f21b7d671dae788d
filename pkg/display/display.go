package display

import (
	"fmt"
	"math"
	"strings"

	"rf2dash/pkg/helper"
	"rf2dash/pkg/model"
	"rf2dash/pkg/session"
)

const (
	Placeholder         = "-"
	ConnectionLost      = "Connexion perdue"
	UnknownTrackLabel   = "Circuit inconnu"
	UnknownVehicleLabel = "Véhicule inconnu"

	ClassReverse = "reverse"
	ClassNeutral = "neutral"
)

// Sink is the rendering surface the updater writes to.
type Sink interface {
	SetGear(label, class, description string)
	SetBrake(text string, fill float64)
	SetThrottle(text string, fill float64)
	SetSession(label, class, description string)
	SetTrack(name string)
	SetVehicle(name string)
	SetExportVisible(visible bool)
}

// ChartFeed receives the unrounded brake and throttle percentages.
type ChartFeed interface {
	PushBrake(pct float64)
	PushThrottle(pct float64)
}

// Updater maps sample fields to UI state, one region per field.
type Updater struct {
	sink    Sink
	feed    ChartFeed
	tracker *session.Tracker
}

func NewUpdater(sink Sink, feed ChartFeed, tracker *session.Tracker) *Updater {
	return &Updater{
		sink:    sink,
		feed:    feed,
		tracker: tracker,
	}
}

// Apply updates every region whose field is present and returns the session
// transition when the sample carried a session code.
func (u *Updater) Apply(s model.TelemetrySample) (session.Transition, bool) {
	if s.Gear != nil {
		u.sink.SetGear(GearLabel(*s.Gear))
	}
	if s.Brake != nil {
		pct := Percent(*s.Brake)
		u.sink.SetBrake(PercentText(pct), pct)
		if u.feed != nil {
			u.feed.PushBrake(pct)
		}
	}
	if s.Throttle != nil {
		pct := Percent(*s.Throttle)
		u.sink.SetThrottle(PercentText(pct), pct)
		if u.feed != nil {
			u.feed.PushThrottle(pct)
		}
	}
	var tr session.Transition
	hasSession := s.Session != nil
	if hasSession {
		tr = u.updateSession(*s.Session)
	}
	if s.TrackName != nil {
		u.sink.SetTrack(nameOr(*s.TrackName, UnknownTrackLabel))
	}
	if s.VehicleName != nil {
		u.sink.SetVehicle(nameOr(*s.VehicleName, UnknownVehicleLabel))
	}
	return tr, hasSession
}

func (u *Updater) updateSession(code int) session.Transition {
	tr := u.tracker.Observe(code)
	class := ""
	if tr.To != session.PhaseUnknown {
		class = tr.To.String()
	}
	u.sink.SetSession(session.Label(code), class, session.Description(code))
	u.sink.SetExportVisible(tr.ExportVisible)
	return tr
}

// ConnectionLost resets every display region to the lost-connection
// placeholder.
func (u *Updater) ConnectionLost() {
	u.sink.SetGear(Placeholder, "", ConnectionLost)
	u.sink.SetSession(Placeholder, "", ConnectionLost)
	u.sink.SetTrack(Placeholder)
	u.sink.SetVehicle(Placeholder)
}

// ClearPlaceholders drops the lost-connection descriptions once the link is
// back; values stay until the next sample replaces them.
func (u *Updater) ClearPlaceholders() {
	u.sink.SetGear(Placeholder, "", "")
	u.sink.SetSession(Placeholder, "", "")
}

// GearLabel returns the display label, CSS class and description of a gear.
func GearLabel(gear int) (string, string, string) {
	switch {
	case gear == -1:
		return "R", ClassReverse, "Marche arrière"
	case gear == 0:
		return "N", ClassNeutral, "Point mort"
	case gear > 0:
		suffix := "ème"
		if gear == 1 {
			suffix = "ère"
		}
		return fmt.Sprint(gear), "", fmt.Sprintf("%d%s vitesse", gear, suffix)
	}
	return "?", "", "Valeur inconnue"
}

// Percent clamps a pedal fraction to [0,1] and scales it to a percentage.
func Percent(fraction float64) float64 {
	return helper.Clamp01(fraction) * 100
}

func PercentText(pct float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(pct)))
}

func nameOr(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
