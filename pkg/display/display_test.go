package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rf2dash/pkg/model"
	"rf2dash/pkg/session"
)

type recordingSink struct {
	gear, gearClass, gearDesc            string
	brakeText, throttleText              string
	brakeFill, throttleFill              float64
	sessionLabel, sessionClass, sessDesc string
	track, vehicle                       string
	exportVisible                        bool
	calls                                int
}

func (r *recordingSink) SetGear(label, class, description string) {
	r.gear, r.gearClass, r.gearDesc = label, class, description
	r.calls++
}

func (r *recordingSink) SetBrake(text string, fill float64) {
	r.brakeText, r.brakeFill = text, fill
	r.calls++
}

func (r *recordingSink) SetThrottle(text string, fill float64) {
	r.throttleText, r.throttleFill = text, fill
	r.calls++
}

func (r *recordingSink) SetSession(label, class, description string) {
	r.sessionLabel, r.sessionClass, r.sessDesc = label, class, description
	r.calls++
}

func (r *recordingSink) SetTrack(name string) {
	r.track = name
	r.calls++
}

func (r *recordingSink) SetVehicle(name string) {
	r.vehicle = name
	r.calls++
}

func (r *recordingSink) SetExportVisible(visible bool) {
	r.exportVisible = visible
	r.calls++
}

type recordingFeed struct {
	brake, throttle []float64
}

func (f *recordingFeed) PushBrake(pct float64)    { f.brake = append(f.brake, pct) }
func (f *recordingFeed) PushThrottle(pct float64) { f.throttle = append(f.throttle, pct) }

func ptr[T any](v T) *T {
	return &v
}

func TestGearLabel(t *testing.T) {
	label, class, desc := GearLabel(-1)
	assert.Equal(t, "R", label)
	assert.Equal(t, ClassReverse, class)
	assert.Equal(t, "Marche arrière", desc)

	label, class, desc = GearLabel(0)
	assert.Equal(t, "N", label)
	assert.Equal(t, ClassNeutral, class)
	assert.Equal(t, "Point mort", desc)

	label, _, desc = GearLabel(1)
	assert.Equal(t, "1", label)
	assert.Equal(t, "1ère vitesse", desc)

	label, _, desc = GearLabel(6)
	assert.Equal(t, "6", label)
	assert.Equal(t, "6ème vitesse", desc)

	for _, g := range []int{-2, -7, -100} {
		label, _, desc = GearLabel(g)
		assert.Equal(t, "?", label)
		assert.Equal(t, "Valeur inconnue", desc)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		fraction float64
		pct      float64
		text     string
	}{
		{0, 0, "0%"},
		{0.5, 50, "50%"},
		{1, 100, "100%"},
		{1.7, 100, "100%"},
		{-0.3, 0, "0%"},
		{0.123, 12.3, "12%"},
		{0.125, 12.5, "13%"},
		{0.996, 99.6, "100%"},
	}
	for _, tt := range tests {
		pct := Percent(tt.fraction)
		assert.InDelta(t, tt.pct, pct, 1e-9, "fraction %v", tt.fraction)
		assert.Equal(t, tt.text, PercentText(pct), "fraction %v", tt.fraction)
	}
}

func TestApplyUpdatesPresentFieldsOnly(t *testing.T) {
	sink := &recordingSink{}
	feed := &recordingFeed{}
	u := NewUpdater(sink, feed, &session.Tracker{})

	_, hasSession := u.Apply(model.TelemetrySample{Brake: ptr(0.456)})
	assert.False(t, hasSession)
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, "46%", sink.brakeText)
	assert.InDelta(t, 45.6, sink.brakeFill, 1e-9)
	assert.Equal(t, []float64{sink.brakeFill}, feed.brake)
	assert.Empty(t, feed.throttle)
	assert.Equal(t, "", sink.gear)
}

func TestApplySessionDrivesExportVisibility(t *testing.T) {
	sink := &recordingSink{}
	u := NewUpdater(sink, nil, &session.Tracker{})

	tr, ok := u.Apply(model.TelemetrySample{Session: ptr(7)})
	assert.True(t, ok)
	assert.True(t, tr.EnteredQual)
	assert.Equal(t, "Q3", sink.sessionLabel)
	assert.Equal(t, "qualifying", sink.sessionClass)
	assert.Equal(t, "Qualifications 3", sink.sessDesc)
	assert.False(t, sink.exportVisible)

	tr, _ = u.Apply(model.TelemetrySample{Session: ptr(12)})
	assert.False(t, tr.EnteredQual)
	assert.Equal(t, "R3", sink.sessionLabel)
	assert.True(t, sink.exportVisible)

	u.Apply(model.TelemetrySample{Session: ptr(14)})
	assert.Equal(t, "?", sink.sessionLabel)
	assert.Equal(t, "", sink.sessionClass)
	assert.Equal(t, "Session inconnue", sink.sessDesc)
	assert.False(t, sink.exportVisible)
}

func TestApplyTrackAndVehicleFallbacks(t *testing.T) {
	sink := &recordingSink{}
	u := NewUpdater(sink, nil, &session.Tracker{})

	u.Apply(model.TelemetrySample{TrackName: ptr("  "), VehicleName: ptr("")})
	assert.Equal(t, UnknownTrackLabel, sink.track)
	assert.Equal(t, UnknownVehicleLabel, sink.vehicle)

	u.Apply(model.TelemetrySample{TrackName: ptr("Spa"), VehicleName: ptr("Oreca 07")})
	assert.Equal(t, "Spa", sink.track)
	assert.Equal(t, "Oreca 07", sink.vehicle)
}

func TestConnectionLostAndClear(t *testing.T) {
	sink := &recordingSink{}
	u := NewUpdater(sink, nil, &session.Tracker{})
	u.Apply(model.TelemetrySample{Gear: ptr(3), Session: ptr(2), TrackName: ptr("Spa"), VehicleName: ptr("Oreca")})

	u.ConnectionLost()
	assert.Equal(t, Placeholder, sink.gear)
	assert.Equal(t, ConnectionLost, sink.gearDesc)
	assert.Equal(t, Placeholder, sink.sessionLabel)
	assert.Equal(t, ConnectionLost, sink.sessDesc)
	assert.Equal(t, Placeholder, sink.track)
	assert.Equal(t, Placeholder, sink.vehicle)

	u.ClearPlaceholders()
	assert.Equal(t, "", sink.gearDesc)
	assert.Equal(t, "", sink.sessDesc)
}
