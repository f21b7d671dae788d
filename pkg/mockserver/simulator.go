package mockserver

import (
	"math"
	"time"

	"rf2dash/pkg/model"
)

const (
	DefaultPhaseDuration = 30 * time.Second
	lapCycle             = 8 * time.Second
	brakeZone            = 1500 * time.Millisecond
)

// DefaultSessions walks through practice 1, qualifying 1 and race 1.
var DefaultSessions = []int{1, 5, 10}

type Player struct {
	Driver  string
	Vehicle string
	Track   string
	Place   int
}

// Simulator derives a player sample from the time elapsed since start, so
// every client sees the same car.
type Simulator struct {
	player        *Player
	sessions      []int
	phaseDuration time.Duration
	start         time.Time
}

func NewSimulator(player *Player, sessions []int, phaseDuration time.Duration, start time.Time) *Simulator {
	if len(sessions) == 0 {
		sessions = DefaultSessions
	}
	if phaseDuration <= 0 {
		phaseDuration = DefaultPhaseDuration
	}
	return &Simulator{
		player:        player,
		sessions:      sessions,
		phaseDuration: phaseDuration,
		start:         start,
	}
}

// Session returns the session code at now. The last session never ends.
func (s *Simulator) Session(now time.Time) int {
	idx := int(now.Sub(s.start) / s.phaseDuration)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.sessions) {
		idx = len(s.sessions) - 1
	}
	return s.sessions[idx]
}

// Sample returns the player's telemetry at now, or false when there is no
// player vehicle.
func (s *Simulator) Sample(now time.Time) (model.TelemetrySample, bool) {
	if s.player == nil {
		return model.TelemetrySample{}, false
	}
	elapsed := now.Sub(s.start)
	inLap := elapsed % lapCycle

	var throttle, brake float64
	var gear int
	if inLap >= lapCycle-brakeZone {
		x := float64(inLap-(lapCycle-brakeZone)) / float64(brakeZone)
		brake = math.Sin(x * math.Pi)
		gear = 6 - int(x*4)
	} else {
		x := float64(inLap) / float64(lapCycle-brakeZone)
		throttle = math.Min(1, 0.3+x)
		gear = 2 + int(x*5)
	}

	session := s.Session(now)
	place := s.player.Place
	return model.TelemetrySample{
		Session:     &session,
		Gear:        &gear,
		Brake:       &brake,
		Throttle:    &throttle,
		Place:       &place,
		DriverName:  &s.player.Driver,
		VehicleName: &s.player.Vehicle,
		TrackName:   &s.player.Track,
	}, true
}
