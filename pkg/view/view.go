package view

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"rf2dash/pkg/caster"
	"rf2dash/pkg/display"
	"rf2dash/pkg/pubsub"
)

const EnvelopeState = "state"

type Labelled struct {
	Value       string `json:"value"`
	Class       string `json:"class"`
	Description string `json:"description"`
}

type Gauge struct {
	Text string  `json:"text"`
	Fill float64 `json:"fill"`
}

// Snapshot is everything the dashboard page renders.
type Snapshot struct {
	Status        string   `json:"status"`
	StatusClass   string   `json:"statusClass"`
	Gear          Labelled `json:"gear"`
	Brake         Gauge    `json:"brake"`
	Throttle      Gauge    `json:"throttle"`
	Session       Labelled `json:"session"`
	Track         string   `json:"track"`
	Vehicle       string   `json:"vehicle"`
	ExportVisible bool     `json:"exportVisible"`
	ExportBusy    bool     `json:"exportBusy"`
}

func initialSnapshot() Snapshot {
	return Snapshot{
		Status:      "Connexion...",
		StatusClass: "disconnected",
		Gear:        Labelled{Value: display.Placeholder},
		Brake:       Gauge{Text: "0%"},
		Throttle:    Gauge{Text: "0%"},
		Session:     Labelled{Value: display.Placeholder},
		Track:       display.Placeholder,
		Vehicle:     display.Placeholder,
	}
}

// State is the production display sink. Setters mark it dirty and Flush
// pushes one snapshot to the page subscribers.
type State struct {
	mu     sync.Mutex
	snap   Snapshot
	dirty  bool
	ps     *pubsub.PubSub[string]
	caster caster.ChannelCaster[caster.Envelope[Snapshot]]
}

var _ display.Sink = (*State)(nil)

func NewState(ps *pubsub.PubSub[string]) *State {
	return &State{
		snap:   initialSnapshot(),
		ps:     ps,
		caster: caster.JSONChannelCaster[caster.Envelope[Snapshot]]{},
	}
}

func (s *State) update(f func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.snap)
	s.dirty = true
}

func (s *State) SetGear(label, class, description string) {
	s.update(func(sn *Snapshot) { sn.Gear = Labelled{label, class, description} })
}

func (s *State) SetBrake(text string, fill float64) {
	s.update(func(sn *Snapshot) { sn.Brake = Gauge{text, fill} })
}

func (s *State) SetThrottle(text string, fill float64) {
	s.update(func(sn *Snapshot) { sn.Throttle = Gauge{text, fill} })
}

func (s *State) SetSession(label, class, description string) {
	s.update(func(sn *Snapshot) { sn.Session = Labelled{label, class, description} })
}

func (s *State) SetTrack(name string) {
	s.update(func(sn *Snapshot) { sn.Track = name })
}

func (s *State) SetVehicle(name string) {
	s.update(func(sn *Snapshot) { sn.Vehicle = name })
}

func (s *State) SetExportVisible(visible bool) {
	s.update(func(sn *Snapshot) { sn.ExportVisible = visible })
}

func (s *State) SetStatus(text, class string) {
	s.update(func(sn *Snapshot) {
		sn.Status = text
		sn.StatusClass = class
	})
}

func (s *State) SetExportBusy(busy bool) {
	s.update(func(sn *Snapshot) { sn.ExportBusy = busy })
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Encoded returns the current snapshot in its wire form.
func (s *State) Encoded() (string, error) {
	return s.caster.To(caster.Wrap(EnvelopeState, s.Snapshot()))
}

// Flush publishes the snapshot if anything changed since the last flush.
func (s *State) Flush() bool {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return false
	}
	s.dirty = false
	snap := s.snap
	s.mu.Unlock()

	payload, err := s.caster.To(caster.Wrap(EnvelopeState, snap))
	if err != nil {
		log.WithField("err", err).Error("unable to encode view state")
		return false
	}
	s.ps.Publish(pubsub.TopicView, payload)
	return true
}
