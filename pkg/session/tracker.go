package session

// Transition is the result of observing a session code.
type Transition struct {
	From Phase
	To   Phase
	// EnteredQual is set when the phase moved into qualifying from any other
	// phase, including the very first observation.
	EnteredQual bool
	// ExportVisible is true while the race phase is current.
	ExportVisible bool
}

// Tracker follows the session phase across inbound samples. It has no
// terminal state.
type Tracker struct {
	seen    bool
	phase   Phase
	current int
}

func (t *Tracker) Observe(code int) Transition {
	to, _ := Classify(code)
	tr := Transition{
		From:          t.phase,
		To:            to,
		EnteredQual:   to == PhaseQual && (!t.seen || t.phase != PhaseQual),
		ExportVisible: to == PhaseRace,
	}
	t.seen = true
	t.phase = to
	t.current = code
	return tr
}

// Current returns the last observed session code, or nil before the first one.
func (t *Tracker) Current() *int {
	if !t.seen {
		return nil
	}
	c := t.current
	return &c
}
