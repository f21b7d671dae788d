package session

import "fmt"

// Phase is the bucket a session code falls in.
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseTestDay
	PhasePractice
	PhaseQual
	PhaseWarmup
	PhaseRace
)

func (p Phase) String() string {
	switch p {
	case PhaseTestDay:
		return "testday"
	case PhasePractice:
		return "practice"
	case PhaseQual:
		return "qualifying"
	case PhaseWarmup:
		return "warmup"
	case PhaseRace:
		return "race"
	}
	return "unknown"
}

// Classify maps a session code to its phase and the ordinal inside the phase
// (1-based for practice, qualifying and race, 0 otherwise).
//
//	0=testday 1-4=practice 5-8=qual 9=warmup 10-13=race
func Classify(code int) (Phase, int) {
	switch {
	case code == 0:
		return PhaseTestDay, 0
	case code >= 1 && code <= 4:
		return PhasePractice, code
	case code >= 5 && code <= 8:
		return PhaseQual, code - 4
	case code == 9:
		return PhaseWarmup, 0
	case code >= 10 && code <= 13:
		return PhaseRace, code - 9
	}
	return PhaseUnknown, 0
}

// Label is the short display label of a session code: TEST, P1, Q3, WARM, R2 or ?.
func Label(code int) string {
	phase, n := Classify(code)
	switch phase {
	case PhaseTestDay:
		return "TEST"
	case PhasePractice:
		return fmt.Sprintf("P%d", n)
	case PhaseQual:
		return fmt.Sprintf("Q%d", n)
	case PhaseWarmup:
		return "WARM"
	case PhaseRace:
		return fmt.Sprintf("R%d", n)
	}
	return "?"
}

func Description(code int) string {
	phase, n := Classify(code)
	switch phase {
	case PhaseTestDay:
		return "Journée de test"
	case PhasePractice:
		return fmt.Sprintf("Essais libres %d", n)
	case PhaseQual:
		return fmt.Sprintf("Qualifications %d", n)
	case PhaseWarmup:
		return "Échauffement"
	case PhaseRace:
		return fmt.Sprintf("Course %d", n)
	}
	return "Session inconnue"
}

// FileName is the session name written in exported CSV files.
func FileName(code int) string {
	phase, n := Classify(code)
	switch phase {
	case PhaseTestDay:
		return "Test"
	case PhasePractice:
		return fmt.Sprintf("Practice_%d", n)
	case PhaseQual:
		return fmt.Sprintf("Qualifying_%d", n)
	case PhaseWarmup:
		return "Warmup"
	case PhaseRace:
		return fmt.Sprintf("Race_%d", n)
	}
	return fmt.Sprintf("Unknown_%d", code)
}
