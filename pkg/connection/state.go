package connection

const (
	StatusConnecting   = "Connexion..."
	StatusConnected    = "Connecté"
	StatusDisconnected = "Déconnecté - Reconnexion..."
	StatusError        = "Erreur de connexion"

	ClassConnected    = "connected"
	ClassDisconnected = "disconnected"
)

type State int

const (
	StateConnecting State = iota
	StateConnected
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Effects is what a transition asks the UI and the manager to do.
type Effects struct {
	State       State
	Status      string
	StatusClass string
	// ResetDisplay replaces every display field with the lost-connection
	// placeholder.
	ResetDisplay bool
	// ClearPlaceholders removes stale lost-connection placeholders.
	ClearPlaceholders bool
	// ScheduleReconnect asks for exactly one new attempt after the delay.
	ScheduleReconnect bool
	Err               error
}

// Machine is the connection state machine. Transitions are pure: they only
// return effects.
type Machine struct {
	state State
}

func NewMachine() *Machine {
	return &Machine{state: StateDisconnected}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Dialing() Effects {
	m.state = StateConnecting
	return Effects{State: m.state, Status: StatusConnecting, StatusClass: ClassDisconnected}
}

func (m *Machine) Opened() Effects {
	m.state = StateConnected
	return Effects{
		State:             m.state,
		Status:            StatusConnected,
		StatusClass:       ClassConnected,
		ClearPlaceholders: true,
	}
}

// Errored surfaces a transport error. Reconnection is left to the close
// that always follows.
func (m *Machine) Errored(err error) Effects {
	return Effects{
		State:       m.state,
		Status:      StatusError,
		StatusClass: ClassDisconnected,
		Err:         err,
	}
}

// Closed handles a close of any cause. A close seen while already
// disconnected schedules nothing, so at most one reconnect is pending.
func (m *Machine) Closed() Effects {
	if m.state == StateDisconnected {
		return Effects{State: m.state, Status: StatusDisconnected, StatusClass: ClassDisconnected}
	}
	m.state = StateDisconnected
	return Effects{
		State:             m.state,
		Status:            StatusDisconnected,
		StatusClass:       ClassDisconnected,
		ResetDisplay:      true,
		ScheduleReconnect: true,
	}
}
