package push

// State is the connection state of a Listener.
type State int

const (
	Idle State = iota
	Connecting
	Connected
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}
