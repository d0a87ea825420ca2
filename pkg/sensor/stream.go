package sensor

// StreamState is the position of a controller in the streaming lifecycle.
type StreamState int

// Streaming lifecycle states. Starting and Stopping are only observable
// while a transition is in flight.
const (
	StreamStopped StreamState = iota
	StreamStarting
	StreamStreaming
	StreamStopping
)

func (s StreamState) String() string {
	switch s {
	case StreamStopped:
		return "stopped"
	case StreamStarting:
		return "starting"
	case StreamStreaming:
		return "streaming"
	case StreamStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
