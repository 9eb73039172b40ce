package subscription

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a Manager
type State int32

const (
	// StateIdle means Start has not been called yet
	StateIdle State = iota
	// StateSubscribing means a stream is being opened or the loop is waiting to retry
	StateSubscribing
	// StateStreaming means a stream is open and messages are being delivered
	StateStreaming
	// StateCancelled is terminal
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubscribing:
		return "subscribing"
	case StateStreaming:
		return "streaming"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Stats is a point-in-time view of a Manager's activity
type Stats struct {
	State         State
	Attempts      uint64
	Messages      uint64
	Failures      uint64
	LastError     string
	ConnectedAt   time.Time
	LastMessageAt time.Time
}
