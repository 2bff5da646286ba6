package agents

import "fmt"

// Status is the lifecycle state of an agent.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// transitions lists every permitted status write. Nothing else may change status.
var transitions = map[Status][]Status{
	StatusStopped:  {StatusStarting},
	StatusStarting: {StatusRunning, StatusError},
	StatusRunning:  {StatusStopping},
	StatusStopping: {StatusStopped, StatusError},
	StatusError:    {StatusStopped},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is a permitted status write.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, from, to)
	}
	return nil
}
