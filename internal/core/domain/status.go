package domain

import "fmt"

// Status is the lifecycle state of a record. Each entity declares its own
// transition table; anything not declared is rejected.
type Status string

// Lifecycle states for the four record types.
const (
	StatusInvitationCreated Status = "invitation-created"
	StatusConnected         Status = "connected"
	StatusOffered           Status = "offered"
	StatusAccepted          Status = "accepted"
	StatusRequested         Status = "requested"
	StatusPresented         Status = "presented"
)

// ErrInvalidTransition is returned when a status move is not declared in the
// entity's transition table.
type ErrInvalidTransition struct {
	From Status
	To   Status
}

// Error satisfies the error interface for ErrInvalidTransition
func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

type transitions map[Status][]Status

func (t transitions) allowed(from, to Status) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (t transitions) move(from, to Status) (Status, error) {
	if !t.allowed(from, to) {
		return from, &ErrInvalidTransition{From: from, To: to}
	}
	return to, nil
}
