package domain

import (
	"time"

	"github.com/google/uuid"
)

// Re-accepting an invitation is idempotent, hence connected -> connected.
var connectionTransitions = transitions{
	StatusInvitationCreated: {StatusConnected},
	StatusConnected:         {StatusConnected},
}

// Connection represents a pairing between an issuer and a holder. It is
// created by an issuer invitation and established by holder acceptance.
type Connection struct {
	ID           uuid.UUID
	InvitationID string
	InviteCode   string
	Label        string
	Alias        string
	ConnectionID string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewConnection returns a Connection in the invitation-created state.
func NewConnection(invitationID, inviteCode, label, alias string) *Connection {
	now := time.Now()
	return &Connection{
		ID:           uuid.New(),
		InvitationID: invitationID,
		InviteCode:   inviteCode,
		Label:        label,
		Alias:        alias,
		Status:       StatusInvitationCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Establish assigns the connection identifier and moves the record to
// connected. The identifier is assigned at most once; repeated calls keep
// the existing one.
func (c *Connection) Establish(connectionID string) error {
	next, err := connectionTransitions.move(c.Status, StatusConnected)
	if err != nil {
		return err
	}
	if c.ConnectionID == "" {
		c.ConnectionID = connectionID
	}
	c.Status = next
	c.UpdatedAt = time.Now()
	return nil
}
