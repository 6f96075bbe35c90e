package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCredentialType is used when the claims carry no department field.
const DefaultCredentialType = "UnknownCredential"

// Double-accept is a silent no-op, hence accepted -> accepted.
var credentialTransitions = transitions{
	StatusOffered:  {StatusAccepted},
	StatusAccepted: {StatusAccepted},
}

// Claims is the attribute map carried by a credential. It is opaque to the
// system; no schema validation is performed.
type Claims map[string]any

// Credential represents a claim set offered to a holder over a connection.
type Credential struct {
	ID           uuid.UUID
	ConnectionID string
	Type         string
	Status       Status
	Claims       Claims
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCredential returns a Credential in the offered state, with its type
// derived from the claims.
func NewCredential(connectionID string, claims Claims) *Credential {
	if claims == nil {
		claims = Claims{}
	}
	now := time.Now()
	return &Credential{
		ID:           uuid.New(),
		ConnectionID: connectionID,
		Type:         CredentialTypeFromClaims(claims),
		Status:       StatusOffered,
		Claims:       claims,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Accept moves the credential to accepted. Accepting twice succeeds.
func (c *Credential) Accept() error {
	next, err := credentialTransitions.move(c.Status, StatusAccepted)
	if err != nil {
		return err
	}
	c.Status = next
	c.UpdatedAt = time.Now()
	return nil
}

// CredentialTypeFromClaims derives the credential type from a department
// claim, falling back to DefaultCredentialType.
func CredentialTypeFromClaims(claims Claims) string {
	if dep, ok := claims["department"].(string); ok {
		if dep = strings.TrimSpace(dep); dep != "" {
			return dep
		}
	}
	return DefaultCredentialType
}
