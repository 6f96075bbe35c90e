package domain

import (
	"time"

	"github.com/google/uuid"
)

var proofRequestTransitions = transitions{
	StatusRequested: {StatusPresented},
	StatusPresented: {StatusPresented},
}

// RequestSpec describes the attributes and predicates a verifier asks for.
// It is stored as-is; the simulation never evaluates it.
type RequestSpec map[string]any

// DefaultRequestSpec is the request used when a verifier supplies none.
func DefaultRequestSpec() RequestSpec {
	return RequestSpec{
		"ask": []any{"name", "department"},
		"predicates": []any{
			map[string]any{"field": "age", "op": ">=", "value": 20},
		},
	}
}

// ProofRequest represents a verifier's request for disclosure.
type ProofRequest struct {
	ID           uuid.UUID
	ConnectionID string
	Request      RequestSpec
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProofRequest returns a ProofRequest in the requested state.
func NewProofRequest(connectionID string, request RequestSpec) *ProofRequest {
	if request == nil {
		request = DefaultRequestSpec()
	}
	now := time.Now()
	return &ProofRequest{
		ID:           uuid.New(),
		ConnectionID: connectionID,
		Request:      request,
		Status:       StatusRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MarkPresented moves the proof request to presented.
func (p *ProofRequest) MarkPresented() error {
	next, err := proofRequestTransitions.move(p.Status, StatusPresented)
	if err != nil {
		return err
	}
	p.Status = next
	p.UpdatedAt = time.Now()
	return nil
}

// Presentation represents a holder's response to a proof request. Revealed
// claims are always the full claim set of the referenced credential at
// presentation time; there is no selective disclosure. Immutable once
// created.
type Presentation struct {
	ID             uuid.UUID
	ProofRequestID uuid.UUID
	CredentialID   uuid.UUID
	Revealed       Claims
	Status         Status
	CreatedAt      time.Time
}

// NewPresentation returns a Presentation carrying the credential's full
// claim set.
func NewPresentation(proofRequestID uuid.UUID, credential *Credential) *Presentation {
	revealed := credential.Claims
	if revealed == nil {
		revealed = Claims{}
	}
	return &Presentation{
		ID:             uuid.New(),
		ProofRequestID: proofRequestID,
		CredentialID:   credential.ID,
		Revealed:       revealed,
		Status:         StatusPresented,
		CreatedAt:      time.Now(),
	}
}
