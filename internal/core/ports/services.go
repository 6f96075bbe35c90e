package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/session"
)

// Invitation is the artifact returned to the issuer on invitation creation.
type Invitation struct {
	InvitationID  string
	InviteCode    string
	InvitationURL string
	QRKey         uuid.UUID
}

// ConnectionService is the interface implemented by the connection lifecycle service
type ConnectionService interface {
	CreateInvitation(ctx context.Context, label, alias string) (*Invitation, error)
	ReceiveInvitation(ctx context.Context, codeOrURL string) (string, error)
	InvitationQR(ctx context.Context, key uuid.UUID) (session.QRPayload, error)
	List(ctx context.Context) ([]*domain.Connection, error)
}

// CredentialService is the interface implemented by the credential lifecycle service
type CredentialService interface {
	Issue(ctx context.Context, connectionID string, claims domain.Claims) (uuid.UUID, error)
	Accept(ctx context.Context, credentialID string) error
	List(ctx context.Context) ([]*domain.Credential, error)
}

// ProofService is the interface implemented by the proof lifecycle service
type ProofService interface {
	SendRequest(ctx context.Context, connectionID string, request domain.RequestSpec) (uuid.UUID, error)
	Present(ctx context.Context, proofRequestID, credentialID string) (*domain.Presentation, error)
	ListRequests(ctx context.Context) ([]*domain.ProofRequest, error)
	ListPresentations(ctx context.Context) ([]*domain.Presentation, error)
}
