package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/db"
)

// ListLimit is the fixed maximum of records returned by listing queries.
const ListLimit = 50

// ConnectionRepository is the storage contract for connections
type ConnectionRepository interface {
	Save(ctx context.Context, conn db.Querier, connection *domain.Connection) error
	Update(ctx context.Context, conn db.Querier, connection *domain.Connection) error
	GetByInviteCode(ctx context.Context, conn db.Querier, code string) (*domain.Connection, error)
	GetByInvitationID(ctx context.Context, conn db.Querier, invitationID string) (*domain.Connection, error)
	ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.Connection, error)
}

// CredentialRepository is the storage contract for credentials
type CredentialRepository interface {
	Save(ctx context.Context, conn db.Querier, credential *domain.Credential) error
	Update(ctx context.Context, conn db.Querier, credential *domain.Credential) error
	GetByID(ctx context.Context, conn db.Querier, id uuid.UUID) (*domain.Credential, error)
	ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.Credential, error)
}

// ProofRequestRepository is the storage contract for proof requests
type ProofRequestRepository interface {
	Save(ctx context.Context, conn db.Querier, request *domain.ProofRequest) error
	Update(ctx context.Context, conn db.Querier, request *domain.ProofRequest) error
	GetByID(ctx context.Context, conn db.Querier, id uuid.UUID) (*domain.ProofRequest, error)
	ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.ProofRequest, error)
}

// PresentationRepository is the storage contract for presentations
type PresentationRepository interface {
	Save(ctx context.Context, conn db.Querier, presentation *domain.Presentation) error
	ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.Presentation, error)
}
