package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/core/ports"
	"github.com/ssisim/agent-sim-platform/internal/db"
	"github.com/ssisim/agent-sim-platform/internal/event"
	"github.com/ssisim/agent-sim-platform/internal/log"
	"github.com/ssisim/agent-sim-platform/internal/pubsub"
	"github.com/ssisim/agent-sim-platform/internal/repositories"
)

// proof implements the proof lifecycle. Verification is simulated: a
// presentation always reports verified without evaluating predicates.
type proof struct {
	proofRepo ports.ProofRequestRepository
	presRepo  ports.PresentationRepository
	credRepo  ports.CredentialRepository
	storage   *db.Storage
	publisher pubsub.Publisher
}

// NewProof returns a new proof lifecycle service
func NewProof(proofRepo ports.ProofRequestRepository, presRepo ports.PresentationRepository, credRepo ports.CredentialRepository, storage *db.Storage, publisher pubsub.Publisher) ports.ProofService {
	return &proof{
		proofRepo: proofRepo,
		presRepo:  presRepo,
		credRepo:  credRepo,
		storage:   storage,
		publisher: publisher,
	}
}

// SendRequest creates a proof request in the requested state. A nil request
// spec falls back to the fixed example request.
func (p *proof) SendRequest(ctx context.Context, connectionID string, request domain.RequestSpec) (uuid.UUID, error) {
	if strings.TrimSpace(connectionID) == "" {
		return uuid.Nil, NewValidationError("connectionId is required")
	}

	pr := domain.NewProofRequest(connectionID, request)
	if err := p.proofRepo.Save(ctx, p.storage.Pgx, pr); err != nil {
		return uuid.Nil, err
	}

	p.publishRequest(ctx, event.TopicProofRequested, pr)

	return pr.ID, nil
}

// Present records a presentation carrying the referenced credential's full
// claim set and marks the proof request as presented. The two writes are
// not wrapped in a transaction; a failure in between leaves the
// presentation recorded with the request still open.
func (p *proof) Present(ctx context.Context, proofRequestID, credentialID string) (*domain.Presentation, error) {
	prID, err := parseRecordID(proofRequestID, "proofRequestId")
	if err != nil {
		return nil, err
	}
	credID, err := parseRecordID(credentialID, "credentialId")
	if err != nil {
		return nil, err
	}

	cred, err := p.credRepo.GetByID(ctx, p.storage.Pgx, credID)
	if err != nil {
		if errors.Is(err, repositories.ErrCredentialDoesNotExist) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	presentation := domain.NewPresentation(prID, cred)
	if err := p.presRepo.Save(ctx, p.storage.Pgx, presentation); err != nil {
		return nil, err
	}

	// A presentation against an unknown request still stands; only an
	// existing request is moved along.
	pr, err := p.proofRepo.GetByID(ctx, p.storage.Pgx, prID)
	if err == nil {
		if err := pr.MarkPresented(); err != nil {
			return nil, err
		}
		if err := p.proofRepo.Update(ctx, p.storage.Pgx, pr); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, repositories.ErrProofRequestDoesNotExist) {
		return nil, err
	}

	p.publishPresentation(ctx, event.TopicProofPresented, presentation)

	return presentation, nil
}

// ListRequests returns the most recent proof requests
func (p *proof) ListRequests(ctx context.Context) ([]*domain.ProofRequest, error) {
	return p.proofRepo.ListRecent(ctx, p.storage.Pgx, ports.ListLimit)
}

// ListPresentations returns the most recent presentations
func (p *proof) ListPresentations(ctx context.Context) ([]*domain.Presentation, error) {
	return p.presRepo.ListRecent(ctx, p.storage.Pgx, ports.ListLimit)
}

func (p *proof) publishRequest(ctx context.Context, topic string, pr *domain.ProofRequest) {
	e := &event.Lifecycle{
		RecordID:     pr.ID.String(),
		ConnectionID: pr.ConnectionID,
		Status:       string(pr.Status),
	}
	if err := p.publisher.Publish(ctx, topic, e); err != nil {
		log.Warn(ctx, "cannot publish lifecycle event", "err", err, "topic", topic)
	}
}

func (p *proof) publishPresentation(ctx context.Context, topic string, presentation *domain.Presentation) {
	e := &event.Lifecycle{
		RecordID: presentation.ID.String(),
		Status:   string(presentation.Status),
	}
	if err := p.publisher.Publish(ctx, topic, e); err != nil {
		log.Warn(ctx, "cannot publish lifecycle event", "err", err, "topic", topic)
	}
}
