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

type credential struct {
	credRepo  ports.CredentialRepository
	storage   *db.Storage
	publisher pubsub.Publisher
}

// NewCredential returns a new credential lifecycle service
func NewCredential(credRepo ports.CredentialRepository, storage *db.Storage, publisher pubsub.Publisher) ports.CredentialService {
	return &credential{
		credRepo:  credRepo,
		storage:   storage,
		publisher: publisher,
	}
}

// Issue creates a credential in the offered state. Claims are stored
// verbatim; the credential type is derived from the department claim when
// present. The connection reference is not verified against the store.
func (c *credential) Issue(ctx context.Context, connectionID string, claims domain.Claims) (uuid.UUID, error) {
	if strings.TrimSpace(connectionID) == "" {
		return uuid.Nil, NewValidationError("connectionId is required")
	}

	cred := domain.NewCredential(connectionID, claims)
	if err := c.credRepo.Save(ctx, c.storage.Pgx, cred); err != nil {
		return uuid.Nil, err
	}

	c.publish(ctx, event.TopicCredentialIssued, cred)

	return cred.ID, nil
}

// Accept moves the credential to accepted. Accepting an already accepted
// credential, or one that never existed, succeeds silently; only an empty
// or malformed identifier fails.
func (c *credential) Accept(ctx context.Context, credentialID string) error {
	id, err := parseRecordID(credentialID, "credentialId")
	if err != nil {
		return err
	}

	cred, err := c.credRepo.GetByID(ctx, c.storage.Pgx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCredentialDoesNotExist) {
			return nil
		}
		return err
	}

	if err := cred.Accept(); err != nil {
		return err
	}
	if err := c.credRepo.Update(ctx, c.storage.Pgx, cred); err != nil {
		return err
	}

	c.publish(ctx, event.TopicCredentialAccepted, cred)

	return nil
}

// List returns the most recent credentials
func (c *credential) List(ctx context.Context) ([]*domain.Credential, error) {
	return c.credRepo.ListRecent(ctx, c.storage.Pgx, ports.ListLimit)
}

func (c *credential) publish(ctx context.Context, topic string, cred *domain.Credential) {
	e := &event.Lifecycle{
		RecordID:     cred.ID.String(),
		ConnectionID: cred.ConnectionID,
		Status:       string(cred.Status),
	}
	if err := c.publisher.Publish(ctx, topic, e); err != nil {
		log.Warn(ctx, "cannot publish lifecycle event", "err", err, "topic", topic)
	}
}

// parseRecordID validates a record identifier coming from the API.
func parseRecordID(raw, field string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, NewValidationError(field + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewValidationError(field + " is malformed")
	}
	return id, nil
}
