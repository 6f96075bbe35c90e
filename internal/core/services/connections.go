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
	"github.com/ssisim/agent-sim-platform/internal/idgen"
	"github.com/ssisim/agent-sim-platform/internal/invite"
	"github.com/ssisim/agent-sim-platform/internal/log"
	"github.com/ssisim/agent-sim-platform/internal/pubsub"
	"github.com/ssisim/agent-sim-platform/internal/repositories"
	"github.com/ssisim/agent-sim-platform/internal/session"
)

const defaultPeerName = "holder"

type connection struct {
	connRepo   ports.ConnectionRepository
	storage    *db.Storage
	sessions   session.Manager
	publisher  pubsub.Publisher
	codeLength int
}

// NewConnection returns a new connection lifecycle service
func NewConnection(connRepo ports.ConnectionRepository, storage *db.Storage, sessions session.Manager, publisher pubsub.Publisher, codeLength int) ports.ConnectionService {
	return &connection{
		connRepo:   connRepo,
		storage:    storage,
		sessions:   sessions,
		publisher:  publisher,
		codeLength: codeLength,
	}
}

// CreateInvitation generates an invitation artifact and stores the backing
// connection in the invitation-created state. A single retry covers the
// residual chance of an invite code collision.
func (c *connection) CreateInvitation(ctx context.Context, label, alias string) (*ports.Invitation, error) {
	if label = strings.TrimSpace(label); label == "" {
		label = defaultPeerName
	}
	if alias = strings.TrimSpace(alias); alias == "" {
		alias = defaultPeerName
	}

	var conn *domain.Connection
	for attempt := 0; attempt < 2; attempt++ {
		invitationID, err := idgen.NewOpaqueID()
		if err != nil {
			return nil, errors.Wrap(err, "generating invitation id")
		}
		inviteCode, err := idgen.NewInviteCode(c.codeLength)
		if err != nil {
			return nil, errors.Wrap(err, "generating invite code")
		}
		conn = domain.NewConnection(invitationID, inviteCode, label, alias)
		err = c.connRepo.Save(ctx, c.storage.Pgx, conn)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrDuplicateInvite) && attempt == 0 {
			log.Warn(ctx, "invite code collision, retrying", "code", inviteCode)
			continue
		}
		return nil, err
	}

	invitationURL := invite.NewDeepLink(conn.InvitationID, conn.Label, conn.Alias)
	qrKey, err := c.sessions.Set(ctx, session.QRPayload{
		InvitationID:  conn.InvitationID,
		InvitationURL: invitationURL,
		InviteCode:    conn.InviteCode,
		Label:         conn.Label,
		Alias:         conn.Alias,
	})
	if err != nil {
		log.Warn(ctx, "cannot store invitation qr payload", "err", err)
	}

	c.publish(ctx, event.TopicConnectionCreated, conn)

	return &ports.Invitation{
		InvitationID:  conn.InvitationID,
		InviteCode:    conn.InviteCode,
		InvitationURL: invitationURL,
		QRKey:         qrKey,
	}, nil
}

// ReceiveInvitation looks up the connection by invite code or invitation
// url and establishes it. Re-acceptance reuses the existing connection
// identifier.
func (c *connection) ReceiveInvitation(ctx context.Context, codeOrURL string) (string, error) {
	codeOrURL = strings.TrimSpace(codeOrURL)
	if codeOrURL == "" {
		return "", NewValidationError("inviteCode is required")
	}

	conn, err := c.lookup(ctx, codeOrURL)
	if err != nil {
		return "", err
	}

	connectionID, err := idgen.NewOpaqueID()
	if err != nil {
		return "", errors.Wrap(err, "generating connection id")
	}
	if err := conn.Establish(connectionID); err != nil {
		return "", err
	}
	if err := c.connRepo.Update(ctx, c.storage.Pgx, conn); err != nil {
		return "", err
	}

	c.publish(ctx, event.TopicConnectionEstablished, conn)

	return conn.ConnectionID, nil
}

// InvitationQR returns the stored invitation payload for QR rendering.
func (c *connection) InvitationQR(ctx context.Context, key uuid.UUID) (session.QRPayload, error) {
	payload, err := c.sessions.Get(ctx, key)
	if err != nil {
		return session.QRPayload{}, ErrQRPayloadNotFound
	}
	return payload, nil
}

// List returns the most recent connections
func (c *connection) List(ctx context.Context) ([]*domain.Connection, error) {
	return c.connRepo.ListRecent(ctx, c.storage.Pgx, ports.ListLimit)
}

func (c *connection) lookup(ctx context.Context, codeOrURL string) (*domain.Connection, error) {
	var (
		conn *domain.Connection
		err  error
	)
	if strings.Contains(codeOrURL, "://") {
		invitationID, parseErr := invite.ParseDeepLink(codeOrURL)
		if parseErr != nil {
			return nil, NewValidationError("invitationUrl is malformed")
		}
		conn, err = c.connRepo.GetByInvitationID(ctx, c.storage.Pgx, invitationID)
	} else {
		conn, err = c.connRepo.GetByInviteCode(ctx, c.storage.Pgx, codeOrURL)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionDoesNotExist) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	return conn, nil
}

func (c *connection) publish(ctx context.Context, topic string, conn *domain.Connection) {
	e := &event.Lifecycle{
		RecordID:     conn.ID.String(),
		ConnectionID: conn.ConnectionID,
		Status:       string(conn.Status),
	}
	if err := c.publisher.Publish(ctx, topic, e); err != nil {
		log.Warn(ctx, "cannot publish lifecycle event", "err", err, "topic", topic)
	}
}
