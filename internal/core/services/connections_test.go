package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/core/ports"
	"github.com/ssisim/agent-sim-platform/internal/db"
	"github.com/ssisim/agent-sim-platform/internal/event"
	"github.com/ssisim/agent-sim-platform/internal/pubsub"
)

func newConnectionService(connRepo *fakeConnections, sessions *fakeSessions) *connection {
	return NewConnection(connRepo, &db.Storage{}, sessions, pubsub.NewNoop(), 5).(*connection)
}

func TestCreateInvitation(t *testing.T) {
	ctx := context.Background()
	connRepo := newFakeConnections()
	sessions := newFakeSessions()
	svc := newConnectionService(connRepo, sessions)

	t.Run("defaults label and alias", func(t *testing.T) {
		inv, err := svc.CreateInvitation(ctx, "", "  ")
		require.NoError(t, err)
		assert.NotEmpty(t, inv.InvitationID)
		assert.Len(t, inv.InviteCode, 5)
		assert.True(t, strings.HasPrefix(inv.InvitationURL, "sim://oob/"))
		assert.Contains(t, inv.InvitationURL, "label=holder")
		assert.Contains(t, inv.InvitationURL, "alias=holder")
	})

	t.Run("stores a pending connection", func(t *testing.T) {
		inv, err := svc.CreateInvitation(ctx, "acme", "employee")
		require.NoError(t, err)

		conn, err := connRepo.GetByInviteCode(ctx, nil, inv.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInvitationCreated, conn.Status)
		assert.Equal(t, "acme", conn.Label)
		assert.Equal(t, "employee", conn.Alias)
		assert.Empty(t, conn.ConnectionID)
	})

	t.Run("qr payload retrievable by key", func(t *testing.T) {
		inv, err := svc.CreateInvitation(ctx, "acme", "employee")
		require.NoError(t, err)

		payload, err := svc.InvitationQR(ctx, inv.QRKey)
		require.NoError(t, err)
		assert.Equal(t, inv.InvitationID, payload.InvitationID)
		assert.Equal(t, inv.InviteCode, payload.InviteCode)
		assert.Equal(t, inv.InvitationURL, payload.InvitationURL)
	})
}

func TestReceiveInvitation(t *testing.T) {
	ctx := context.Background()
	connRepo := newFakeConnections()
	svc := newConnectionService(connRepo, newFakeSessions())

	inv, err := svc.CreateInvitation(ctx, "acme", "employee")
	require.NoError(t, err)

	t.Run("by invite code", func(t *testing.T) {
		connectionID, err := svc.ReceiveInvitation(ctx, inv.InviteCode)
		require.NoError(t, err)
		assert.NotEmpty(t, connectionID)

		conn, err := connRepo.GetByInviteCode(ctx, nil, inv.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConnected, conn.Status)
		assert.Equal(t, connectionID, conn.ConnectionID)
	})

	t.Run("re-accepting keeps the connection id", func(t *testing.T) {
		first, err := svc.ReceiveInvitation(ctx, inv.InviteCode)
		require.NoError(t, err)
		second, err := svc.ReceiveInvitation(ctx, inv.InviteCode)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("by invitation url", func(t *testing.T) {
		inv2, err := svc.CreateInvitation(ctx, "acme", "employee")
		require.NoError(t, err)

		connectionID, err := svc.ReceiveInvitation(ctx, inv2.InvitationURL)
		require.NoError(t, err)
		assert.NotEmpty(t, connectionID)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := svc.ReceiveInvitation(ctx, "   ")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := svc.ReceiveInvitation(ctx, "http://example.com/nope")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown invite code", func(t *testing.T) {
		_, err := svc.ReceiveInvitation(ctx, "00000")
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})
}

func TestConnectionEventsPublished(t *testing.T) {
	ctx := context.Background()
	pub := &capturingPublisher{}
	svc := NewConnection(newFakeConnections(), &db.Storage{}, newFakeSessions(), pub, 5)

	inv, err := svc.CreateInvitation(ctx, "", "")
	require.NoError(t, err)
	connectionID, err := svc.ReceiveInvitation(ctx, inv.InviteCode)
	require.NoError(t, err)

	require.Len(t, pub.published, 2)
	assert.Equal(t, event.TopicConnectionCreated, pub.published[0].topic)
	assert.Equal(t, string(domain.StatusInvitationCreated), pub.published[0].event.Status)
	assert.Equal(t, event.TopicConnectionEstablished, pub.published[1].topic)
	assert.Equal(t, connectionID, pub.published[1].event.ConnectionID)
	assert.Equal(t, string(domain.StatusConnected), pub.published[1].event.Status)
}

func TestListConnectionsCapsAtFifty(t *testing.T) {
	ctx := context.Background()
	connRepo := newFakeConnections()
	svc := newConnectionService(connRepo, newFakeSessions())

	for i := 0; i <= ports.ListLimit; i++ {
		conn := domain.NewConnection(fmt.Sprintf("inv-%d", i), fmt.Sprintf("%05d", 10000+i), "holder", "holder")
		require.NoError(t, connRepo.Save(ctx, nil, conn))
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, ports.ListLimit)
}

func TestInvitationQRNotFound(t *testing.T) {
	svc := newConnectionService(newFakeConnections(), newFakeSessions())
	_, err := svc.InvitationQR(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrQRPayloadNotFound)
}
