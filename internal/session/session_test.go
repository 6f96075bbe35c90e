package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssisim/agent-sim-platform/internal/cache"
)

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := Cached(cache.NewMemoryCache(), time.Minute)

	payload := QRPayload{
		InvitationID:  "f00dfeed18c2a9b3",
		InvitationURL: "sim://oob/f00dfeed18c2a9b3?alias=holder&label=holder",
		InviteCode:    "12345",
		Label:         "holder",
		Alias:         "holder",
	}
	key, err := mgr.Set(ctx, payload)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, key)

	got, err := mgr.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSessionUnknownKey(t *testing.T) {
	mgr := Cached(cache.NewMemoryCache(), time.Minute)
	_, err := mgr.Get(context.Background(), uuid.New())
	assert.Error(t, err)
}
