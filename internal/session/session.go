// Package session keeps short lived invitation payloads retrievable by an
// opaque key, so invitations can be rendered as QR codes after creation.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ssisim/agent-sim-platform/internal/cache"
)

const keyPrefix = "qr-store-"

// QRPayload is the invitation content served to QR renderers.
type QRPayload struct {
	InvitationID  string `json:"invitationId"`
	InvitationURL string `json:"invitationUrl"`
	InviteCode    string `json:"inviteCode"`
	Label         string `json:"label"`
	Alias         string `json:"alias"`
}

// Manager defines the interface for managing invitation QR sessions
type Manager interface {
	Get(ctx context.Context, key uuid.UUID) (QRPayload, error)
	Set(ctx context.Context, value QRPayload) (uuid.UUID, error)
}

type cached struct {
	cache cache.Cache
	ttl   time.Duration
}

// Cached returns a new cached manager
func Cached(c cache.Cache, ttl time.Duration) Manager {
	return &cached{cache: c, ttl: ttl}
}

// Get returns the stored invitation payload
func (c *cached) Get(ctx context.Context, key uuid.UUID) (QRPayload, error) {
	var payload QRPayload
	found := c.cache.Get(ctx, keyPrefix+key.String(), &payload)
	if !found {
		return payload, fmt.Errorf("invitation qr payload not found")
	}
	return payload, nil
}

// Set stores the given invitation payload and returns the key to fetch it
func (c *cached) Set(ctx context.Context, value QRPayload) (uuid.UUID, error) {
	key := uuid.New()
	if err := c.cache.Set(ctx, keyPrefix+key.String(), value, c.ttl); err != nil {
		return uuid.Nil, err
	}
	return key, nil
}
