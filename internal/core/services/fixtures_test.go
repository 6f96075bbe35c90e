package services

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/db"
	"github.com/ssisim/agent-sim-platform/internal/event"
	"github.com/ssisim/agent-sim-platform/internal/pubsub"
	"github.com/ssisim/agent-sim-platform/internal/repositories"
	"github.com/ssisim/agent-sim-platform/internal/session"
)

// In-memory repositories backing the service tests. They honor the same
// error contract as the postgres implementations.

type fakeConnections struct {
	rows map[uuid.UUID]*domain.Connection
}

func newFakeConnections() *fakeConnections {
	return &fakeConnections{rows: make(map[uuid.UUID]*domain.Connection)}
}

func (f *fakeConnections) Save(_ context.Context, _ db.Querier, connection *domain.Connection) error {
	for _, row := range f.rows {
		if row.InviteCode == connection.InviteCode || row.InvitationID == connection.InvitationID {
			return repositories.ErrDuplicateInvite
		}
	}
	cp := *connection
	f.rows[connection.ID] = &cp
	return nil
}

func (f *fakeConnections) Update(_ context.Context, _ db.Querier, connection *domain.Connection) error {
	if _, found := f.rows[connection.ID]; !found {
		return repositories.ErrConnectionDoesNotExist
	}
	cp := *connection
	f.rows[connection.ID] = &cp
	return nil
}

func (f *fakeConnections) GetByInviteCode(_ context.Context, _ db.Querier, code string) (*domain.Connection, error) {
	for _, row := range f.rows {
		if row.InviteCode == code {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repositories.ErrConnectionDoesNotExist
}

func (f *fakeConnections) GetByInvitationID(_ context.Context, _ db.Querier, invitationID string) (*domain.Connection, error) {
	for _, row := range f.rows {
		if row.InvitationID == invitationID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repositories.ErrConnectionDoesNotExist
}

func (f *fakeConnections) ListRecent(_ context.Context, _ db.Querier, limit int) ([]*domain.Connection, error) {
	all := make([]*domain.Connection, 0, len(f.rows))
	for _, row := range f.rows {
		cp := *row
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeCredentials struct {
	rows map[uuid.UUID]*domain.Credential
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{rows: make(map[uuid.UUID]*domain.Credential)}
}

func (f *fakeCredentials) Save(_ context.Context, _ db.Querier, credential *domain.Credential) error {
	cp := *credential
	f.rows[credential.ID] = &cp
	return nil
}

func (f *fakeCredentials) Update(_ context.Context, _ db.Querier, credential *domain.Credential) error {
	if _, found := f.rows[credential.ID]; !found {
		return repositories.ErrCredentialDoesNotExist
	}
	cp := *credential
	f.rows[credential.ID] = &cp
	return nil
}

func (f *fakeCredentials) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*domain.Credential, error) {
	row, found := f.rows[id]
	if !found {
		return nil, repositories.ErrCredentialDoesNotExist
	}
	cp := *row
	return &cp, nil
}

func (f *fakeCredentials) ListRecent(_ context.Context, _ db.Querier, limit int) ([]*domain.Credential, error) {
	all := make([]*domain.Credential, 0, len(f.rows))
	for _, row := range f.rows {
		cp := *row
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeProofRequests struct {
	rows map[uuid.UUID]*domain.ProofRequest
}

func newFakeProofRequests() *fakeProofRequests {
	return &fakeProofRequests{rows: make(map[uuid.UUID]*domain.ProofRequest)}
}

func (f *fakeProofRequests) Save(_ context.Context, _ db.Querier, request *domain.ProofRequest) error {
	cp := *request
	f.rows[request.ID] = &cp
	return nil
}

func (f *fakeProofRequests) Update(_ context.Context, _ db.Querier, request *domain.ProofRequest) error {
	if _, found := f.rows[request.ID]; !found {
		return repositories.ErrProofRequestDoesNotExist
	}
	cp := *request
	f.rows[request.ID] = &cp
	return nil
}

func (f *fakeProofRequests) GetByID(_ context.Context, _ db.Querier, id uuid.UUID) (*domain.ProofRequest, error) {
	row, found := f.rows[id]
	if !found {
		return nil, repositories.ErrProofRequestDoesNotExist
	}
	cp := *row
	return &cp, nil
}

func (f *fakeProofRequests) ListRecent(_ context.Context, _ db.Querier, limit int) ([]*domain.ProofRequest, error) {
	all := make([]*domain.ProofRequest, 0, len(f.rows))
	for _, row := range f.rows {
		cp := *row
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakePresentations struct {
	rows map[uuid.UUID]*domain.Presentation
}

func newFakePresentations() *fakePresentations {
	return &fakePresentations{rows: make(map[uuid.UUID]*domain.Presentation)}
}

func (f *fakePresentations) Save(_ context.Context, _ db.Querier, presentation *domain.Presentation) error {
	cp := *presentation
	f.rows[presentation.ID] = &cp
	return nil
}

func (f *fakePresentations) ListRecent(_ context.Context, _ db.Querier, limit int) ([]*domain.Presentation, error) {
	all := make([]*domain.Presentation, 0, len(f.rows))
	for _, row := range f.rows {
		cp := *row
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// capturingPublisher records every published lifecycle event in order.
type capturingPublisher struct {
	published []capturedEvent
}

type capturedEvent struct {
	topic string
	event event.Lifecycle
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, payload pubsub.Event) error {
	msg, err := payload.Marshal()
	if err != nil {
		return err
	}
	var ev event.Lifecycle
	if err := ev.Unmarshal(msg); err != nil {
		return err
	}
	p.published = append(p.published, capturedEvent{topic: topic, event: ev})
	return nil
}

type fakeSessions struct {
	payloads map[uuid.UUID]session.QRPayload
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{payloads: make(map[uuid.UUID]session.QRPayload)}
}

func (f *fakeSessions) Get(_ context.Context, key uuid.UUID) (session.QRPayload, error) {
	payload, found := f.payloads[key]
	if !found {
		return session.QRPayload{}, errors.New("not found")
	}
	return payload, nil
}

func (f *fakeSessions) Set(_ context.Context, value session.QRPayload) (uuid.UUID, error) {
	key := uuid.New()
	f.payloads[key] = value
	return key, nil
}
