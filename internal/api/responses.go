package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/ssisim/agent-sim-platform/internal/common"
	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/core/services"
	"github.com/ssisim/agent-sim-platform/internal/timeapi"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateInvitationResponse carries the invitation artifacts.
type CreateInvitationResponse struct {
	InviteCode    string `json:"inviteCode"`
	InvitationID  string `json:"invitationId"`
	InvitationURL string `json:"invitationUrl"`
	QRCodeLink    string `json:"qrCodeLink"`
}

// ReceiveInvitationResponse carries the established connection identifier.
type ReceiveInvitationResponse struct {
	OK           bool   `json:"ok"`
	ConnectionID string `json:"connectionId"`
}

// IssueCredentialResponse carries the new credential identifier.
type IssueCredentialResponse struct {
	OK           bool      `json:"ok"`
	CredentialID uuid.UUID `json:"credentialId"`
}

// SendProofRequestResponse carries the new proof request identifier.
type SendProofRequestResponse struct {
	OK             bool      `json:"ok"`
	ProofRequestID uuid.UUID `json:"proofRequestId"`
}

// PresentProofResponse reports the simulated verification outcome, which is
// always positive.
type PresentProofResponse struct {
	OK       bool `json:"ok"`
	Verified bool `json:"verified"`
}

// HealthResponse is the liveness body.
type HealthResponse struct {
	OK   bool         `json:"ok"`
	Time timeapi.Time `json:"time"`
}

// ConnectionItem is the listing shape of a connection. ConnectionID is
// null until the holder accepts the invitation.
type ConnectionItem struct {
	ID           uuid.UUID    `json:"id"`
	InvitationID string       `json:"invitationId"`
	InviteCode   string       `json:"inviteCode"`
	Label        string       `json:"label"`
	Alias        string       `json:"alias"`
	ConnectionID *string      `json:"connectionId,omitempty"`
	Status       string       `json:"status"`
	CreatedAt    timeapi.Time `json:"createdAt"`
	UpdatedAt    timeapi.Time `json:"updatedAt"`
}

// CredentialItem is the listing shape of a credential.
type CredentialItem struct {
	ID           uuid.UUID     `json:"id"`
	ConnectionID string        `json:"connectionId"`
	Type         string        `json:"type"`
	Status       string        `json:"status"`
	Claims       domain.Claims `json:"claims"`
	CreatedAt    timeapi.Time  `json:"createdAt"`
	UpdatedAt    timeapi.Time  `json:"updatedAt"`
}

// ProofRequestItem is the listing shape of a proof request.
type ProofRequestItem struct {
	ID           uuid.UUID          `json:"id"`
	ConnectionID string             `json:"connectionId"`
	Request      domain.RequestSpec `json:"request"`
	Status       string             `json:"status"`
	CreatedAt    timeapi.Time       `json:"createdAt"`
	UpdatedAt    timeapi.Time       `json:"updatedAt"`
}

// PresentationItem is the listing shape of a presentation.
type PresentationItem struct {
	ID             uuid.UUID     `json:"id"`
	ProofRequestID uuid.UUID     `json:"proofRequestId"`
	CredentialID   uuid.UUID     `json:"credentialId"`
	Revealed       domain.Claims `json:"revealed"`
	Status         string        `json:"status"`
	CreatedAt      timeapi.Time  `json:"createdAt"`
}

// ListResponse wraps listing items.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

func connectionItems(all []*domain.Connection) []ConnectionItem {
	items := make([]ConnectionItem, 0, len(all))
	for _, c := range all {
		item := ConnectionItem{
			ID:           c.ID,
			InvitationID: c.InvitationID,
			InviteCode:   c.InviteCode,
			Label:        c.Label,
			Alias:        c.Alias,
			Status:       string(c.Status),
			CreatedAt:    timeapi.Time(c.CreatedAt),
			UpdatedAt:    timeapi.Time(c.UpdatedAt),
		}
		if c.ConnectionID != "" {
			item.ConnectionID = common.ToPointer(c.ConnectionID)
		}
		items = append(items, item)
	}
	return items
}

func credentialItems(all []*domain.Credential) []CredentialItem {
	items := make([]CredentialItem, 0, len(all))
	for _, c := range all {
		items = append(items, CredentialItem{
			ID:           c.ID,
			ConnectionID: c.ConnectionID,
			Type:         c.Type,
			Status:       string(c.Status),
			Claims:       c.Claims,
			CreatedAt:    timeapi.Time(c.CreatedAt),
			UpdatedAt:    timeapi.Time(c.UpdatedAt),
		})
	}
	return items
}

func proofRequestItems(all []*domain.ProofRequest) []ProofRequestItem {
	items := make([]ProofRequestItem, 0, len(all))
	for _, p := range all {
		items = append(items, ProofRequestItem{
			ID:           p.ID,
			ConnectionID: p.ConnectionID,
			Request:      p.Request,
			Status:       string(p.Status),
			CreatedAt:    timeapi.Time(p.CreatedAt),
			UpdatedAt:    timeapi.Time(p.UpdatedAt),
		})
	}
	return items
}

func presentationItems(all []*domain.Presentation) []PresentationItem {
	items := make([]PresentationItem, 0, len(all))
	for _, p := range all {
		items = append(items, PresentationItem{
			ID:             p.ID,
			ProofRequestID: p.ProofRequestID,
			CredentialID:   p.CredentialID,
			Revealed:       p.Revealed,
			Status:         string(p.Status),
			CreatedAt:      timeapi.Time(p.CreatedAt),
		})
	}
	return items
}

// writeErr maps the service error taxonomy to http statuses: validation
// errors map to 400, not-found errors to 404, everything else to 500.
func writeErr(w http.ResponseWriter, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond(w, http.StatusBadRequest, ErrorResponse{Error: vErr.Message})
	case errors.Is(err, services.ErrInvitationNotFound),
		errors.Is(err, services.ErrCredentialNotFound),
		errors.Is(err, services.ErrQRPayloadNotFound):
		respond(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		respond(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeBody tolerates an absent body, matching the permissive behavior of
// the simulated agents.
func decodeBody(r *http.Request, into any) error {
	err := json.NewDecoder(r.Body).Decode(into)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
