// Package api exposes the simulation over a REST surface. Routes are
// grouped by the simulated role performing them: issuer, holder, verifier.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/core/ports"
	"github.com/ssisim/agent-sim-platform/internal/health"
	"github.com/ssisim/agent-sim-platform/internal/timeapi"
)

const rootBanner = "SSI feature phone simulation API running"

// Server holds the services behind the http handlers.
type Server struct {
	connections ports.ConnectionService
	credentials ports.CredentialService
	proofs      ports.ProofService
	health      *health.Status
	serverURL   string
}

// NewServer returns a Server. serverURL, when set, prefixes the QR code
// link handed back on invitation creation.
func NewServer(connections ports.ConnectionService, credentials ports.CredentialService, proofs ports.ProofService, h *health.Status, serverURL string) *Server {
	return &Server{
		connections: connections,
		credentials: credentials,
		proofs:      proofs,
		health:      h,
		serverURL:   serverURL,
	}
}

// Routes attaches every handler to the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.root)
	r.Get("/status", s.status)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.healthCheck)
		r.Get("/qr-store", s.qrStore)

		r.Post("/issuer/create-invitation", s.createInvitation)
		r.Post("/issuer/issue-credential", s.issueCredential)

		r.Post("/holder/receive-invitation", s.receiveInvitation)
		r.Post("/holder/accept-credential", s.acceptCredential)
		r.Post("/holder/present-proof", s.presentProof)

		r.Post("/verifier/send-proof-request", s.sendProofRequest)

		r.Get("/connections", s.listConnections)
		r.Get("/credentials", s.listCredentials)
		r.Get("/proof-requests", s.listProofRequests)
		r.Get("/presentations", s.listPresentations)
	})
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(rootBanner))
}

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, HealthResponse{OK: true, Time: timeapi.Time(time.Now())})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, s.health.Status(r.Context()))
}

func (s *Server) qrStore(w http.ResponseWriter, r *http.Request) {
	key, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "id is required and must be a uuid"})
		return
	}
	payload, err := s.connections.InvitationQR(r.Context(), key)
	if err != nil {
		writeErr(w, err)
		return
	}
	respond(w, http.StatusOK, payload)
}

func (s *Server) createInvitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
		Alias string `json:"alias"`
	}
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	inv, err := s.connections.CreateInvitation(r.Context(), req.Label, req.Alias)
	if err != nil {
		writeErr(w, err)
		return
	}

	respond(w, http.StatusOK, CreateInvitationResponse{
		InviteCode:    inv.InviteCode,
		InvitationID:  inv.InvitationID,
		InvitationURL: inv.InvitationURL,
		QRCodeLink:    s.qrCodeLink(inv.QRKey),
	})
}

func (s *Server) receiveInvitation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteCode    string `json:"inviteCode"`
		InvitationURL string `json:"invitationUrl"`
	}
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	codeOrURL := req.InvitationURL
	if codeOrURL == "" {
		codeOrURL = req.InviteCode
	}
	connectionID, err := s.connections.ReceiveInvitation(r.Context(), codeOrURL)
	if err != nil {
		writeErr(w, err)
		return
	}

	respond(w, http.StatusOK, ReceiveInvitationResponse{OK: true, ConnectionID: connectionID})
}

func (s *Server) issueCredential(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConnectionID string        `json:"connectionId"`
		Claims       domain.Claims `json:"claims"`
	}
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	credentialID, err := s.credentials.Issue(r.Context(), req.ConnectionID, req.Claims)
	if err != nil {
		writeErr(w, err)
		return
	}

	respond(w, http.StatusOK, IssueCredentialResponse{OK: true, CredentialID: credentialID})
}

func (s *Server) acceptCredential(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CredentialID string `json:"credentialId"`
	}
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := s.credentials.Accept(r.Context(), req.CredentialID); err != nil {
		writeErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) sendProofRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConnectionID string             `json:"connectionId"`
		Request      domain.RequestSpec `json:"request"`
	}
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	proofRequestID, err := s.proofs.SendRequest(r.Context(), req.ConnectionID, req.Request)
	if err != nil {
		writeErr(w, err)
		return
	}

	respond(w, http.StatusOK, SendProofRequestResponse{OK: true, ProofRequestID: proofRequestID})
}

func (s *Server) presentProof(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProofRequestID string `json:"proofRequestId"`
		CredentialID   string `json:"credentialId"`
	}
	if err := decodeBody(r, &req); err != nil {
		respond(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if _, err := s.proofs.Present(r.Context(), req.ProofRequestID, req.CredentialID); err != nil {
		writeErr(w, err)
		return
	}

	respond(w, http.StatusOK, PresentProofResponse{OK: true, Verified: true})
}

func (s *Server) listConnections(w http.ResponseWriter, r *http.Request) {
	all, err := s.connections.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	respond(w, http.StatusOK, ListResponse[ConnectionItem]{Items: connectionItems(all)})
}

func (s *Server) listCredentials(w http.ResponseWriter, r *http.Request) {
	all, err := s.credentials.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	respond(w, http.StatusOK, ListResponse[CredentialItem]{Items: credentialItems(all)})
}

func (s *Server) listProofRequests(w http.ResponseWriter, r *http.Request) {
	all, err := s.proofs.ListRequests(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	respond(w, http.StatusOK, ListResponse[ProofRequestItem]{Items: proofRequestItems(all)})
}

func (s *Server) listPresentations(w http.ResponseWriter, r *http.Request) {
	all, err := s.proofs.ListPresentations(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	respond(w, http.StatusOK, ListResponse[PresentationItem]{Items: presentationItems(all)})
}

func (s *Server) qrCodeLink(key uuid.UUID) string {
	return fmt.Sprintf("%s/api/qr-store?id=%s", s.serverURL, key)
}
