package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/core/ports"
	"github.com/ssisim/agent-sim-platform/internal/db"
)

// ErrProofRequestDoesNotExist proof request does not exist
var ErrProofRequestDoesNotExist = errors.New("proof request does not exist")

type dbProofRequest struct {
	ID           uuid.UUID
	ConnectionID string
	Request      pgtype.JSONB
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type proofRequests struct{}

// NewProofRequests returns a new proof requests repository
func NewProofRequests() ports.ProofRequestRepository {
	return &proofRequests{}
}

// Save stores the given proof request in the database
func (p *proofRequests) Save(ctx context.Context, conn db.Querier, request *domain.ProofRequest) error {
	spec := pgtype.JSONB{}
	if err := spec.Set(request.Request); err != nil {
		return fmt.Errorf("cannot set request spec: %w", err)
	}
	query := `INSERT INTO proof_requests (id, connection_id, request, status, created_at, updated_at)
			VALUES($1, $2, $3, $4, $5, $6)`
	_, err := conn.Exec(ctx, query,
		request.ID,
		request.ConnectionID,
		spec,
		string(request.Status),
		request.CreatedAt,
		request.UpdatedAt,
	)
	return err
}

// Update persists the status of an existing proof request
func (p *proofRequests) Update(ctx context.Context, conn db.Querier, request *domain.ProofRequest) error {
	query := `UPDATE proof_requests SET status = $2, updated_at = $3 WHERE id = $1`
	cmd, err := conn.Exec(ctx, query, request.ID, string(request.Status), request.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProofRequestDoesNotExist
	}
	return nil
}

// GetByID returns the proof request with the given id
func (p *proofRequests) GetByID(ctx context.Context, conn db.Querier, id uuid.UUID) (*domain.ProofRequest, error) {
	query := `SELECT id, connection_id, request, status, created_at, updated_at
			FROM proof_requests WHERE id = $1`
	row := dbProofRequest{}
	err := conn.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.ConnectionID,
		&row.Request,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProofRequestDoesNotExist
		}
		return nil, err
	}
	return toProofRequestDomain(&row)
}

// ListRecent returns up to limit proof requests ordered by creation time descending
func (p *proofRequests) ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.ProofRequest, error) {
	query := `SELECT id, connection_id, request, status, created_at, updated_at
			FROM proof_requests ORDER BY ` + recentFirst() + ` LIMIT $1`
	rows, err := conn.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make([]*domain.ProofRequest, 0)
	for rows.Next() {
		row := dbProofRequest{}
		if err := rows.Scan(&row.ID, &row.ConnectionID, &row.Request, &row.Status, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		request, err := toProofRequestDomain(&row)
		if err != nil {
			return nil, err
		}
		all = append(all, request)
	}
	return all, rows.Err()
}

func toProofRequestDomain(row *dbProofRequest) (*domain.ProofRequest, error) {
	spec := domain.RequestSpec{}
	if row.Request.Status == pgtype.Present {
		if err := json.Unmarshal(row.Request.Bytes, &spec); err != nil {
			return nil, fmt.Errorf("cannot unmarshal request spec: %w", err)
		}
	}
	return &domain.ProofRequest{
		ID:           row.ID,
		ConnectionID: row.ConnectionID,
		Request:      spec,
		Status:       domain.Status(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
