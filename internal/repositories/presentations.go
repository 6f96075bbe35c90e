package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/core/ports"
	"github.com/ssisim/agent-sim-platform/internal/db"
)

type dbPresentation struct {
	ID             uuid.UUID
	ProofRequestID uuid.UUID
	CredentialID   uuid.UUID
	Revealed       pgtype.JSONB
	Status         string
	CreatedAt      time.Time
}

type presentations struct{}

// NewPresentations returns a new presentations repository
func NewPresentations() ports.PresentationRepository {
	return &presentations{}
}

// Save stores the given presentation. Presentations are immutable; there is
// no update path.
func (p *presentations) Save(ctx context.Context, conn db.Querier, presentation *domain.Presentation) error {
	revealed := pgtype.JSONB{}
	if err := revealed.Set(presentation.Revealed); err != nil {
		return fmt.Errorf("cannot set revealed claims: %w", err)
	}
	query := `INSERT INTO presentations (id, proof_request_id, credential_id, revealed, status, created_at)
			VALUES($1, $2, $3, $4, $5, $6)`
	_, err := conn.Exec(ctx, query,
		presentation.ID,
		presentation.ProofRequestID,
		presentation.CredentialID,
		revealed,
		string(presentation.Status),
		presentation.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit presentations ordered by creation time descending
func (p *presentations) ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.Presentation, error) {
	query := `SELECT id, proof_request_id, credential_id, revealed, status, created_at
			FROM presentations ORDER BY ` + recentFirst() + ` LIMIT $1`
	rows, err := conn.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make([]*domain.Presentation, 0)
	for rows.Next() {
		row := dbPresentation{}
		if err := rows.Scan(&row.ID, &row.ProofRequestID, &row.CredentialID, &row.Revealed, &row.Status, &row.CreatedAt); err != nil {
			return nil, err
		}
		presentation, err := toPresentationDomain(&row)
		if err != nil {
			return nil, err
		}
		all = append(all, presentation)
	}
	return all, rows.Err()
}

func toPresentationDomain(row *dbPresentation) (*domain.Presentation, error) {
	revealed := domain.Claims{}
	if row.Revealed.Status == pgtype.Present {
		if err := json.Unmarshal(row.Revealed.Bytes, &revealed); err != nil {
			return nil, fmt.Errorf("cannot unmarshal revealed claims: %w", err)
		}
	}
	return &domain.Presentation{
		ID:             row.ID,
		ProofRequestID: row.ProofRequestID,
		CredentialID:   row.CredentialID,
		Revealed:       revealed,
		Status:         domain.Status(row.Status),
		CreatedAt:      row.CreatedAt,
	}, nil
}
