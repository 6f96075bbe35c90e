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

// ErrCredentialDoesNotExist credential does not exist
var ErrCredentialDoesNotExist = errors.New("credential does not exist")

type dbCredential struct {
	ID           uuid.UUID
	ConnectionID string
	Type         string
	Status       string
	Claims       pgtype.JSONB
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type credentials struct{}

// NewCredentials returns a new credentials repository
func NewCredentials() ports.CredentialRepository {
	return &credentials{}
}

// Save stores the given credential in the database. Claims are stored
// verbatim as jsonb.
func (c *credentials) Save(ctx context.Context, conn db.Querier, credential *domain.Credential) error {
	claims := pgtype.JSONB{}
	if err := claims.Set(credential.Claims); err != nil {
		return fmt.Errorf("cannot set claims: %w", err)
	}
	query := `INSERT INTO credentials (id, connection_id, type, status, claims, created_at, updated_at)
			VALUES($1, $2, $3, $4, $5, $6, $7)`
	_, err := conn.Exec(ctx, query,
		credential.ID,
		credential.ConnectionID,
		credential.Type,
		string(credential.Status),
		claims,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	return err
}

// Update persists the status of an existing credential
func (c *credentials) Update(ctx context.Context, conn db.Querier, credential *domain.Credential) error {
	query := `UPDATE credentials SET status = $2, updated_at = $3 WHERE id = $1`
	cmd, err := conn.Exec(ctx, query, credential.ID, string(credential.Status), credential.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCredentialDoesNotExist
	}
	return nil
}

// GetByID returns the credential with the given id
func (c *credentials) GetByID(ctx context.Context, conn db.Querier, id uuid.UUID) (*domain.Credential, error) {
	query := `SELECT id, connection_id, type, status, claims, created_at, updated_at
			FROM credentials WHERE id = $1`
	row := dbCredential{}
	err := conn.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.ConnectionID,
		&row.Type,
		&row.Status,
		&row.Claims,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialDoesNotExist
		}
		return nil, err
	}
	return toCredentialDomain(&row)
}

// ListRecent returns up to limit credentials ordered by creation time descending
func (c *credentials) ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.Credential, error) {
	query := `SELECT id, connection_id, type, status, claims, created_at, updated_at
			FROM credentials ORDER BY ` + recentFirst() + ` LIMIT $1`
	rows, err := conn.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make([]*domain.Credential, 0)
	for rows.Next() {
		row := dbCredential{}
		if err := rows.Scan(&row.ID, &row.ConnectionID, &row.Type, &row.Status, &row.Claims, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		credential, err := toCredentialDomain(&row)
		if err != nil {
			return nil, err
		}
		all = append(all, credential)
	}
	return all, rows.Err()
}

func toCredentialDomain(row *dbCredential) (*domain.Credential, error) {
	claims := domain.Claims{}
	if row.Claims.Status == pgtype.Present {
		if err := json.Unmarshal(row.Claims.Bytes, &claims); err != nil {
			return nil, fmt.Errorf("cannot unmarshal claims: %w", err)
		}
	}
	return &domain.Credential{
		ID:           row.ID,
		ConnectionID: row.ConnectionID,
		Type:         row.Type,
		Status:       domain.Status(row.Status),
		Claims:       claims,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
