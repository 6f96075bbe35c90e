package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/ssisim/agent-sim-platform/internal/core/domain"
	"github.com/ssisim/agent-sim-platform/internal/core/ports"
	"github.com/ssisim/agent-sim-platform/internal/db"
)

// ErrConnectionDoesNotExist connection does not exist
var ErrConnectionDoesNotExist = errors.New("connection does not exist")

// ErrDuplicateInvite is returned when the random invitation id or invite
// code collides with an existing row.
var ErrDuplicateInvite = errors.New("invitation id or invite code already exists")

const uniqueViolationCode = "23505"

type dbConnection struct {
	ID           uuid.UUID
	InvitationID string
	InviteCode   string
	Label        string
	Alias        string
	ConnectionID sql.NullString
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type connections struct{}

// NewConnections returns a new connections repository
func NewConnections() ports.ConnectionRepository {
	return &connections{}
}

// Save stores the given connection in the database
func (c *connections) Save(ctx context.Context, conn db.Querier, connection *domain.Connection) error {
	query := `INSERT INTO connections (id, invitation_id, invite_code, label, alias, connection_id, status, created_at, updated_at)
			VALUES($1, $2, $3, $4, $5, NULLIF($6,''), $7, $8, $9)`
	_, err := conn.Exec(ctx, query,
		connection.ID,
		connection.InvitationID,
		connection.InviteCode,
		connection.Label,
		connection.Alias,
		connection.ConnectionID,
		string(connection.Status),
		connection.CreatedAt,
		connection.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateInvite
		}
		return err
	}
	return nil
}

// Update persists the mutable fields of an existing connection
func (c *connections) Update(ctx context.Context, conn db.Querier, connection *domain.Connection) error {
	query := `UPDATE connections
			SET connection_id = NULLIF($2,''), status = $3, updated_at = $4
			WHERE id = $1`
	cmd, err := conn.Exec(ctx, query, connection.ID, connection.ConnectionID, string(connection.Status), connection.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConnectionDoesNotExist
	}
	return nil
}

// GetByInviteCode returns the connection holding the given invite code
func (c *connections) GetByInviteCode(ctx context.Context, conn db.Querier, code string) (*domain.Connection, error) {
	return c.getBy(ctx, conn, "invite_code", code)
}

// GetByInvitationID returns the connection holding the given invitation identifier
func (c *connections) GetByInvitationID(ctx context.Context, conn db.Querier, invitationID string) (*domain.Connection, error) {
	return c.getBy(ctx, conn, "invitation_id", invitationID)
}

func (c *connections) getBy(ctx context.Context, conn db.Querier, field, value string) (*domain.Connection, error) {
	query := fmt.Sprintf(`SELECT id, invitation_id, invite_code, label, alias, connection_id, status, created_at, updated_at
			FROM connections WHERE %s = $1`, field)
	row := dbConnection{}
	err := conn.QueryRow(ctx, query, value).Scan(
		&row.ID,
		&row.InvitationID,
		&row.InviteCode,
		&row.Label,
		&row.Alias,
		&row.ConnectionID,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConnectionDoesNotExist
		}
		return nil, err
	}
	return toConnectionDomain(&row), nil
}

// ListRecent returns up to limit connections ordered by creation time descending
func (c *connections) ListRecent(ctx context.Context, conn db.Querier, limit int) ([]*domain.Connection, error) {
	query := `SELECT id, invitation_id, invite_code, label, alias, connection_id, status, created_at, updated_at
			FROM connections ORDER BY ` + recentFirst() + ` LIMIT $1`
	rows, err := conn.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make([]*domain.Connection, 0)
	for rows.Next() {
		row := dbConnection{}
		if err := rows.Scan(&row.ID, &row.InvitationID, &row.InviteCode, &row.Label, &row.Alias, &row.ConnectionID, &row.Status, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		all = append(all, toConnectionDomain(&row))
	}
	return all, rows.Err()
}

func toConnectionDomain(row *dbConnection) *domain.Connection {
	return &domain.Connection{
		ID:           row.ID,
		InvitationID: row.InvitationID,
		InviteCode:   row.InviteCode,
		Label:        row.Label,
		Alias:        row.Alias,
		ConnectionID: row.ConnectionID.String,
		Status:       domain.Status(row.Status),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
