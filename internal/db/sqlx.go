package db

import (
	"github.com/jmoiron/sqlx"
)

// Sqlx is a db conn over database/sql, used where a *sql.DB is required
// (the goose migration runner, mainly).
type Sqlx struct {
	DB *sqlx.DB
}

// NewSqlx opens a database connection and returns it
func NewSqlx(datasource string) (*Sqlx, error) {
	db, err := sqlx.Connect("postgres", datasource)
	if err != nil {
		return nil, err
	}
	return &Sqlx{DB: db}, nil
}
