package postgres

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"insurevis/internal/config"
)

// NewDB creates a new PostgreSQL connection pool.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// roleColumnPrefix returns the column prefix of a reviewer role's fields.
// Only reviewer roles are accepted so the prefix is safe to interpolate.
func roleColumnPrefix(role string) (string, error) {
	switch role {
	case "car_company", "insurance_company":
		return role, nil
	}
	return "", fmt.Errorf("unsupported reviewer role %q", role)
}
