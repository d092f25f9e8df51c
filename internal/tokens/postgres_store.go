package tokens

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ask_saturation/internal/models"
)

var tokensSchema = []string{`
CREATE TABLE IF NOT EXISTS tokens (
    id                   TEXT        NOT NULL,
    session_id           TEXT        NOT NULL,
    center_name          TEXT        NOT NULL,
    requester_name       TEXT        NOT NULL,
    wait_minutes         INTEGER     NOT NULL,
    issued_at            TIMESTAMPTZ NOT NULL,
    estimated_service_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS tokens_session_idx ON tokens (session_id, issued_at)`,
}

// PostgresStore keeps tokens in the tokens table. Token numbers are only
// four digits, so id is not unique on its own.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range tokensSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error creating tokens table: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, session string, t models.Token) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO tokens (id, session_id, center_name, requester_name, wait_minutes, issued_at, estimated_service_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, session, t.CenterName, t.RequesterName, t.WaitMinutes, t.IssuedAt, t.EstimatedServiceTime)
	if err != nil {
		return fmt.Errorf("insert token %s: %w", t.ID, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, session string) ([]models.Token, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT id, center_name, requester_name, wait_minutes, issued_at, estimated_service_at
        FROM tokens
        WHERE session_id = $1
        ORDER BY issued_at`, session)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}

	list, err := pgx.CollectRows(rows, scanToken)
	if err != nil {
		return nil, fmt.Errorf("scan tokens: %w", err)
	}
	if list == nil {
		list = []models.Token{}
	}
	return list, nil
}

func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func scanToken(row pgx.CollectableRow) (models.Token, error) {
	var t models.Token
	err := row.Scan(&t.ID, &t.CenterName, &t.RequesterName, &t.WaitMinutes, &t.IssuedAt, &t.EstimatedServiceTime)
	return t, err
}
