package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ptchy/chiabot/internal/ledger"
)

// Postgres stores each session as one JSONB blob keyed by chat ID.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

// RunMigrations creates the sessions table.
func (p *Postgres) RunMigrations(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chia_sessions (
			chat_key BIGINT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func (p *Postgres) Get(ctx context.Context, key int64) (*ledger.Session, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM chia_sessions WHERE chat_key = $1`, key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s ledger.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %d: %w", key, err)
	}
	return &s, nil
}

func (p *Postgres) Put(ctx context.Context, key int64, s *ledger.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO chia_sessions (chat_key, data)
         VALUES ($1, $2)
         ON CONFLICT (chat_key) DO UPDATE
         SET data = EXCLUDED.data, updated_at = CURRENT_TIMESTAMP`,
		key, data,
	)
	return err
}
