package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists transcripts and reports in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS honeypot_turns (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			sender TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_honeypot_turns_session_created ON honeypot_turns (session_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS honeypot_reports (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_honeypot_reports_session ON honeypot_reports (session_id);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveTurn(ctx context.Context, record TurnRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO honeypot_turns (id, session_id, sender, text, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		record.ID,
		record.SessionID,
		record.Sender,
		record.Text,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save turn: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, sender, text, created_at
		 FROM honeypot_turns WHERE session_id=$1 ORDER BY created_at DESC LIMIT $2`,
		sessionID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent turns: %w", err)
	}
	defer rows.Close()

	items := make([]TurnRecord, 0, limit)
	for rows.Next() {
		var r TurnRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Sender, &r.Text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn row: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn rows: %w", err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	return items, nil
}

func (s *PostgresStore) SaveReport(ctx context.Context, record ReportRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO honeypot_reports (id, session_id, payload, created_at)
		 VALUES ($1, $2, $3, $4)`,
		record.ID,
		record.SessionID,
		record.Payload,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
