package archive

import (
	"context"
	"time"
)

// TurnRecord is one archived conversational turn.
type TurnRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportRecord is a dispatched final report, archived as raw payload bytes.
type ReportRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists transcripts and dispatched reports for later review.
// Archive writes are best-effort: a failure never blocks a session.
type Store interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
	SaveReport(ctx context.Context, record ReportRecord) error
	Close() error
}
