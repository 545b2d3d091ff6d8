package session

import (
	"sync"
	"time"

	"github.com/thedefenders/honeytrap/internal/brain"
	"github.com/thedefenders/honeytrap/internal/intel"
)

// Phase is the session lifecycle stage. Transitions are monotonic:
// awaiting_classification -> engaged -> closed.
type Phase string

const (
	PhaseAwaitingClassification Phase = "awaiting_classification"
	PhaseEngaged                Phase = "engaged"
	PhaseClosed                 Phase = "closed"
)

// Sender tags which side of the conversation authored a turn.
type Sender string

const (
	SenderExternal Sender = "external"
	SenderAgent    Sender = "agent"
)

// Turn is one authored message within a conversation.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds all per-conversation state. Callers must serialize access
// through Lock/Unlock; the engine processes one message per session at a time.
type Session struct {
	mu sync.Mutex

	ID           string
	Phase        Phase
	Conversation []Turn
	Metadata     map[string]any

	// Classification is the verdict that caused the engagement handoff,
	// frozen for the rest of the session's lifetime.
	Classification *brain.Verdict
	ScamCategory   brain.Category
	Confidence     float64

	Intel *intel.Store

	TotalMessages       int
	EngagementStartedAt time.Time
	LastMessageAt       time.Time

	// ReportSent flips once, on confirmed report delivery.
	ReportSent bool
	// ReportDispatched guards the dispatch goroutine from being launched twice.
	ReportDispatched bool
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// ScamDetected reports whether the session ever left the classification phase.
func (s *Session) ScamDetected() bool {
	return s.Phase != PhaseAwaitingClassification
}

// Turns is the number of completed conversational turns, pairing one external
// and one agent message each.
func (s *Session) Turns() int {
	return s.TotalMessages / 2
}

// Append records a turn and updates the message counters.
func (s *Session) Append(t Turn) {
	s.Conversation = append(s.Conversation, t)
	s.TotalMessages++
	s.LastMessageAt = time.Now().UTC()
}

// RecentTurns returns up to limit of the most recent turns in order.
func (s *Session) RecentTurns(limit int) []Turn {
	if limit <= 0 || limit >= len(s.Conversation) {
		return s.Conversation
	}
	return s.Conversation[len(s.Conversation)-limit:]
}
