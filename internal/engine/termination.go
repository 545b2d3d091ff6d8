package engine

import "github.com/thedefenders/honeytrap/internal/session"

// ShouldEnd is the termination policy: a pure function of session state.
// The sole trigger is the turn ceiling; intelligence coverage is tracked for
// diagnostics but never ends a session early.
func ShouldEnd(s *session.Session, maxTurns int) bool {
	if !s.ScamDetected() {
		return false
	}
	return s.Turns() >= maxTurns
}
