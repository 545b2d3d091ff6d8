package engine

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/thedefenders/honeytrap/internal/archive"
	"github.com/thedefenders/honeytrap/internal/brain"
	"github.com/thedefenders/honeytrap/internal/feed"
	"github.com/thedefenders/honeytrap/internal/intel"
	"github.com/thedefenders/honeytrap/internal/observability"
	"github.com/thedefenders/honeytrap/internal/reliability"
	"github.com/thedefenders/honeytrap/internal/report"
	"github.com/thedefenders/honeytrap/internal/session"
)

// Inbound is one message handed to the engine by the intake boundary.
type Inbound struct {
	Text      string
	Sender    string
	Timestamp time.Time
	Metadata  map[string]any
}

// Result is what the intake caller reports back per message.
type Result struct {
	ScamDetected  bool
	SessionClosed bool
	Reply         string
	HasReply      bool
}

// Config tunes the engine. Zero values fall back to the production defaults.
type Config struct {
	MaxTurns         int
	ClassifierWindow int
	ClassifyPolicy   reliability.Policy
	ReplyPolicy      reliability.Policy
}

// Engine sequences classification, engagement and termination for every
// inbound message. Messages for one session are processed strictly one at a
// time under the session mutex; distinct sessions run in parallel.
type Engine struct {
	cfg        Config
	sessions   *session.Store
	brain      brain.Adapter
	dispatcher *report.Dispatcher
	archive    archive.Store
	hub        *feed.Hub
	metrics    *observability.Metrics
}

func New(cfg Config, sessions *session.Store, adapter brain.Adapter, dispatcher *report.Dispatcher, archiveStore archive.Store, hub *feed.Hub, metrics *observability.Metrics) *Engine {
	if cfg.MaxTurns < 1 {
		cfg.MaxTurns = 10
	}
	if cfg.ClassifierWindow < 1 {
		cfg.ClassifierWindow = 8
	}
	if cfg.ClassifyPolicy.MaxAttempts < 1 {
		cfg.ClassifyPolicy = reliability.Policy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond}
	}
	if cfg.ReplyPolicy.MaxAttempts < 1 {
		cfg.ReplyPolicy = reliability.Policy{MaxAttempts: 3, BaseDelay: 400 * time.Millisecond}
	}
	return &Engine{
		cfg:        cfg,
		sessions:   sessions,
		brain:      adapter,
		dispatcher: dispatcher,
		archive:    archiveStore,
		hub:        hub,
		metrics:    metrics,
	}
}

// Process runs one inbound message through the phase state machine. It never
// returns an error for an engagement-path failure; the worst case is a
// scripted fallback or no reply.
func (e *Engine) Process(ctx context.Context, sessionID string, msg Inbound) Result {
	s, created := e.sessions.GetOrCreate(sessionID)
	if created {
		e.metrics.SessionEvents.WithLabelValues("created").Inc()
		e.metrics.ActiveSessions.Inc()
		e.hub.Publish(feed.EventSessionOpened, sessionID, nil)
	}

	s.Lock()
	defer s.Unlock()

	if s.Metadata == nil && msg.Metadata != nil {
		s.Metadata = msg.Metadata
	}

	sender := normalizeSender(msg.Sender)
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	log.Printf("[session %s] incoming message from %s", s.ID, sender)

	turn := session.Turn{Sender: sender, Text: strings.TrimSpace(msg.Text), Timestamp: ts}
	s.Append(turn)
	e.archiveTurn(ctx, s.ID, turn)

	if s.Phase == session.PhaseClosed {
		log.Printf("[session %s] already closed, no further processing", s.ID)
		return Result{ScamDetected: true, SessionClosed: true}
	}

	if s.Phase == session.PhaseAwaitingClassification && sender == session.SenderExternal {
		e.runClassification(ctx, s)
	}

	var res Result
	if s.Phase == session.PhaseEngaged && sender == session.SenderExternal {
		e.extract(s, turn.Text)

		reply := e.generateReply(ctx, s)
		agentTurn := session.Turn{Sender: session.SenderAgent, Text: reply, Timestamp: time.Now().UTC()}
		s.Append(agentTurn)
		e.archiveTurn(ctx, s.ID, agentTurn)
		e.metrics.SessionEvents.WithLabelValues("agent_reply").Inc()
		e.hub.Publish(feed.EventAgentReply, s.ID, map[string]any{
			"preview": preview(reply),
		})
		log.Printf("[session %s] agent reply: %q", s.ID, preview(reply))

		res.Reply = reply
		res.HasReply = true
	}

	e.checkTermination(s)

	res.ScamDetected = s.ScamDetected()
	res.SessionClosed = s.Phase == session.PhaseClosed
	return res
}

// runClassification consults the external classifier for the latest external
// message. Retry exhaustion counts as an uncertain verdict: the session stays
// put and the classifier is consulted again on the next external message.
func (e *Engine) runClassification(ctx context.Context, s *session.Session) {
	req := brain.ClassifyRequest{
		SessionID: s.ID,
		Recent:    turnContexts(s.RecentTurns(e.cfg.ClassifierWindow)),
		History:   turnContexts(s.Conversation),
	}

	var verdict brain.Verdict
	err := reliability.Retry(ctx, e.cfg.ClassifyPolicy, func(ctx context.Context) error {
		v, err := e.brain.Classify(ctx, req)
		if err != nil {
			return err
		}
		verdict = v
		return nil
	})
	if err != nil {
		e.metrics.BrainCalls.WithLabelValues("classify", "failed").Inc()
		log.Printf("[session %s] classification failed after retries: %v", s.ID, err)
		verdict = brain.UncertainVerdict("classification failed after retries")
	} else {
		e.metrics.BrainCalls.WithLabelValues("classify", "ok").Inc()
	}

	log.Printf("[session %s] lookup result: scam=%t type=%s confidence=%.2f", s.ID, verdict.ScamDetected, verdict.Category, verdict.Confidence)

	if !verdict.ScamDetected || !verdict.Handoff {
		return
	}

	frozen := verdict
	s.Classification = &frozen
	s.ScamCategory = verdict.Category
	if s.ScamCategory == brain.CategoryNone {
		s.ScamCategory = brain.CategoryOther
	}
	s.Confidence = verdict.Confidence
	if s.EngagementStartedAt.IsZero() {
		s.EngagementStartedAt = time.Now().UTC()
	}
	s.Phase = session.PhaseEngaged

	e.metrics.SessionEvents.WithLabelValues("engaged").Inc()
	e.hub.Publish(feed.EventScamDetected, s.ID, map[string]any{
		"scam_type":  string(s.ScamCategory),
		"confidence": s.Confidence,
	})
	log.Printf("[session %s] scam detected (%s), handing off to engagement", s.ID, s.ScamCategory)
}

// extract runs the extraction engine over one external message. A fault here
// is contained: it logs and contributes nothing for that message.
func (e *Engine) extract(s *session.Session, text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session %s] intelligence extraction error: %v", s.ID, r)
		}
	}()

	before := categoryCounts(s.Intel)
	intel.Extract(text, s.Intel)
	after := categoryCounts(s.Intel)
	for category, count := range after {
		if delta := count - before[category]; delta > 0 {
			e.metrics.IntelExtracted.WithLabelValues(category).Add(float64(delta))
		}
	}

	log.Printf("[session %s] intel collected so far: %d items across %d categories", s.ID, s.Intel.ItemCount(), s.Intel.CategoryCount())
}

// generateReply asks the external generator for the next engagement message,
// falling back to the scripted reply on exhaustion. It always returns a
// non-empty string.
func (e *Engine) generateReply(ctx context.Context, s *session.Session) string {
	req := brain.ReplyRequest{
		SessionID: s.ID,
		Category:  s.ScamCategory,
		History:   turnContexts(s.Conversation),
		TurnsUsed: s.Turns(),
		MaxTurns:  e.cfg.MaxTurns,
		Collected: s.Intel.Collected(),
		Missing:   s.Intel.Missing(),
	}

	var reply string
	err := reliability.Retry(ctx, e.cfg.ReplyPolicy, func(ctx context.Context) error {
		r, err := e.brain.Reply(ctx, req)
		if err != nil {
			return err
		}
		reply = r
		return nil
	})
	if err != nil {
		e.metrics.BrainCalls.WithLabelValues("reply", "fallback").Inc()
		log.Printf("[session %s] reply generation failed after retries, using fallback: %v", s.ID, err)
		return FallbackReply(s.ScamCategory, s.Intel)
	}
	e.metrics.BrainCalls.WithLabelValues("reply", "ok").Inc()
	return reply
}

// checkTermination closes the session and triggers report dispatch exactly
// once when the policy fires. Dispatch runs detached from the intake path.
func (e *Engine) checkTermination(s *session.Session) {
	if s.Phase == session.PhaseClosed || s.ReportDispatched {
		return
	}
	if !ShouldEnd(s, e.cfg.MaxTurns) {
		return
	}

	log.Printf("[session %s] stop condition met at turn %d (%d intel categories collected)", s.ID, s.Turns(), s.Intel.CategoryCount())

	s.Phase = session.PhaseClosed
	s.ReportDispatched = true

	rep := report.Build(s, time.Now().UTC())

	e.metrics.SessionEvents.WithLabelValues("closed").Inc()
	e.metrics.ActiveSessions.Dec()
	e.metrics.EngagementTurns.Observe(float64(s.Turns()))
	e.hub.Publish(feed.EventSessionClosed, s.ID, map[string]any{
		"turns":       s.Turns(),
		"intel_items": s.Intel.ItemCount(),
	})

	go e.deliverReport(s, rep)
}

// deliverReport runs off the intake path. ReportSent flips only on confirmed
// delivery; exhaustion is terminal for the session and is never re-attempted
// on later inbound messages.
func (e *Engine) deliverReport(s *session.Session, rep report.Report) {
	ctx := context.Background()
	if err := e.dispatcher.Dispatch(ctx, rep); err != nil {
		e.metrics.ReportDispatches.WithLabelValues("failed").Inc()
		log.Printf("[session %s] CRITICAL: report dispatch failed permanently: %v", s.ID, err)
		return
	}

	s.Lock()
	s.ReportSent = true
	s.Unlock()

	e.metrics.ReportDispatches.WithLabelValues("delivered").Inc()
	e.hub.Publish(feed.EventReportDispatched, s.ID, map[string]any{
		"intel_items": rep.ExtractedIntelligence.ItemCount(),
	})
	log.Printf("[session %s] final report delivered", s.ID)

	if e.archive != nil {
		payload, err := json.Marshal(rep)
		if err == nil {
			err = e.archive.SaveReport(ctx, archive.ReportRecord{SessionID: s.ID, Payload: payload})
		}
		if err != nil {
			log.Printf("[session %s] archive report failed: %v", s.ID, err)
		}
	}
}

func (e *Engine) archiveTurn(ctx context.Context, sessionID string, t session.Turn) {
	if e.archive == nil {
		return
	}
	rec := archive.TurnRecord{
		SessionID: sessionID,
		Sender:    string(t.Sender),
		Text:      t.Text,
		CreatedAt: t.Timestamp,
	}
	if err := e.archive.SaveTurn(ctx, rec); err != nil {
		log.Printf("[session %s] archive turn failed: %v", sessionID, err)
	}
}

// normalizeSender maps inbound sender labels onto the two conversation
// roles: our agent is "agent" (or the legacy "user"), anyone else is the
// external party.
func normalizeSender(raw string) session.Sender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "agent", "user":
		return session.SenderAgent
	default:
		return session.SenderExternal
	}
}

func turnContexts(turns []session.Turn) []brain.TurnContext {
	out := make([]brain.TurnContext, 0, len(turns))
	for _, t := range turns {
		role := "sender"
		if t.Sender == session.SenderAgent {
			role = "recipient"
		}
		out = append(out, brain.TurnContext{Role: role, Text: t.Text})
	}
	return out
}

func categoryCounts(st *intel.Store) map[string]int {
	return map[string]int{
		"phone_numbers":   len(st.PhoneNumbers),
		"bank_accounts":   len(st.BankAccounts),
		"payment_handles": len(st.PaymentHandles),
		"email_addresses": len(st.EmailAddresses),
		"links":           len(st.Links),
		"case_ids":        len(st.CaseIDs),
		"policy_numbers":  len(st.PolicyNumbers),
		"order_numbers":   len(st.OrderNumbers),
		"keywords":        len(st.SuspiciousKeywords),
	}
}

func preview(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
