package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/thedefenders/honeytrap/internal/brain"
	"github.com/thedefenders/honeytrap/internal/intel"
	"github.com/thedefenders/honeytrap/internal/session"
)

// Report is the final evidence payload for one closed session.
type Report struct {
	SessionID             string         `json:"sessionId"`
	ScamDetected          bool           `json:"scamDetected"`
	ExtractedIntelligence intel.Store    `json:"extractedIntelligence"`
	EngagementMetrics     Engagement     `json:"engagementMetrics"`
	AgentNotes            string         `json:"agentNotes"`
	ScamType              brain.Category `json:"scamType"`
	ConfidenceLevel       float64        `json:"confidenceLevel"`
}

// Engagement carries the quality metrics scored alongside the evidence.
type Engagement struct {
	DurationSeconds int64 `json:"engagementDurationSeconds"`
	TotalMessages   int   `json:"totalMessagesExchanged"`
}

// Build projects a session into its final report. It is pure: no side
// effects, no mutation of the session. The caller holds the session lock.
func Build(s *session.Session, now time.Time) Report {
	var duration int64
	if !s.EngagementStartedAt.IsZero() {
		duration = int64(now.Sub(s.EngagementStartedAt).Seconds())
		if duration < 0 {
			duration = 0
		}
	}

	category := s.ScamCategory
	if category == "" || category == brain.CategoryNone {
		category = brain.CategoryOther
	}

	return Report{
		SessionID:             s.ID,
		ScamDetected:          true,
		ExtractedIntelligence: *s.Intel,
		EngagementMetrics: Engagement{
			DurationSeconds: duration,
			TotalMessages:   s.TotalMessages,
		},
		AgentNotes:      buildAgentNotes(s, category),
		ScamType:        category,
		ConfidenceLevel: s.Confidence,
	}
}

// buildAgentNotes synthesizes the free-text summary: category description,
// confidence qualifier, observed tactics, keyword red flags, item count and
// the classifier's stated reason.
func buildAgentNotes(s *session.Session, category brain.Category) string {
	var notes []string
	in := s.Intel

	if category != brain.CategoryNone {
		notes = append(notes, category.Description())
	}

	switch {
	case s.Confidence >= 0.9:
		notes = append(notes, "Detected with very high confidence")
	case s.Confidence >= 0.75:
		notes = append(notes, "Detected with high confidence")
	case s.Confidence > 0:
		notes = append(notes, fmt.Sprintf("Detected with moderate confidence (%d%%)", int(s.Confidence*100+0.5)))
	}

	var tactics []string
	if len(in.PhoneNumbers) > 0 {
		tactics = append(tactics, "provided contact number for off-platform communication")
	}
	if len(in.Links) > 0 {
		tactics = append(tactics, "shared malicious/phishing links")
	}
	if len(in.PaymentHandles) > 0 || len(in.BankAccounts) > 0 {
		tactics = append(tactics, "requested or shared financial/payment details")
	}
	if len(in.EmailAddresses) > 0 {
		tactics = append(tactics, "provided email for ongoing contact")
	}
	if len(in.CaseIDs) > 0 {
		tactics = append(tactics, "referenced official-sounding case/reference IDs to appear legitimate")
	}
	if len(in.PolicyNumbers) > 0 {
		tactics = append(tactics, "cited policy numbers to add credibility")
	}
	if len(in.OrderNumbers) > 0 {
		tactics = append(tactics, "used order/shipment IDs as social proof")
	}
	if len(tactics) > 0 {
		notes = append(notes, "Scammer tactics: "+strings.Join(tactics, "; "))
	}

	if len(in.SuspiciousKeywords) > 0 {
		notes = append(notes, "Red flags detected - suspicious keywords used: "+strings.Join(in.SuspiciousKeywords, ", "))
	}

	notes = append(notes, fmt.Sprintf("Extracted %d intelligence items over %d conversation turns", in.ItemCount(), s.Turns()))

	if s.Classification != nil && s.Classification.Reason != "" {
		notes = append(notes, "Detection basis: "+s.Classification.Reason)
	}

	return strings.Join(notes, ". ") + "."
}
