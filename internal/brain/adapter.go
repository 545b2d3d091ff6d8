package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Intent is the classifier's reading of the sender.
type Intent string

const (
	IntentScam       Intent = "scam"
	IntentLegitimate Intent = "legitimate"
	IntentUncertain  Intent = "uncertain"
)

// Category is one label from the fixed fraud-category set, plus the
// sentinels "other" and "none".
type Category string

const (
	CategoryBankFraud       Category = "bank_fraud"
	CategoryUPIFraud        Category = "upi_fraud"
	CategoryPhishingLink    Category = "phishing_link"
	CategoryKYCFraud        Category = "kyc_fraud"
	CategoryJobScam         Category = "job_scam"
	CategoryLotteryScam     Category = "lottery_scam"
	CategoryElectricityBill Category = "electricity_bill"
	CategoryGovtScheme      Category = "govt_scheme"
	CategoryCryptoInvest    Category = "crypto_investment"
	CategoryInvestmentFraud Category = "investment_fraud"
	CategoryCustomsParcel   Category = "customs_parcel"
	CategoryTechSupport     Category = "tech_support"
	CategoryLoanApproval    Category = "loan_approval"
	CategoryIncomeTax       Category = "income_tax"
	CategoryRefundScam      Category = "refund_scam"
	CategoryOther           Category = "other"
	CategoryNone            Category = "none"
)

var categoryDescriptions = map[Category]string{
	CategoryBankFraud:       "Banking/financial institution impersonation scam",
	CategoryUPIFraud:        "UPI payment fraud with reverse payment trick",
	CategoryPhishingLink:    "Phishing link-based credential/data theft attempt",
	CategoryKYCFraud:        "KYC verification fraud targeting account details",
	CategoryJobScam:         "Fake job offer scam with upfront fee demand",
	CategoryLotteryScam:     "Lottery/prize claim scam with processing fee demand",
	CategoryElectricityBill: "Electricity disconnection threat scam",
	CategoryGovtScheme:      "Fake government scheme/benefit scam",
	CategoryCryptoInvest:    "Cryptocurrency investment fraud",
	CategoryInvestmentFraud: "Investment/stock market fraud scheme",
	CategoryCustomsParcel:   "Fake customs/parcel clearance fee scam",
	CategoryTechSupport:     "Tech support impersonation and remote access scam",
	CategoryLoanApproval:    "Fake loan approval with upfront fee demand",
	CategoryIncomeTax:       "Income Tax Department impersonation scam",
	CategoryRefundScam:      "Fake refund scam targeting bank/UPI details",
	CategoryOther:           "Unclassified scam pattern with financial fraud intent",
}

// Valid reports whether the label belongs to the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryDescriptions[c]
	return ok || c == CategoryNone
}

// Description is the human-readable form used in report notes.
func (c Category) Description() string {
	if d, ok := categoryDescriptions[c]; ok {
		return d
	}
	return "Scam detected with financial fraud intent"
}

// Verdict is the structured classification result. Every field is validated
// at the boundary before any session state mutates.
type Verdict struct {
	ScamDetected bool     `json:"scamDetected"`
	Handoff      bool     `json:"handoffToHandler"`
	Intent       Intent   `json:"intent"`
	Confidence   float64  `json:"confidence"`
	Reason       string   `json:"reason"`
	Category     Category `json:"scamType"`
}

func (v Verdict) Validate() error {
	switch v.Intent {
	case IntentScam, IntentLegitimate, IntentUncertain:
	default:
		return fmt.Errorf("invalid intent %q", v.Intent)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range [0,1]", v.Confidence)
	}
	if !v.Category.Valid() {
		return fmt.Errorf("invalid scam category %q", v.Category)
	}
	if v.ScamDetected && v.Category == CategoryNone {
		return errors.New("scam detected with category none")
	}
	return nil
}

// UncertainVerdict is the neutral result used when classification could not
// be completed; it never advances the session phase.
func UncertainVerdict(reason string) Verdict {
	return Verdict{
		ScamDetected: false,
		Handoff:      false,
		Intent:       IntentUncertain,
		Confidence:   0,
		Reason:       reason,
		Category:     CategoryNone,
	}
}

// TurnContext is one conversation turn as presented to the service.
type TurnContext struct {
	Role string `json:"role"` // "sender" for the external party, "recipient" for the agent
	Text string `json:"text"`
}

// ClassifyRequest carries a bounded recent window plus the full history.
type ClassifyRequest struct {
	SessionID string        `json:"session_id"`
	Recent    []TurnContext `json:"recent"`
	History   []TurnContext `json:"history"`
}

// ReplyRequest carries the conversation and the engagement context the
// generator needs to stay in character and chase missing intelligence.
type ReplyRequest struct {
	SessionID string        `json:"session_id"`
	Category  Category      `json:"scam_type"`
	History   []TurnContext `json:"history"`
	TurnsUsed int           `json:"turns_used"`
	MaxTurns  int           `json:"max_turns"`
	Collected []string      `json:"collected,omitempty"`
	Missing   []string      `json:"missing,omitempty"`
}

// Adapter is the boundary to the external text-completion service. Both
// calls may block on a remote response; neither is retried here (the engine
// owns the retry policy).
type Adapter interface {
	Classify(ctx context.Context, req ClassifyRequest) (Verdict, error)
	Reply(ctx context.Context, req ReplyRequest) (string, error)
}

// Config controls adapter construction.
type Config struct {
	Mode    string
	HTTPURL string
}

func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPAdapter(cfg.HTTPURL), nil
		}
		return NewMockAdapter(), nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("brain HTTP url is required for http mode")
		}
		return NewHTTPAdapter(cfg.HTTPURL), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain adapter mode %q", cfg.Mode)
	}
}
