package brain

import (
	"context"
	"fmt"
	"strings"
)

// MockAdapter provides deterministic verdicts and replies when no remote
// completion service is configured. It keys off obvious lexical cues only;
// it exists for local runs and tests, not for detection quality.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

var mockCategoryCues = []struct {
	cue      string
	category Category
}{
	{"electricity", CategoryElectricityBill},
	{"kyc", CategoryKYCFraud},
	{"lottery", CategoryLotteryScam},
	{"prize", CategoryLotteryScam},
	{"upi", CategoryUPIFraud},
	{"customs", CategoryCustomsParcel},
	{"parcel", CategoryCustomsParcel},
	{"loan", CategoryLoanApproval},
	{"refund", CategoryRefundScam},
	{"income tax", CategoryIncomeTax},
	{"hacked", CategoryTechSupport},
	{"job", CategoryJobScam},
	{"invest", CategoryInvestmentFraud},
	{"crypto", CategoryCryptoInvest},
	{"http://", CategoryPhishingLink},
	{"https://", CategoryPhishingLink},
	{"account", CategoryBankFraud},
	{"blocked", CategoryBankFraud},
	{"otp", CategoryBankFraud},
}

func (a *MockAdapter) Classify(ctx context.Context, req ClassifyRequest) (Verdict, error) {
	select {
	case <-ctx.Done():
		return Verdict{}, ctx.Err()
	default:
	}

	latest := ""
	for i := len(req.Recent) - 1; i >= 0; i-- {
		if req.Recent[i].Role == "sender" {
			latest = strings.ToLower(req.Recent[i].Text)
			break
		}
	}

	for _, c := range mockCategoryCues {
		if strings.Contains(latest, c.cue) {
			return Verdict{
				ScamDetected: true,
				Handoff:      true,
				Intent:       IntentScam,
				Confidence:   0.92,
				Reason:       fmt.Sprintf("message matches %q pattern", c.cue),
				Category:     c.category,
			}, nil
		}
	}

	return UncertainVerdict("no scam indicators in latest message"), nil
}

var mockReplies = []string{
	"Oh no, this sounds serious. Can you give me your direct helpline number so I can call back?",
	"Okay, I want to sort this out. What's your official email I should use?",
	"I'm a bit confused, where exactly do I need to pay? Which UPI or account?",
	"Can you share the reference number for this? I want to note it down.",
	"Alright, and is there a website where I can check this myself?",
}

func (a *MockAdapter) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return mockReplies[req.TurnsUsed%len(mockReplies)], nil
}
