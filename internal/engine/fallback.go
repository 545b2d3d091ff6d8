package engine

import (
	"github.com/thedefenders/honeytrap/internal/brain"
	"github.com/thedefenders/honeytrap/internal/intel"
)

// fallbackScript holds the scripted replies for one category. The alternate
// variant is used once the named detail is already captured, so the agent
// pivots to the next missing piece instead of repeating itself.
type fallbackScript struct {
	base        string
	onPhone     string
	onPayment   string
}

var fallbackScripts = map[brain.Category]fallbackScript{
	brain.CategoryBankFraud: {
		base:    "This is really worrying me! Can you please give me your employee ID and direct helpline number?",
		onPhone: "Okay, I'll try calling. But wait, can you also give me your employee ID so I can verify when I call?",
	},
	brain.CategoryUPIFraud: {
		base:      "I want to claim this! What's your UPI or the account I should use? And your contact number?",
		onPayment: "Alright, let me try. What's your official email I can contact if there's an issue?",
	},
	brain.CategoryPhishingLink: {
		base: "Before I click anything, can you confirm your employee ID and official website? I need to be sure this is safe.",
	},
	brain.CategoryKYCFraud: {
		base:    "Please help me update it quickly! What's your direct number and employee ID?",
		onPhone: "Okay please don't block my SIM! What else do you need from me? What's the reference number for my KYC?",
	},
	brain.CategoryJobScam: {
		base:    "This sounds amazing! What's the HR contact number and company email? When can I start?",
		onPhone: "Great! What's the company email and official website? I want to read more about the role.",
	},
	brain.CategoryLotteryScam: {
		base:    "I'm so excited!! What's your official contact number and the claim ID? How do I get my prize?",
		onPhone: "Oh wow I still can't believe it! What's the claim ID and do you have an official email for the prize department?",
	},
	brain.CategoryElectricityBill: {
		base: "Please don't cut the electricity! What's the exact amount and your employee ID? I'll pay right now!",
	},
	brain.CategoryGovtScheme: {
		base:    "This is wonderful news! What's the officer ID and department helpline to confirm my eligibility?",
		onPhone: "Great! What's the official website where I can verify this scheme? And what's the scheme registration code?",
	},
	brain.CategoryCryptoInvest: {
		base:    "That's an impressive return! What's your contact number and the trading platform website?",
		onPhone: "Okay, I'm a bit interested. Can you send me the platform link and your registration number?",
	},
	brain.CategoryInvestmentFraud: {
		base:    "Those returns sound good. What's your advisor ID and direct number I can call?",
		onPhone: "I might be interested. What's the SEBI registration number and company website?",
	},
	brain.CategoryCustomsParcel: {
		base: "I'm confused about this parcel. Can you give me the tracking number and official customs helpline? Also your employee ID?",
	},
	brain.CategoryTechSupport: {
		base:    "Oh no, is my phone really hacked?! What's your helpline and technician ID? How do I fix this?",
		onPhone: "This is scary! What exactly did you find on my phone? And what's your technician ID?",
	},
	brain.CategoryLoanApproval: {
		base:    "Finally approved! What's your direct number and agent ID? What do I need to do next?",
		onPhone: "That's great news about the loan! What's the official company website and your agent code?",
	},
	brain.CategoryIncomeTax: {
		base: "I want to cooperate fully! What's your officer ID and the department email? I'll sort this out immediately.",
	},
	brain.CategoryRefundScam: {
		base:      "Oh great, I could use that refund! What's your agent ID and how exactly will it come?",
		onPayment: "Okay, what's the reference number for this refund? And your official email?",
	},
	brain.CategoryOther: {
		base:    "Can you give me your contact number and official ID so I can verify this is legitimate?",
		onPhone: "I see, that makes sense. Can you also give me your official email and registration number?",
	},
}

// FallbackReply returns the deterministic scripted reply for a category when
// the reply generator is unavailable. Engagement never goes silent.
func FallbackReply(category brain.Category, in *intel.Store) string {
	script, ok := fallbackScripts[category]
	if !ok {
		script = fallbackScripts[brain.CategoryOther]
	}
	if script.onPhone != "" && in != nil && in.HasContactNumber() {
		return script.onPhone
	}
	if script.onPayment != "" && in != nil && in.HasPaymentDetail() {
		return script.onPayment
	}
	return script.base
}
