package intel

import (
	"strings"
	"testing"
)

func TestExtractMixedMessage(t *testing.T) {
	s := NewStore()
	Extract("Your account 12345678901 will be blocked, call 9876543210 or mail help@scam.co, ref CASE4521", s)

	if got, want := s.BankAccounts, []string{"12345678901"}; !equalSlices(got, want) {
		t.Fatalf("bank accounts = %v, want %v", got, want)
	}
	if got, want := s.PhoneNumbers, []string{"+91-9876543210"}; !equalSlices(got, want) {
		t.Fatalf("phone numbers = %v, want %v", got, want)
	}
	if got, want := s.EmailAddresses, []string{"help@scam.co"}; !equalSlices(got, want) {
		t.Fatalf("email addresses = %v, want %v", got, want)
	}
	if got, want := s.CaseIDs, []string{"CASE4521"}; !equalSlices(got, want) {
		t.Fatalf("case ids = %v, want %v", got, want)
	}
	for _, kw := range []string{"account", "blocked"} {
		if !containsFold(s.SuspiciousKeywords, kw) {
			t.Fatalf("suspicious keywords = %v, missing %q", s.SuspiciousKeywords, kw)
		}
	}
	if got, want := s.ItemCount(), 4; got != want {
		t.Fatalf("item count = %d, want %d", got, want)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	s := NewStore()
	text := "Call 9876543210, pay to fraudster@paytm, ref CASE4521, visit http://fake-bank.example/verify urgent"

	Extract(text, s)
	first := s.ItemCount()
	firstKeywords := len(s.SuspiciousKeywords)

	Extract(text, s)
	if got := s.ItemCount(); got != first {
		t.Fatalf("item count after re-extract = %d, want %d", got, first)
	}
	if got := len(s.SuspiciousKeywords); got != firstKeywords {
		t.Fatalf("keyword count after re-extract = %d, want %d", got, firstKeywords)
	}
}

func TestExtractPhoneVariantsNormalize(t *testing.T) {
	variants := []string{
		"call 9876543210 now",
		"call +91 9876543210 now",
		"call +91-9876543210 now",
		"call 09876543210 now",
		"call 919876543210 now",
	}
	for _, text := range variants {
		s := NewStore()
		Extract(text, s)
		if got, want := s.PhoneNumbers, []string{"+91-9876543210"}; !equalSlices(got, want) {
			t.Fatalf("Extract(%q) phones = %v, want %v", text, got, want)
		}
	}

	// All variants in one message collapse to a single entry.
	s := NewStore()
	Extract(strings.Join(variants, ". "), s)
	if got := len(s.PhoneNumbers); got != 1 {
		t.Fatalf("combined phones = %v, want exactly 1", s.PhoneNumbers)
	}
}

func TestExtractPhoneRejectsEmbeddedDigits(t *testing.T) {
	s := NewStore()
	Extract("your ref is 123459876543210999", s)
	if len(s.PhoneNumbers) != 0 {
		t.Fatalf("phones = %v, want none for digit-embedded run", s.PhoneNumbers)
	}
}

func TestExtractTwelveDigitWithCountryCodeIsPhoneNotAccount(t *testing.T) {
	s := NewStore()
	Extract("transfer details sent to 919876543210 today", s)
	if got, want := s.PhoneNumbers, []string{"+91-9876543210"}; !equalSlices(got, want) {
		t.Fatalf("phones = %v, want %v", got, want)
	}
	if len(s.BankAccounts) != 0 {
		t.Fatalf("bank accounts = %v, want none", s.BankAccounts)
	}
}

func TestExtractAccountNotStartingWithMobilePrefix(t *testing.T) {
	s := NewStore()
	Extract("deposit to account 50010012345678", s)
	if got, want := s.BankAccounts, []string{"50010012345678"}; !equalSlices(got, want) {
		t.Fatalf("bank accounts = %v, want %v", got, want)
	}
	if len(s.PhoneNumbers) != 0 {
		t.Fatalf("phones = %v, want none", s.PhoneNumbers)
	}
}

func TestExtractHandleVersusEmail(t *testing.T) {
	s := NewStore()
	Extract("send money to fraudster@paytm or reach me at agent.x@gmail.com", s)

	if got, want := s.PaymentHandles, []string{"fraudster@paytm"}; !equalSlices(got, want) {
		t.Fatalf("payment handles = %v, want %v", got, want)
	}
	if got, want := s.EmailAddresses, []string{"agent.x@gmail.com"}; !equalSlices(got, want) {
		t.Fatalf("email addresses = %v, want %v", got, want)
	}

	// Nothing ends up in both categories.
	for _, h := range s.PaymentHandles {
		if containsFold(s.EmailAddresses, h) {
			t.Fatalf("%q stored as both handle and email", h)
		}
	}
}

func TestExtractDottedUnknownDomainReadsAsEmail(t *testing.T) {
	s := NewStore()
	Extract("write to support@secure-verify.xyz for help", s)
	if got, want := s.EmailAddresses, []string{"support@secure-verify.xyz"}; !equalSlices(got, want) {
		t.Fatalf("email addresses = %v, want %v", got, want)
	}
	if len(s.PaymentHandles) != 0 {
		t.Fatalf("payment handles = %v, want none", s.PaymentHandles)
	}
}

func TestExtractSkipsTokensInsideURLs(t *testing.T) {
	s := NewStore()
	Extract("login at http://evil.example/user@bank to continue", s)
	if len(s.EmailAddresses) != 0 || len(s.PaymentHandles) != 0 {
		t.Fatalf("handles = %v emails = %v, want none from URL path", s.PaymentHandles, s.EmailAddresses)
	}
	if len(s.Links) != 1 {
		t.Fatalf("links = %v, want 1", s.Links)
	}
}

func TestExtractLinks(t *testing.T) {
	s := NewStore()
	Extract("verify at https://kyc-update.example/form. Hurry!", s)
	if got, want := s.Links, []string{"https://kyc-update.example/form"}; !equalSlices(got, want) {
		t.Fatalf("links = %v, want %v", got, want)
	}
}

func TestExtractCaseIDs(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"your ref CASE-12345 is open", "CASE-12345"},
		{"glued id REF2026001 here", "REF2026001"},
		{"ticket number 456789 assigned", "456789"},
		{"complaint ID GRV20260042 filed", "GRV20260042"},
	}
	for _, tc := range cases {
		s := NewStore()
		Extract(tc.text, s)
		if len(s.CaseIDs) != 1 || s.CaseIDs[0] != tc.want {
			t.Fatalf("Extract(%q) case ids = %v, want [%s]", tc.text, s.CaseIDs, tc.want)
		}
	}
}

func TestExtractPolicyNumbers(t *testing.T) {
	s := NewStore()
	Extract("your Policy No: 88774411 has lapsed", s)
	if got, want := s.PolicyNumbers, []string{"88774411"}; !equalSlices(got, want) {
		t.Fatalf("policy numbers = %v, want %v", got, want)
	}

	s = NewStore()
	Extract("renew LIC 123456789 immediately", s)
	if got, want := s.PolicyNumbers, []string{"123456789"}; !equalSlices(got, want) {
		t.Fatalf("policy numbers = %v, want %v", got, want)
	}
}

func TestExtractOrderNumbers(t *testing.T) {
	s := NewStore()
	Extract("your order id 56789 is held at customs", s)
	if got, want := s.OrderNumbers, []string{"56789"}; !equalSlices(got, want) {
		t.Fatalf("order numbers = %v, want %v", got, want)
	}

	s = NewStore()
	Extract("shipment OD123456789 needs clearance fee", s)
	if got, want := s.OrderNumbers, []string{"OD123456789"}; !equalSlices(got, want) {
		t.Fatalf("order numbers = %v, want %v", got, want)
	}
}

func TestExtractEmptyInputIsNoop(t *testing.T) {
	s := NewStore()
	Extract("", s)
	Extract("   ", s)
	if got := s.ItemCount(); got != 0 {
		t.Fatalf("item count = %d, want 0", got)
	}
	// nil store must not panic
	Extract("call 9876543210", nil)
}

func equalSlices(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
