package intel

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestItemCountExcludesKeywords(t *testing.T) {
	s := &Store{
		PhoneNumbers:       []string{"+91-9876543210"},
		BankAccounts:       []string{"12345678901"},
		SuspiciousKeywords: []string{"urgent", "otp"},
	}
	if got, want := s.ItemCount(), 2; got != want {
		t.Fatalf("item count = %d, want %d", got, want)
	}
	if got, want := s.CategoryCount(), 2; got != want {
		t.Fatalf("category count = %d, want %d", got, want)
	}
}

func TestEmptyCategoriesOmittedFromJSON(t *testing.T) {
	s := &Store{PhoneNumbers: []string{"+91-9876543210"}}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "phoneNumbers") {
		t.Fatalf("payload missing phoneNumbers: %s", out)
	}
	for _, absent := range []string{"bankAccounts", "upiIds", "emailAddresses", "phishingLinks", "caseIds", "policyNumbers", "orderNumbers", "suspiciousKeywords"} {
		if strings.Contains(out, absent) {
			t.Fatalf("payload contains empty category %q: %s", absent, out)
		}
	}
}

func TestAddUniqueTrimsAndIgnoresCase(t *testing.T) {
	var list []string
	if !addUnique(&list, "  Fraudster@Paytm  ") {
		t.Fatalf("first add = false, want true")
	}
	if addUnique(&list, "fraudster@paytm") {
		t.Fatalf("duplicate add = true, want false")
	}
	if addUnique(&list, "   ") {
		t.Fatalf("blank add = true, want false")
	}
	if len(list) != 1 || list[0] != "Fraudster@Paytm" {
		t.Fatalf("list = %v, want single trimmed entry", list)
	}
}

func TestMissingShrinksAsIntelArrives(t *testing.T) {
	s := NewStore()
	if got := len(s.Missing()); got != 5 {
		t.Fatalf("missing on empty store = %d targets, want 5", got)
	}

	s.PhoneNumbers = []string{"+91-9876543210"}
	s.PaymentHandles = []string{"fraudster@paytm"}
	missing := s.Missing()
	for _, m := range missing {
		if m == "phone number" || m == "UPI ID" {
			t.Fatalf("missing = %v still lists captured target %q", missing, m)
		}
	}
	if got := len(missing); got != 3 {
		t.Fatalf("missing = %v, want 3 remaining targets", missing)
	}
}

func TestHasContactAndPaymentDetail(t *testing.T) {
	s := NewStore()
	if s.HasContactNumber() || s.HasPaymentDetail() {
		t.Fatalf("empty store reports captured details")
	}
	s.PhoneNumbers = []string{"+91-9876543210"}
	if !s.HasContactNumber() {
		t.Fatalf("HasContactNumber = false after phone capture")
	}
	s.BankAccounts = []string{"12345678901"}
	if !s.HasPaymentDetail() {
		t.Fatalf("HasPaymentDetail = false after account capture")
	}
}

func TestCollectedSummarizesNonEmptyCategories(t *testing.T) {
	s := &Store{
		PhoneNumbers:   []string{"+91-9876543210"},
		PaymentHandles: []string{"fraudster@paytm"},
	}
	lines := s.Collected()
	if len(lines) != 2 {
		t.Fatalf("collected = %v, want 2 lines", lines)
	}
	if !strings.HasPrefix(lines[0], "Phone: ") {
		t.Fatalf("collected[0] = %q, want Phone prefix", lines[0])
	}
	if !strings.HasPrefix(lines[1], "UPI: ") {
		t.Fatalf("collected[1] = %q, want UPI prefix", lines[1])
	}
}
