package intel

import "strings"

// Store holds the deduplicated intelligence extracted from one conversation.
// It is created empty with its session and is never shared across sessions.
type Store struct {
	PhoneNumbers       []string `json:"phoneNumbers,omitempty"`
	BankAccounts       []string `json:"bankAccounts,omitempty"`
	PaymentHandles     []string `json:"upiIds,omitempty"`
	EmailAddresses     []string `json:"emailAddresses,omitempty"`
	Links              []string `json:"phishingLinks,omitempty"`
	CaseIDs            []string `json:"caseIds,omitempty"`
	PolicyNumbers      []string `json:"policyNumbers,omitempty"`
	OrderNumbers       []string `json:"orderNumbers,omitempty"`
	SuspiciousKeywords []string `json:"suspiciousKeywords,omitempty"`
}

func NewStore() *Store {
	return &Store{}
}

// ItemCount sums entries across the eight entity categories. Suspicious
// keywords are red-flag markers, not evidentiary items, and are excluded.
func (s *Store) ItemCount() int {
	return len(s.PhoneNumbers) + len(s.BankAccounts) + len(s.PaymentHandles) +
		len(s.EmailAddresses) + len(s.Links) + len(s.CaseIDs) +
		len(s.PolicyNumbers) + len(s.OrderNumbers)
}

// CategoryCount reports how many of the eight entity categories hold at
// least one entry.
func (s *Store) CategoryCount() int {
	n := 0
	for _, seq := range [][]string{
		s.PhoneNumbers, s.BankAccounts, s.PaymentHandles, s.EmailAddresses,
		s.Links, s.CaseIDs, s.PolicyNumbers, s.OrderNumbers,
	} {
		if len(seq) > 0 {
			n++
		}
	}
	return n
}

// Collected summarizes what has been gathered so far, one line per non-empty
// category, for the reply generator's context.
func (s *Store) Collected() []string {
	var out []string
	if len(s.PhoneNumbers) > 0 {
		out = append(out, "Phone: "+strings.Join(s.PhoneNumbers, ", "))
	}
	if len(s.PaymentHandles) > 0 {
		out = append(out, "UPI: "+strings.Join(s.PaymentHandles, ", "))
	}
	if len(s.BankAccounts) > 0 {
		out = append(out, "Bank account: "+strings.Join(s.BankAccounts, ", "))
	}
	if len(s.EmailAddresses) > 0 {
		out = append(out, "Email: "+strings.Join(s.EmailAddresses, ", "))
	}
	if len(s.Links) > 0 {
		out = append(out, "Links: "+strings.Join(s.Links, ", "))
	}
	if len(s.CaseIDs) > 0 {
		out = append(out, "Case/Ref ID: "+strings.Join(s.CaseIDs, ", "))
	}
	if len(s.PolicyNumbers) > 0 {
		out = append(out, "Policy no: "+strings.Join(s.PolicyNumbers, ", "))
	}
	if len(s.OrderNumbers) > 0 {
		out = append(out, "Order no: "+strings.Join(s.OrderNumbers, ", "))
	}
	return out
}

// Missing names the core targets still absent, in extraction priority order.
func (s *Store) Missing() []string {
	var out []string
	if len(s.PhoneNumbers) == 0 {
		out = append(out, "phone number")
	}
	if len(s.PaymentHandles) == 0 {
		out = append(out, "UPI ID")
	}
	if len(s.BankAccounts) == 0 {
		out = append(out, "bank account")
	}
	if len(s.EmailAddresses) == 0 {
		out = append(out, "email address")
	}
	if len(s.Links) == 0 {
		out = append(out, "any links/websites they mention")
	}
	return out
}

// HasContactNumber reports whether at least one phone number was captured.
func (s *Store) HasContactNumber() bool {
	return len(s.PhoneNumbers) > 0
}

// HasPaymentDetail reports whether a payment handle or bank account was captured.
func (s *Store) HasPaymentDetail() bool {
	return len(s.PaymentHandles) > 0 || len(s.BankAccounts) > 0
}

// addUnique appends value unless an entry already matches it after trimming,
// ignoring case. Reports whether the value was added.
func addUnique(list *[]string, value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	for _, existing := range *list {
		if strings.EqualFold(existing, trimmed) {
			return false
		}
	}
	*list = append(*list, trimmed)
	return true
}

func containsFold(list []string, value string) bool {
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return true
		}
	}
	return false
}
