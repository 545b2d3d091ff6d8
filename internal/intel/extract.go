package intel

import (
	"regexp"
	"strings"
)

var suspiciousVocabulary = []string{
	"urgent", "verify", "blocked", "suspended", "account", "upi", "otp",
	"click", "download", "immediately", "kyc", "lottery", "refund", "loan",
	"prize", "reward", "confirm", "expires", "limited", "congratulations",
	"winner", "claim", "payment", "transfer", "security",
}

// Known payment-service-provider handle suffixes (the part after '@' in a
// UPI-style identifier).
var pspHandles = map[string]bool{
	"okaxis": true, "okhdfcbank": true, "okicici": true, "oksbi": true,
	"paytm": true, "ybl": true, "ibl": true, "axisbank": true,
	"hdfcbank": true, "icici": true, "sbi": true, "upi": true, "fbl": true,
	"rbl": true, "apl": true, "barodampay": true, "cbin": true, "cboi": true,
	"centralbank": true, "cnrb": true, "cosb": true, "dbs": true, "dcb": true,
	"ezeepay": true, "freecharge": true, "idbi": true, "idfc": true,
	"indus": true, "jiomoney": true, "kotak": true, "mahb": true,
	"myicici": true, "nsdl": true, "pingpay": true, "postbank": true,
	"pnb": true, "rajgovhdfcbank": true, "sib": true, "timecosmos": true,
	"ubi": true, "unionbank": true, "utbi": true, "ucobank": true,
	"vijb": true, "waaxis": true, "wahdfcbank": true, "waicici": true,
	"wasbi": true, "jupiteraxis": true, "slice": true, "fi": true,
	"niyoicici": true, "naviaxis": true, "bhim": true, "abfspay": true,
	"airtel": true, "airtelpaymentsbank": true, "amazonpay": true,
	"gpay": true, "phonepe": true, "whatsapp": true, "superyes": true,
	"tapicici": true, "fakeupi": true, "fakebank": true, "fraudpay": true,
	"scampay": true,
}

// Suffixes that mark a dotted domain as a mail address, including common
// provider name fragments seen in the wild.
var emailSuffixes = map[string]bool{
	"com": true, "in": true, "org": true, "net": true, "edu": true,
	"gov": true, "co": true, "io": true, "info": true, "biz": true,
	"me": true, "uk": true, "us": true, "au": true, "de": true, "fr": true,
	"jp": true, "cn": true, "ru": true, "gmail": true, "yahoo": true,
	"hotmail": true, "outlook": true, "icloud": true, "rediffmail": true,
}

var personalMailDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "yahoo.in": true,
	"hotmail.com": true, "outlook.com": true, "icloud.com": true,
	"rediffmail.com": true, "ymail.com": true, "live.com": true,
	"msn.com": true, "protonmail.com": true, "tutanota.com": true,
}

var (
	phonePattern      = regexp.MustCompile(`(\+?91[\s-]?|0)?[6-9][0-9]{9}`)
	atTokenPattern    = regexp.MustCompile(`\b([a-zA-Z0-9._+\-]{2,})@([a-zA-Z0-9.\-]+)\b`)
	accountPattern    = regexp.MustCompile(`\b[0-9]{11,18}\b`)
	linkPattern       = regexp.MustCompile(`https?://[^\s"'<>)\]]+`)
	handleShape       = regexp.MustCompile(`^[a-z0-9.\-_]+$`)
	fourDigits        = regexp.MustCompile(`[0-9]{4}`)
	caseGluedPattern  = regexp.MustCompile(`(?i)\b((?:REF|CASE|CAS|TKT|INC|SR|GR|CLAIM)[-/]?[A-Z0-9]*[0-9]{4,}[A-Z0-9]*)\b`)
	caseLabelPattern  = regexp.MustCompile(`(?i)\b(?:REFERENCE|COMPLAINT|TICKET|INCIDENT|GRIEVANCE)\s+(?:ID|NUMBER|NO|#)?[\s\-#:/]*([A-Z]{0,5}[0-9]{4,}[A-Z0-9]*)\b`)
	policyPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:POLICY(?:[\s-]?(?:NO|NUMBER|ID))?|INSURANCE(?:[\s-]?(?:NO|NUMBER|ID))?)[\s\-#:/]+([A-Z0-9]*[0-9]{4,}[A-Z0-9]*)\b`),
		regexp.MustCompile(`(?i)\b(?:LIC|HDFC[\s-]LIFE|SBI[\s-]LIFE|TATA[\s-]AIA)[\s-]?([0-9]{8,15})\b`),
	}
	orderPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:ORDER(?:[\s-]?(?:NO|ID|NUMBER))?|BOOKING(?:[\s-]?(?:NO|ID|NUMBER))?|SHIPMENT(?:[\s-]?(?:NO|ID))?|TRACKING(?:[\s-]?(?:NO|ID))?)[\s\-#:/]+([A-Z0-9]*[0-9]{4,}[A-Z0-9]*)\b`),
		regexp.MustCompile(`\bOD[0-9][A-Z0-9]{7,15}\b`),
	}
)

// Extract scans raw adversary text and appends recognized entities to the
// store. Empty input is a no-op. Each extractor scans independently, so
// re-extracting the same text adds nothing new (dedup is per category).
func Extract(text string, s *Store) {
	if s == nil || strings.TrimSpace(text) == "" {
		return
	}
	extractPhoneNumbers(text, s)
	extractHandlesAndEmails(text, s)
	extractBankAccounts(text, s)
	extractLinks(text, s)
	extractCaseIDs(text, s)
	extractPolicyNumbers(text, s)
	extractOrderNumbers(text, s)
	extractSuspiciousKeywords(text, s)
}

// extractPhoneNumbers matches 10-digit mobile numbers with an optional trunk
// zero or 91 country code. Matches flanked by digits are rejected manually
// since RE2 has no lookaround.
func extractPhoneNumbers(text string, s *Store) {
	for start := 0; start < len(text); {
		loc := phonePattern.FindStringIndex(text[start:])
		if loc == nil {
			return
		}
		b, e := start+loc[0], start+loc[1]
		if (b > 0 && isDigit(text[b-1])) || (e < len(text) && isDigit(text[e])) {
			start = b + 1
			continue
		}
		if formatted, ok := formatMobile(text[b:e]); ok {
			key := digitsOnly(formatted)
			stored := false
			for _, p := range s.PhoneNumbers {
				if digitsOnly(p) == key {
					stored = true
					break
				}
			}
			if !stored {
				s.PhoneNumbers = append(s.PhoneNumbers, formatted)
			}
		}
		start = e
	}
}

// formatMobile normalizes a raw phone match to the canonical +91-XXXXXXXXXX
// display form.
func formatMobile(raw string) (string, bool) {
	digits := digitsOnly(raw)
	var mobile string
	switch {
	case len(digits) == 10:
		mobile = digits
	case len(digits) == 11 && digits[0] == '0':
		mobile = digits[1:]
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		mobile = digits[2:]
	default:
		return "", false
	}
	if len(mobile) != 10 || mobile[0] < '6' || mobile[0] > '9' {
		return "", false
	}
	return "+91-" + mobile, true
}

// likelyPhone is the shape test shared with the bank-account extractor: a
// digit run that reads as a mobile number must not be double-counted as an
// account number.
func likelyPhone(num string) bool {
	d := digitsOnly(num)
	switch {
	case len(d) == 10:
		return d[0] >= '6' && d[0] <= '9'
	case len(d) == 11 && d[0] == '0':
		return d[1] >= '6' && d[1] <= '9'
	case len(d) == 12 && strings.HasPrefix(d, "91"):
		return d[2] >= '6' && d[2] <= '9'
	default:
		return false
	}
}

// extractHandlesAndEmails classifies local@domain tokens as payment handles
// or email addresses. A token stored under one category is never duplicated
// into the other.
func extractHandlesAndEmails(text string, s *Store) {
	for _, m := range atTokenPattern.FindAllStringSubmatchIndex(text, -1) {
		// Skip tokens inside URL paths; the link extractor owns those.
		if m[0] > 0 && (text[m[0]-1] == '/' || text[m[0]-1] == ':') {
			continue
		}
		full := strings.ToLower(text[m[0]:m[1]])
		domain := strings.ToLower(text[m[4]:m[5]])

		switch classifyAtToken(domain) {
		case tokenEmail:
			if !containsFold(s.PaymentHandles, full) {
				addUnique(&s.EmailAddresses, full)
			}
		case tokenHandle:
			if !containsFold(s.EmailAddresses, full) {
				addUnique(&s.PaymentHandles, full)
			}
		}
	}
}

type atTokenKind int

const (
	tokenSkip atTokenKind = iota
	tokenEmail
	tokenHandle
)

func classifyAtToken(domain string) atTokenKind {
	if strings.Contains(domain, ".") {
		if personalMailDomains[domain] {
			return tokenEmail
		}
		parts := strings.Split(domain, ".")
		if emailSuffixes[parts[len(parts)-1]] {
			return tokenEmail
		}
		// Dotted but unrecognised suffix: still read as an email address.
		return tokenEmail
	}
	if pspHandles[domain] {
		return tokenHandle
	}
	if len(domain) >= 2 && len(domain) <= 20 && handleShape.MatchString(domain) {
		return tokenHandle
	}
	return tokenSkip
}

func extractBankAccounts(text string, s *Store) {
	for _, m := range accountPattern.FindAllString(text, -1) {
		if !likelyPhone(m) {
			addUnique(&s.BankAccounts, m)
		}
	}
}

func extractLinks(text string, s *Store) {
	for _, m := range linkPattern.FindAllString(text, -1) {
		clean := strings.TrimRight(m, ".,;)]>")
		if len(clean) > 10 {
			addUnique(&s.Links, clean)
		}
	}
}

func extractCaseIDs(text string, s *Store) {
	// Short keyword glued to a value: REF2026001, CASE-12345, TKT/7890.
	for _, m := range caseGluedPattern.FindAllStringSubmatch(text, -1) {
		if val := strings.TrimSpace(m[1]); fourDigits.MatchString(val) {
			addUnique(&s.CaseIDs, strings.ToUpper(val))
		}
	}
	// Longer keyword with an optional label: "reference ID REF2026001".
	for _, m := range caseLabelPattern.FindAllStringSubmatch(text, -1) {
		if val := strings.TrimSpace(m[1]); fourDigits.MatchString(val) {
			addUnique(&s.CaseIDs, strings.ToUpper(val))
		}
	}
}

func extractPolicyNumbers(text string, s *Store) {
	for _, pattern := range policyPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			val := strings.ToUpper(strings.TrimSpace(captured(m)))
			if fourDigits.MatchString(val) {
				addUnique(&s.PolicyNumbers, val)
			}
		}
	}
}

func extractOrderNumbers(text string, s *Store) {
	for _, pattern := range orderPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			val := strings.ToUpper(strings.TrimSpace(captured(m)))
			if fourDigits.MatchString(val) {
				addUnique(&s.OrderNumbers, val)
			}
		}
	}
}

func extractSuspiciousKeywords(text string, s *Store) {
	lower := strings.ToLower(text)
	for _, keyword := range suspiciousVocabulary {
		if strings.Contains(lower, keyword) {
			addUnique(&s.SuspiciousKeywords, keyword)
		}
	}
}

func captured(m []string) string {
	if len(m) > 1 && m[1] != "" {
		return m[1]
	}
	return m[0]
}

func digitsOnly(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if isDigit(v[i]) {
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
