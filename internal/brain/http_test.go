package brain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPAdapterClassify(t *testing.T) {
	var gotPath string
	var gotReq ClassifyRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(Verdict{
			ScamDetected: true,
			Handoff:      true,
			Intent:       IntentScam,
			Confidence:   0.88,
			Reason:       "urgency plus payment demand",
			Category:     CategoryKYCFraud,
		})
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL + "/")
	v, err := a.Classify(context.Background(), ClassifyRequest{
		SessionID: "s1",
		Recent:    []TurnContext{{Role: "sender", Text: "update your kyc now"}},
	})
	if err != nil {
		t.Fatalf("classify err = %v", err)
	}
	if gotPath != "/classify" {
		t.Fatalf("path = %q, want /classify", gotPath)
	}
	if gotReq.SessionID != "s1" {
		t.Fatalf("request session id = %q, want s1", gotReq.SessionID)
	}
	if v.Category != CategoryKYCFraud || v.Confidence != 0.88 {
		t.Fatalf("verdict = %+v", v)
	}
}

func TestHTTPAdapterRejectsInvalidVerdict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"scamDetected":true,"intent":"scam","confidence":7,"scamType":"kyc_fraud"}`))
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL)
	_, err := a.Classify(context.Background(), ClassifyRequest{SessionID: "s1"})
	if err == nil {
		t.Fatalf("classify with out-of-range confidence = nil error, want invalid verdict")
	}
	if !strings.Contains(err.Error(), "invalid verdict") {
		t.Fatalf("err = %v, want invalid verdict", err)
	}
}

func TestHTTPAdapterClassifyErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL)
	_, err := a.Classify(context.Background(), ClassifyRequest{SessionID: "s1"})
	if err == nil {
		t.Fatalf("classify against 503 = nil error, want failure")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("err = %v, want status in message", err)
	}
}

func TestHTTPAdapterReply(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "  What's your helpline number?  "})
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL)
	reply, err := a.Reply(context.Background(), ReplyRequest{SessionID: "s1", Category: CategoryBankFraud})
	if err != nil {
		t.Fatalf("reply err = %v", err)
	}
	if gotPath != "/reply" {
		t.Fatalf("path = %q, want /reply", gotPath)
	}
	if reply != "What's your helpline number?" {
		t.Fatalf("reply = %q, want trimmed text", reply)
	}
}

func TestHTTPAdapterRejectsEmptyReply(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "   "})
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL)
	if _, err := a.Reply(context.Background(), ReplyRequest{SessionID: "s1"}); err == nil {
		t.Fatalf("blank reply accepted, want error")
	}
}
