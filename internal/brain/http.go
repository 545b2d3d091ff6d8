package brain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPAdapter forwards classification and reply generation to a remote
// completion service speaking plain request/response JSON.
type HTTPAdapter struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAdapter(baseURL string) *HTTPAdapter {
	return &HTTPAdapter{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (a *HTTPAdapter) Classify(ctx context.Context, req ClassifyRequest) (Verdict, error) {
	body, err := a.post(ctx, a.baseURL+"/classify", req)
	if err != nil {
		return Verdict{}, err
	}

	var v Verdict
	if err := json.Unmarshal(body, &v); err != nil {
		return Verdict{}, fmt.Errorf("decode verdict: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Verdict{}, fmt.Errorf("invalid verdict: %w", err)
	}
	return v, nil
}

func (a *HTTPAdapter) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	body, err := a.post(ctx, a.baseURL+"/reply", req)
	if err != nil {
		return "", err
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode reply: %w", err)
	}
	reply := strings.TrimSpace(out.Reply)
	if reply == "" {
		return "", fmt.Errorf("empty reply from service")
	}
	return reply, nil
}

func (a *HTTPAdapter) post(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("brain http status %d: %s", res.StatusCode, string(snippet))
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	return body, nil
}
