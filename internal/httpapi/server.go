package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/thedefenders/honeytrap/internal/config"
	"github.com/thedefenders/honeytrap/internal/engine"
	"github.com/thedefenders/honeytrap/internal/feed"
	"github.com/thedefenders/honeytrap/internal/observability"
)

// Processor is the engine surface the intake boundary needs.
type Processor interface {
	Process(ctx context.Context, sessionID string, msg engine.Inbound) engine.Result
}

type Server struct {
	cfg      config.Config
	engine   Processor
	hub      *feed.Hub
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, proc Processor, hub *feed.Hub, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		engine:  proc,
		hub:     hub,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin. Non-browser clients omit Origin and are allowed.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/honeypot", s.handleHoneypot)
		r.Get("/v1/feed/ws", s.handleFeedWS)
	})

	return r
}

// requireAPIKey rejects requests without the configured X-API-Key header.
// When no key is configured the check is disabled.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get("X-API-Key")
		if key == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing x-api-key header")
			return
		}
		if key != s.cfg.APIKey {
			respondError(w, http.StatusUnauthorized, "unauthorized", "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":           "ready",
		"feed_subscribers": s.hub.SubscriberCount(),
	})
}

type inboundMessage struct {
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type honeypotRequest struct {
	SessionID string          `json:"sessionId"`
	Message   *inboundMessage `json:"message"`
	Metadata  map[string]any  `json:"metadata"`
}

type honeypotResponse struct {
	Status        string  `json:"status"`
	ScamDetected  bool    `json:"scamDetected"`
	SessionClosed bool    `json:"sessionClosed"`
	Reply         *string `json:"reply"`
}

type validationResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// validate collects every problem with the request body so the caller can fix
// them all at once.
func (req *honeypotRequest) validate() []string {
	var details []string
	if strings.TrimSpace(req.SessionID) == "" {
		details = append(details, "sessionId is required and must be a non-empty string")
	}
	if req.Message == nil {
		details = append(details, "message object is required")
	} else if strings.TrimSpace(req.Message.Text) == "" {
		details = append(details, "message.text is required and must be a non-empty string")
	}
	return details
}

func (s *Server) handleHoneypot(w http.ResponseWriter, r *http.Request) {
	var req honeypotRequest
	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			respondJSON(w, http.StatusBadRequest, validationResponse{
				Error:   "Invalid request body",
				Details: []string{"request body is required"},
			})
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if details := req.validate(); len(details) > 0 {
		respondJSON(w, http.StatusBadRequest, validationResponse{
			Error:   "Invalid request body",
			Details: details,
		})
		return
	}

	var ts time.Time
	if raw := strings.TrimSpace(req.Message.Timestamp); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			ts = parsed
		}
	}

	res := s.engine.Process(r.Context(), strings.TrimSpace(req.SessionID), engine.Inbound{
		Text:      req.Message.Text,
		Sender:    req.Message.Sender,
		Timestamp: ts,
		Metadata:  req.Metadata,
	})

	resp := honeypotResponse{
		Status:        "success",
		ScamDetected:  res.ScamDetected,
		SessionClosed: res.SessionClosed,
	}
	if res.HasReply {
		reply := res.Reply
		resp.Reply = &reply
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleFeedWS streams session lifecycle events to an operator console. One
// writer goroutine owns the connection; the read loop only watches for close.
func (s *Server) handleFeedWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("feed_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("feed_disconnected").Inc()

	events := s.hub.Subscribe()
	defer s.hub.Unsubscribe(events)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		conn.SetReadLimit(1 << 10)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
