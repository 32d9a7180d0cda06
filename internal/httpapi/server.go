// Package httpapi exposes the companion over HTTP: a synchronous chat
// endpoint, a streaming websocket, style table inspection and transcript
// access.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kitsunelabs/airi/internal/config"
	"github.com/kitsunelabs/airi/internal/conversation"
	"github.com/kitsunelabs/airi/internal/memory"
	"github.com/kitsunelabs/airi/internal/observability"
	"github.com/kitsunelabs/airi/internal/protocol"
	"github.com/kitsunelabs/airi/internal/session"
	"github.com/kitsunelabs/airi/internal/textproc"
)

// Conversationalist runs viewer turns. Implemented by conversation.Service.
type Conversationalist interface {
	HandleMessage(ctx context.Context, sessionID, viewer, text string, ev conversation.TurnEvents) (string, error)
	ClearConversation(ctx context.Context, sessionID string) error
	Transcript(ctx context.Context, sessionID string, limit int) ([]memory.TurnRecord, error)
}

type Server struct {
	cfg      config.Config
	sessions *session.Manager
	convo    Conversationalist
	tables   *config.TableStore
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, convo Conversationalist, tables *config.TableStore, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		convo:    convo,
		tables:   tables,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only same-origin browser connections unless explicitly
				// opened up; other sites must not drive the stream.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
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
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/session", s.handleCreateSession)
	r.Post("/v1/session/{id}/end", s.handleEndSession)
	r.Post("/v1/chat", s.handleChat)
	r.Get("/v1/chat/ws", s.handleChatWS)
	r.Get("/v1/styles", s.handleStyles)
	r.Get("/v1/conversation", s.handleGetConversation)
	r.Delete("/v1/conversation", s.handleClearConversation)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": s.sessions.ActiveCount(),
	})
}

type createSessionRequest struct {
	Viewer  string `json:"viewer"`
	VoiceID string `json:"voice_id"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Viewer) == "" {
		req.Viewer = "Viewer"
	}
	if strings.TrimSpace(req.VoiceID) == "" {
		if voices := s.tables.Current().Voices; len(voices) > 0 {
			req.VoiceID = voices[0]
		}
	}

	sess := s.sessions.Create(req.Viewer, req.VoiceID)
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	}
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.End(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	}
	respondJSON(w, http.StatusOK, sess)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Viewer    string `json:"viewer"`
	Text      string `json:"text"`
}

type chatResponse struct {
	SessionID string                 `json:"session_id"`
	Reply     string                 `json:"reply"`
	Chunks    []protocol.SpeechChunk `json:"chunks"`
}

// handleChat runs one full turn synchronously. Chunks still go through the
// playback queue; the response lists what was enqueued.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = "default"
	} else if err := s.sessions.Touch(sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	turnID := uuid.NewString()
	var chunks []protocol.SpeechChunk
	reply, err := s.convo.HandleMessage(r.Context(), sessionID, req.Viewer, req.Text, conversation.TurnEvents{
		OnSpeech: func(plan textproc.SpeechPlan) {
			chunks = append(chunks, speechChunkEvent(sessionID, turnID, len(chunks), plan))
		},
	})
	if err != nil && reply == "" {
		respondError(w, http.StatusBadGateway, "turn_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{SessionID: sessionID, Reply: reply, Chunks: chunks})
}

func (s *Server) handleStyles(w http.ResponseWriter, _ *http.Request) {
	t := s.tables.Current()
	respondJSON(w, http.StatusOK, map[string]any{
		"styles":              t.Styles,
		"pitch_rates":         t.PitchRates,
		"voices":              t.Voices,
		"supported_languages": t.SupportedLanguages,
		"interjections":       t.Interjections,
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		sessionID = "default"
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	turns, err := s.convo.Transcript(r.Context(), sessionID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "transcript_failed", err.Error())
		return
	}
	if turns == nil {
		turns = []memory.TurnRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"session_id": sessionID, "turns": turns})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		sessionID = "default"
	}
	if err := s.convo.ClearConversation(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "clear_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"session_id": sessionID, "cleared": true})
}

func speechChunkEvent(sessionID, turnID string, seq int, plan textproc.SpeechPlan) protocol.SpeechChunk {
	return protocol.SpeechChunk{
		Type:      protocol.TypeSpeechChunk,
		SessionID: sessionID,
		TurnID:    turnID,
		Seq:       seq,
		Text:      plan.Text,
		Emotion:   plan.Emotion,
		Language:  plan.Language,
		Pitch:     plan.Pitch,
		Rate:      plan.Rate,
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
