package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kitsunelabs/airi/internal/conversation"
	"github.com/kitsunelabs/airi/internal/protocol"
	"github.com/kitsunelabs/airi/internal/textproc"
)

// handleChatWS upgrades to a websocket and runs viewer turns over it. All
// writes go through a single writer goroutine; turns run sequentially in
// the connection worker so speech order matches chat order.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}
	if _, err := s.sessions.Get(sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	inbound := make(chan any, 64)
	outbound := make(chan any, 256)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		s.runConnection(ctx, sessionID, inbound, outbound)
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

readLoop:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			send(ctx, outbound, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "invalid_client_message",
				Detail:    err.Error(),
			})
			continue
		}
		select {
		case <-ctx.Done():
			break readLoop
		case inbound <- parsed:
		}
	}

	cancel()
	close(inbound)
	<-runDone
	<-writerDone
}

// runConnection consumes inbound messages one at a time.
func (s *Server) runConnection(ctx context.Context, sessionID string, inbound <-chan any, outbound chan<- any) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			switch m := msg.(type) {
			case protocol.ViewerMessage:
				s.runTurn(ctx, sessionID, m, outbound)
			case protocol.ViewerControl:
				s.runControl(ctx, sessionID, m, outbound)
			}
		}
	}
}

func (s *Server) runTurn(ctx context.Context, sessionID string, msg protocol.ViewerMessage, outbound chan<- any) {
	turnID := uuid.NewString()
	_ = s.sessions.StartTurn(sessionID, turnID)

	seq := 0
	reply, err := s.convo.HandleMessage(ctx, sessionID, msg.Viewer, msg.Text, conversation.TurnEvents{
		OnDelta: func(delta string) {
			send(ctx, outbound, protocol.TextDelta{
				Type:      protocol.TypeTextDelta,
				SessionID: sessionID,
				TurnID:    turnID,
				TextDelta: delta,
			})
		},
		OnSpeech: func(plan textproc.SpeechPlan) {
			send(ctx, outbound, speechChunkEvent(sessionID, turnID, seq, plan))
			seq++
		},
	})

	reason := "completed"
	if err != nil {
		reason = "error"
	}
	send(ctx, outbound, protocol.TurnEnd{
		Type:      protocol.TypeTurnEnd,
		SessionID: sessionID,
		TurnID:    turnID,
		Reason:    reason,
		Reply:     reply,
	})
}

func (s *Server) runControl(ctx context.Context, sessionID string, msg protocol.ViewerControl, outbound chan<- any) {
	switch msg.Action {
	case protocol.ActionClear:
		if err := s.convo.ClearConversation(ctx, sessionID); err != nil {
			send(ctx, outbound, protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "clear_failed",
				Detail:    err.Error(),
			})
			return
		}
		send(ctx, outbound, protocol.SystemEvent{
			Type:      protocol.TypeSystemEvent,
			SessionID: sessionID,
			Code:      "conversation_cleared",
		})
	default:
		send(ctx, outbound, protocol.ErrorEvent{
			Type:      protocol.TypeErrorEvent,
			SessionID: sessionID,
			Code:      "unknown_action",
			Detail:    msg.Action,
		})
	}
}

// send queues an outbound event, dropping it when the writer is saturated.
// Websocket writes stay single-threaded.
func send(ctx context.Context, outbound chan<- any, msg any) {
	select {
	case <-ctx.Done():
	case outbound <- msg:
	default:
	}
}
