// Package protocol defines the websocket payloads between viewer clients
// and the companion.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeViewerMessage MessageType = "viewer_message"
	TypeViewerControl MessageType = "viewer_control"
	TypeTextDelta     MessageType = "text_delta"
	TypeSpeechChunk   MessageType = "speech_chunk"
	TypeTurnEnd       MessageType = "turn_end"
	TypeSystemEvent   MessageType = "system_event"
	TypeErrorEvent    MessageType = "error_event"
)

// Control actions accepted on viewer_control.
const (
	ActionClear = "clear"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ViewerMessage is one chat line from a viewer.
type ViewerMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Viewer    string      `json:"viewer,omitempty"`
	Text      string      `json:"text"`
}

// ViewerControl carries session-level commands.
type ViewerControl struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Action    string      `json:"action"`
}

// TextDelta streams raw model text as it arrives, before styling.
type TextDelta struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	TurnID    string      `json:"turn_id"`
	TextDelta string      `json:"text_delta"`
}

// SpeechChunk announces one styled chunk entering the playback queue.
type SpeechChunk struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	TurnID    string      `json:"turn_id"`
	Seq       int         `json:"seq"`
	Text      string      `json:"text"`
	Emotion   string      `json:"emotion"`
	Language  string      `json:"language"`
	Pitch     float64     `json:"pitch"`
	Rate      float64     `json:"rate"`
}

// TurnEnd closes a turn with the full reply text.
type TurnEnd struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	TurnID    string      `json:"turn_id"`
	Reason    string      `json:"reason"`
	Reply     string      `json:"reply,omitempty"`
}

type SystemEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail,omitempty"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail"`
}

// ParseClientMessage decodes and validates one inbound payload.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeViewerMessage:
		var msg ViewerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || msg.Text == "" {
			return nil, errors.New("invalid viewer_message")
		}
		return msg, nil
	case TypeViewerControl:
		var msg ViewerControl
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || msg.Action == "" {
			return nil, errors.New("invalid viewer_control")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
