// Package conversation runs one viewer turn end to end: assemble the
// prompt, stream the model reply, cut it into chunks and hand each chunk to
// speech dispatch while remembering the exchange.
package conversation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/kitsunelabs/airi/internal/brain"
	"github.com/kitsunelabs/airi/internal/config"
	"github.com/kitsunelabs/airi/internal/memory"
	"github.com/kitsunelabs/airi/internal/textproc"
	"github.com/kitsunelabs/airi/internal/voice"
)

// TurnEvents receives progress callbacks during one turn. Any field may be
// nil.
type TurnEvents struct {
	OnDelta  func(delta string)
	OnSpeech func(plan textproc.SpeechPlan)
}

// Service owns the turn loop for one companion instance.
type Service struct {
	tables     *config.TableStore
	brain      brain.Adapter
	dispatcher *voice.Dispatcher
	window     *memory.Window
	store      memory.Store
	chunkCap   int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New wires a conversation service. seed fixes the interjection roll for
// tests; pass 0 for a time-based source.
func New(tables *config.TableStore, adapter brain.Adapter, dispatcher *voice.Dispatcher, window *memory.Window, store memory.Store, chunkCap int, seed int64) *Service {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{
		tables:     tables,
		brain:      adapter,
		dispatcher: dispatcher,
		window:     window,
		store:      store,
		chunkCap:   chunkCap,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// HandleMessage runs one viewer turn and returns the full reply text. On a
// model failure the apology line is spoken and returned alongside the error
// so the stream never goes silent.
func (s *Service) HandleMessage(ctx context.Context, sessionID, viewer, text string, ev TurnEvents) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("empty viewer message")
	}
	if viewer == "" {
		viewer = "Viewer"
	}

	s.window.Add(viewer, text)
	s.archive(ctx, sessionID, memory.RoleViewer, text, "")

	t := s.tables.Current()
	if interjection := s.rollInterjection(t); interjection != "" {
		s.speak(ctx, interjection, ev)
	}

	chunker := textproc.NewChunker(s.chunkCap, t.Slang)
	emotion := ""
	speakChunks := func(chunks []string) {
		for _, chunk := range chunks {
			if plan := s.speak(ctx, chunk, ev); plan.Emotion != "" && emotion == "" {
				emotion = plan.Emotion
			}
		}
	}

	res, err := s.brain.StreamGenerate(ctx, brain.GenerateRequest{Prompt: s.buildPrompt(t)}, func(delta string) error {
		if ev.OnDelta != nil {
			ev.OnDelta(delta)
		}
		speakChunks(chunker.Push(delta))
		return nil
	})
	if err != nil {
		speakChunks(chunker.Flush())
		s.speak(ctx, brain.ApologyLine, ev)
		s.window.Add(t.StreamerName, brain.ApologyLine)
		return brain.ApologyLine, fmt.Errorf("model turn failed: %w", err)
	}
	speakChunks(chunker.Flush())

	reply := strings.TrimSpace(res.Text)
	s.window.Add(t.StreamerName, reply)
	s.archive(ctx, sessionID, memory.RoleAiri, reply, emotion)
	return reply, nil
}

// ClearConversation forgets the rolling window and the archived transcript
// for a session.
func (s *Service) ClearConversation(ctx context.Context, sessionID string) error {
	s.window.Clear()
	return s.store.ClearSession(ctx, sessionID)
}

// Transcript returns the archived turns for a session, oldest first.
func (s *Service) Transcript(ctx context.Context, sessionID string, limit int) ([]memory.TurnRecord, error) {
	return s.store.RecentTurns(ctx, sessionID, limit)
}

func (s *Service) buildPrompt(t *config.Tables) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(t.PersonaPrompt))
	b.WriteString("\n\n")
	for _, line := range s.window.Lines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(t.StreamerName)
	b.WriteString(":")
	return b.String()
}

// rollInterjection sometimes opens the reply with a filler word.
func (s *Service) rollInterjection(t *config.Tables) string {
	if len(t.Interjections) == 0 || t.InterjectionChance <= 0 {
		return ""
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	if s.rng.Float64() >= t.InterjectionChance {
		return ""
	}
	return t.Interjections[s.rng.Intn(len(t.Interjections))]
}

func (s *Service) speak(ctx context.Context, chunk string, ev TurnEvents) textproc.SpeechPlan {
	plan, err := s.dispatcher.Dispatch(ctx, chunk)
	if err != nil {
		log.Printf("conversation: chunk dropped: %v", err)
		return plan
	}
	if !plan.Empty() && ev.OnSpeech != nil {
		ev.OnSpeech(plan)
	}
	return plan
}

func (s *Service) archive(ctx context.Context, sessionID, role, content, emotion string) {
	if s.store == nil || content == "" {
		return
	}
	err := s.store.SaveTurn(ctx, memory.TurnRecord{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Emotion:   emotion,
	})
	if err != nil {
		log.Printf("conversation: archive %s turn: %v", role, err)
	}
}
