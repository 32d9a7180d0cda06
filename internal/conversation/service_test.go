package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kitsunelabs/airi/internal/brain"
	"github.com/kitsunelabs/airi/internal/config"
	"github.com/kitsunelabs/airi/internal/memory"
	"github.com/kitsunelabs/airi/internal/textproc"
	"github.com/kitsunelabs/airi/internal/voice"
)

type scriptedBrain struct {
	deltas     []string
	err        error
	lastPrompt string
}

func (b *scriptedBrain) StreamGenerate(ctx context.Context, req brain.GenerateRequest, onDelta brain.DeltaHandler) (brain.GenerateResponse, error) {
	b.lastPrompt = req.Prompt
	var sb strings.Builder
	for _, d := range b.deltas {
		sb.WriteString(d)
		if onDelta != nil {
			if err := onDelta(d); err != nil {
				return brain.GenerateResponse{}, err
			}
		}
	}
	if b.err != nil {
		return brain.GenerateResponse{}, b.err
	}
	return brain.GenerateResponse{Text: sb.String()}, nil
}

type neutralClassifier struct{}

func (neutralClassifier) Classify(ctx context.Context, text string) (string, error) {
	return "neutral", nil
}

func newTestService(t *testing.T, tables *config.Tables, adapter brain.Adapter) (*Service, *voice.Player) {
	t.Helper()
	store := config.NewTableStore(tables)
	pipeline := textproc.NewPipeline(store, neutralClassifier{}, nil, func(string) string { return "en" })
	player := voice.NewPlayer(func(ctx context.Context, item voice.PlaybackItem) error { return nil }, 16, nil)
	dispatcher := voice.NewDispatcher(pipeline, voice.NewMockSynthesizer(24000), player, nil, nil, voice.DispatcherConfig{
		ArtifactDir: t.TempDir(),
	})
	svc := New(store, adapter, dispatcher, memory.NewWindow(6), memory.NewInMemoryStore(), 150, 1)
	return svc, player
}

func noInterjections(t *testing.T) *config.Tables {
	t.Helper()
	tables := config.DefaultTables()
	tables.InterjectionChance = 0
	return tables
}

func TestHandleMessageSpeaksStreamedChunks(t *testing.T) {
	adapter := &scriptedBrain{deltas: []string{"Hello there. ", "How are you?"}}
	svc, player := newTestService(t, noInterjections(t), adapter)
	defer player.Close()

	var spoken []string
	reply, err := svc.HandleMessage(context.Background(), "stream-1", "Bob", "hi", TurnEvents{
		OnSpeech: func(plan textproc.SpeechPlan) { spoken = append(spoken, plan.Text) },
	})
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "Hello there. How are you?" {
		t.Fatalf("reply = %q, want full model text", reply)
	}
	if len(spoken) != 2 {
		t.Fatalf("spoken chunks = %v, want 2", spoken)
	}
	if spoken[0] != "Hello there." || spoken[1] != "How are you?" {
		t.Fatalf("spoken = %v, want sentence chunks in order", spoken)
	}
}

func TestHandleMessageArchivesBothTurns(t *testing.T) {
	adapter := &scriptedBrain{deltas: []string{"Nice to meet you!"}}
	svc, player := newTestService(t, noInterjections(t), adapter)
	defer player.Close()

	if _, err := svc.HandleMessage(context.Background(), "stream-1", "Bob", "hello", TurnEvents{}); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	turns, err := svc.Transcript(context.Background(), "stream-1", 0)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("archived turns = %d, want 2", len(turns))
	}
	if turns[0].Role != memory.RoleViewer || turns[1].Role != memory.RoleAiri {
		t.Fatalf("turn roles = %q, %q, want viewer then airi", turns[0].Role, turns[1].Role)
	}
}

func TestHandleMessagePromptCarriesPersonaAndHistory(t *testing.T) {
	adapter := &scriptedBrain{deltas: []string{"ok."}}
	svc, player := newTestService(t, noInterjections(t), adapter)
	defer player.Close()

	if _, err := svc.HandleMessage(context.Background(), "s", "Bob", "hi there", TurnEvents{}); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if !strings.Contains(adapter.lastPrompt, "Bob: hi there") {
		t.Fatalf("prompt missing viewer line:\n%s", adapter.lastPrompt)
	}
	if !strings.HasSuffix(adapter.lastPrompt, "Airi:") {
		t.Fatalf("prompt does not end with speaker cue:\n%s", adapter.lastPrompt)
	}
}

func TestHandleMessageModelFailureSpeaksApology(t *testing.T) {
	adapter := &scriptedBrain{err: errors.New("connection refused")}
	svc, player := newTestService(t, noInterjections(t), adapter)
	defer player.Close()

	var spoken []string
	reply, err := svc.HandleMessage(context.Background(), "s", "Bob", "hi", TurnEvents{
		OnSpeech: func(plan textproc.SpeechPlan) { spoken = append(spoken, plan.Text) },
	})
	if err == nil {
		t.Fatalf("HandleMessage() error = nil, want model failure")
	}
	if reply != brain.ApologyLine {
		t.Fatalf("reply = %q, want apology line", reply)
	}
	if len(spoken) == 0 {
		t.Fatalf("nothing spoken on failure, want apology chunk")
	}
}

func TestHandleMessageInterjectionAlwaysOnWhenChanceIsOne(t *testing.T) {
	tables := config.DefaultTables()
	tables.InterjectionChance = 1.0
	adapter := &scriptedBrain{deltas: []string{"Sure thing."}}
	svc, player := newTestService(t, tables, adapter)
	defer player.Close()

	var spoken []string
	if _, err := svc.HandleMessage(context.Background(), "s", "Bob", "hi", TurnEvents{
		OnSpeech: func(plan textproc.SpeechPlan) { spoken = append(spoken, plan.Text) },
	}); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(spoken) != 2 {
		t.Fatalf("spoken = %v, want interjection plus reply", spoken)
	}
}

func TestClearConversationForgetsEverything(t *testing.T) {
	adapter := &scriptedBrain{deltas: []string{"Hi!"}}
	svc, player := newTestService(t, noInterjections(t), adapter)
	defer player.Close()

	if _, err := svc.HandleMessage(context.Background(), "s", "Bob", "hello", TurnEvents{}); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if err := svc.ClearConversation(context.Background(), "s"); err != nil {
		t.Fatalf("ClearConversation() error = %v", err)
	}
	turns, err := svc.Transcript(context.Background(), "s", 0)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("turns after clear = %d, want 0", len(turns))
	}

	if _, err := svc.HandleMessage(context.Background(), "s", "Bob", "again", TurnEvents{}); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if strings.Contains(adapter.lastPrompt, "hello") {
		t.Fatalf("prompt still carries cleared history:\n%s", adapter.lastPrompt)
	}
}
