package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStyleFallsBackToNeutral(t *testing.T) {
	tables := DefaultTables()

	got := tables.Style("definitely-not-a-label")
	want := tables.Style("neutral")
	if got != want {
		t.Fatalf("Style(unknown) = %+v, want neutral profile %+v", got, want)
	}
}

func TestStyleIsCaseInsensitive(t *testing.T) {
	tables := DefaultTables()

	if got, want := tables.Style("  HAPPY "), tables.Style("happy"); got != want {
		t.Fatalf("Style(\"  HAPPY \") = %+v, want %+v", got, want)
	}
}

func TestStyleNormalizesZeroFields(t *testing.T) {
	tables := &Tables{Styles: map[string]StyleProfile{
		"odd": {VowelDrag: true},
	}}

	got := tables.Style("odd")
	if got.Tempo != TempoNormal {
		t.Fatalf("Tempo = %q, want %q", got.Tempo, TempoNormal)
	}
	if got.VowelMultiplier != 1 {
		t.Fatalf("VowelMultiplier = %d, want 1", got.VowelMultiplier)
	}
	if got.ConsonantStrength != 1.0 {
		t.Fatalf("ConsonantStrength = %v, want 1.0", got.ConsonantStrength)
	}
}

func TestPitchRateForUnknownLabel(t *testing.T) {
	tables := DefaultTables()

	got := tables.PitchRateFor("bored")
	if got.Pitch != 1.0 || got.Rate != 1.0 {
		t.Fatalf("PitchRateFor(unknown) = %+v, want {1.0 1.0}", got)
	}
}

func TestLoadTablesEmptyPathReturnsDefaults(t *testing.T) {
	tables, err := LoadTables("")
	if err != nil {
		t.Fatalf("LoadTables(\"\") error: %v", err)
	}
	if tables.StreamerName != DefaultTables().StreamerName {
		t.Fatalf("StreamerName = %q, want default %q", tables.StreamerName, DefaultTables().StreamerName)
	}
}

func TestLoadTablesFromReaderMergesOverDefaults(t *testing.T) {
	doc := `
streamer_name: Yuki
styles:
  Excited:
    tempo: fast
    vowel_drag: true
    vowel_multiplier: 3
actions:
  Wave: "hi hi"
`
	tables, err := LoadTablesFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadTablesFromReader() error: %v", err)
	}

	if tables.StreamerName != "Yuki" {
		t.Fatalf("StreamerName = %q, want %q", tables.StreamerName, "Yuki")
	}
	// Untouched tables keep their defaults.
	if len(tables.EmojiSpeech) == 0 {
		t.Fatalf("EmojiSpeech lost in merge")
	}
	if tables.MaxMemoryTurns != DefaultTables().MaxMemoryTurns {
		t.Fatalf("MaxMemoryTurns = %d, want default %d", tables.MaxMemoryTurns, DefaultTables().MaxMemoryTurns)
	}

	// Map-shaped tables replace wholesale, keys lowercased.
	style := tables.Style("excited")
	if style.Tempo != TempoFast || !style.VowelDrag || style.VowelMultiplier != 3 {
		t.Fatalf("Style(excited) = %+v, want fast/drag/x3", style)
	}
	if got := tables.Action("wave"); got != "hi hi" {
		t.Fatalf("Action(wave) = %q, want %q", got, "hi hi")
	}

	// Replacing the styles map must not drop the neutral fallback.
	if _, ok := tables.Styles["neutral"]; !ok {
		t.Fatalf("merged styles missing neutral fallback")
	}
}

func TestLoadTablesFromReaderEmptyDocument(t *testing.T) {
	tables, err := LoadTablesFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadTablesFromReader(empty) error: %v", err)
	}
	if tables.StreamerName != DefaultTables().StreamerName {
		t.Fatalf("StreamerName = %q, want default", tables.StreamerName)
	}
}

func TestTableStoreSwap(t *testing.T) {
	store := NewTableStore(nil)
	if store.Current() == nil {
		t.Fatalf("Current() = nil after NewTableStore(nil)")
	}

	next := DefaultTables()
	next.StreamerName = "Yuki"
	store.Swap(next)
	if got := store.Current().StreamerName; got != "Yuki" {
		t.Fatalf("Current().StreamerName = %q, want %q", got, "Yuki")
	}

	store.Swap(nil)
	if got := store.Current().StreamerName; got != "Yuki" {
		t.Fatalf("Swap(nil) replaced snapshot, StreamerName = %q", got)
	}
}

func TestTablesWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	if err := os.WriteFile(path, []byte("streamer_name: First\n"), 0o644); err != nil {
		t.Fatalf("write persona file: %v", err)
	}

	store := NewTableStore(nil)
	watcher, err := NewTablesWatcher(path, 10*time.Millisecond, store)
	if err != nil {
		t.Fatalf("NewTablesWatcher() error: %v", err)
	}
	defer watcher.Stop()

	if got := store.Current().StreamerName; got != "First" {
		t.Fatalf("initial StreamerName = %q, want %q", got, "First")
	}

	if err := os.WriteFile(path, []byte("streamer_name: Second\n"), 0o644); err != nil {
		t.Fatalf("rewrite persona file: %v", err)
	}
	// Force a visible mtime change regardless of filesystem granularity.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Current().StreamerName == "Second" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("watcher never picked up the edited persona file")
}

func TestTablesWatcherReloadHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	if err := os.WriteFile(path, []byte("streamer_name: First\n"), 0o644); err != nil {
		t.Fatalf("write persona file: %v", err)
	}

	store := NewTableStore(nil)
	watcher, err := NewTablesWatcher(path, 10*time.Millisecond, store)
	if err != nil {
		t.Fatalf("NewTablesWatcher() error: %v", err)
	}
	defer watcher.Stop()

	var mu sync.Mutex
	var results []error
	watcher.SetReloadHook(func(err error) {
		mu.Lock()
		results = append(results, err)
		mu.Unlock()
	})

	// A broken edit keeps the old snapshot and reports the error.
	if err := os.WriteFile(path, []byte("{invalid: [\n"), 0o644); err != nil {
		t.Fatalf("rewrite persona file: %v", err)
	}
	bump := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, bump, bump); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) >= 1
	}, "reload hook never fired for the broken edit")
	mu.Lock()
	if results[0] == nil {
		t.Fatalf("hook result for broken edit = nil, want error")
	}
	mu.Unlock()
	if got := store.Current().StreamerName; got != "First" {
		t.Fatalf("StreamerName = %q after broken edit, want %q", got, "First")
	}

	// A good edit swaps the snapshot and reports success.
	if err := os.WriteFile(path, []byte("streamer_name: Second\n"), 0o644); err != nil {
		t.Fatalf("rewrite persona file: %v", err)
	}
	bump = bump.Add(2 * time.Second)
	if err := os.Chtimes(path, bump, bump); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) > 0 && results[len(results)-1] == nil
	}, "watcher never picked up the repaired persona file")
	if got := store.Current().StreamerName; got != "Second" {
		t.Fatalf("StreamerName = %q after repaired edit, want %q", got, "Second")
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s", msg)
}

func TestTablesWatcherInitialLoadFailure(t *testing.T) {
	_, err := NewTablesWatcher(filepath.Join(t.TempDir(), "missing.yaml"), time.Second, NewTableStore(nil))
	if err == nil {
		t.Fatalf("NewTablesWatcher(missing file) expected error")
	}
}
