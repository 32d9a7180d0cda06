package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPlayerPlaysInFIFOOrder(t *testing.T) {
	var mu sync.Mutex
	var played []string
	p := NewPlayer(func(ctx context.Context, item PlaybackItem) error {
		mu.Lock()
		played = append(played, item.Text)
		mu.Unlock()
		return nil
	}, 8, nil)

	for _, text := range []string{"first", "second", "third"} {
		if !p.Enqueue(PlaybackItem{Text: text}) {
			t.Fatalf("Enqueue(%q) = false, want true", text)
		}
	}
	p.Close()

	if len(played) != 3 {
		t.Fatalf("played %d items, want 3", len(played))
	}
	for i, want := range []string{"first", "second", "third"} {
		if played[i] != want {
			t.Fatalf("played[%d] = %q, want %q", i, played[i], want)
		}
	}
}

func TestPlayerCloseDrainsQueue(t *testing.T) {
	var mu sync.Mutex
	count := 0
	p := NewPlayer(func(ctx context.Context, item PlaybackItem) error {
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}, 16, nil)

	for i := 0; i < 5; i++ {
		p.Enqueue(PlaybackItem{Text: "x"})
	}
	p.Close()

	if count != 5 {
		t.Fatalf("played %d items after Close, want all 5", count)
	}
}

func TestPlayerEnqueueAfterCloseIsRejected(t *testing.T) {
	p := NewPlayer(func(ctx context.Context, item PlaybackItem) error { return nil }, 4, nil)
	p.Close()
	if p.Enqueue(PlaybackItem{Text: "late"}) {
		t.Fatalf("Enqueue() after Close = true, want false")
	}
}

func TestPlayerFailedItemDoesNotStopWorker(t *testing.T) {
	var mu sync.Mutex
	var played []string
	p := NewPlayer(func(ctx context.Context, item PlaybackItem) error {
		mu.Lock()
		defer mu.Unlock()
		if item.Text == "bad" {
			return errors.New("device busy")
		}
		played = append(played, item.Text)
		return nil
	}, 8, nil)

	p.Enqueue(PlaybackItem{Text: "bad"})
	p.Enqueue(PlaybackItem{Text: "good"})
	p.Close()

	if len(played) != 1 || played[0] != "good" {
		t.Fatalf("played = %v, want [good]", played)
	}
}

func TestPlayerObservesQueueDepth(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var depths []int
	p := NewPlayer(func(ctx context.Context, item PlaybackItem) error {
		<-release
		return nil
	}, 8, func(depth int) {
		mu.Lock()
		depths = append(depths, depth)
		mu.Unlock()
	})

	p.Enqueue(PlaybackItem{Text: "a"})
	p.Enqueue(PlaybackItem{Text: "b"})
	close(release)
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(depths) == 0 {
		t.Fatalf("depth observer never called")
	}
}
