package voice

import (
	"context"
	"log"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/kitsunelabs/airi/internal/audio"
)

// PlaybackItem is one synthesized artifact waiting its turn.
type PlaybackItem struct {
	Path     string
	Text     string
	Duration time.Duration
}

// PlayFunc plays one artifact to completion.
type PlayFunc func(ctx context.Context, item PlaybackItem) error

// Player owns the playback queue. A single worker plays items strictly in
// enqueue order; a failed item is logged and skipped, never replayed.
// Close stops intake and drains everything already queued before returning
// the worker.
type Player struct {
	queue   chan PlaybackItem
	done    chan struct{}
	play    PlayFunc
	onDepth func(int)

	mu     sync.Mutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPlayer starts the playback worker. onDepth, when set, observes the
// queue depth after every enqueue and dequeue.
func NewPlayer(play PlayFunc, queueSize int, onDepth func(int)) *Player {
	if queueSize <= 0 {
		queueSize = 64
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		queue:   make(chan PlaybackItem, queueSize),
		done:    make(chan struct{}),
		play:    play,
		onDepth: onDepth,
		ctx:     ctx,
		cancel:  cancel,
	}
	go p.run()
	return p
}

// Enqueue adds an item to the back of the queue. It reports false when the
// player is closed or the queue is full; the caller drops the chunk.
func (p *Player) Enqueue(item PlaybackItem) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.queue <- item:
		p.observeDepth()
		return true
	default:
		return false
	}
}

// QueueDepth reports how many items are waiting.
func (p *Player) QueueDepth() int {
	return len(p.queue)
}

// Close stops intake, lets the worker finish everything already queued and
// waits for it to exit.
func (p *Player) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}

// Abort cancels in-flight playback and discards the rest of the queue.
func (p *Player) Abort() {
	p.cancel()
	p.Close()
}

func (p *Player) run() {
	defer close(p.done)
	for item := range p.queue {
		p.observeDepth()
		if p.ctx.Err() == nil {
			if err := p.play(p.ctx, item); err != nil && p.ctx.Err() == nil {
				log.Printf("voice: playback failed for %q: %v", item.Text, err)
			}
		}
		if item.Path != "" {
			if err := audio.RemoveWithRetry(item.Path, 3, 100*time.Millisecond); err != nil {
				log.Printf("voice: could not remove artifact %s: %v", item.Path, err)
			}
		}
	}
}

func (p *Player) observeDepth() {
	if p.onDepth != nil {
		p.onDepth(len(p.queue))
	}
}

// SystemPlayFunc plays WAV artifacts with whatever CLI player the host has.
// Without one it sleeps for the item duration, which keeps pacing honest in
// headless environments.
func SystemPlayFunc() PlayFunc {
	var player string
	for _, candidate := range []string{"aplay", "paplay", "afplay", "ffplay"} {
		if p, err := exec.LookPath(candidate); err == nil {
			player = p
			break
		}
	}

	return func(ctx context.Context, item PlaybackItem) error {
		if player == "" || item.Path == "" {
			select {
			case <-time.After(item.Duration):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		args := []string{item.Path}
		if filepath.Base(player) == "ffplay" {
			args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", item.Path}
		}
		return exec.CommandContext(ctx, player, args...).Run()
	}
}
