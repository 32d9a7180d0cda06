package config

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// TableStore hands out the current persona tables snapshot. Readers always see
// a complete table set; hot reload swaps the pointer under the lock.
type TableStore struct {
	mu  sync.RWMutex
	cur *Tables
}

func NewTableStore(t *Tables) *TableStore {
	if t == nil {
		t = DefaultTables()
	}
	return &TableStore{cur: t}
}

// Current returns the most recently loaded snapshot.
func (s *TableStore) Current() *Tables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Swap installs a new snapshot atomically.
func (s *TableStore) Swap(t *Tables) {
	if t == nil {
		return
	}
	s.mu.Lock()
	s.cur = t
	s.mu.Unlock()
}

// TablesWatcher monitors the persona YAML for changes and swaps the snapshot
// in its TableStore when the file is modified. It polls (mtime first, sha256
// to confirm) to keep dependencies minimal.
type TablesWatcher struct {
	path     string
	interval time.Duration
	store    *TableStore

	done     chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	lastMtime time.Time
	lastHash  [sha256.Size]byte
	onReload  func(error)
}

// NewTablesWatcher loads the initial tables immediately and starts polling in
// a background goroutine. A load failure at startup is fatal; later failures
// keep the previous snapshot and log.
func NewTablesWatcher(path string, interval time.Duration, store *TableStore) (*TablesWatcher, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	w := &TablesWatcher{
		path:     path,
		interval: interval,
		store:    store,
		done:     make(chan struct{}),
	}

	tables, hash, mtime, err := w.loadAndHash()
	if err != nil {
		return nil, fmt.Errorf("persona tables watcher: initial load: %w", err)
	}
	store.Swap(tables)
	w.lastHash = hash
	w.lastMtime = mtime

	go w.poll()
	return w, nil
}

// SetReloadHook installs a callback fired after every reload attempt, with
// nil on a successful swap and the load error otherwise.
func (w *TablesWatcher) SetReloadHook(hook func(error)) {
	w.mu.Lock()
	w.onReload = hook
	w.mu.Unlock()
}

func (w *TablesWatcher) fireReload(err error) {
	w.mu.Lock()
	hook := w.onReload
	w.mu.Unlock()
	if hook != nil {
		hook(err)
	}
}

// Stop stops the file watcher.
func (w *TablesWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

func (w *TablesWatcher) poll() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *TablesWatcher) check() {
	info, err := os.Stat(w.path)
	if err != nil {
		log.Printf("persona tables watcher: stat %s: %v", w.path, err)
		return
	}

	w.mu.Lock()
	mtime := w.lastMtime
	w.mu.Unlock()

	if info.ModTime().Equal(mtime) {
		return
	}

	tables, hash, newMtime, err := w.loadAndHash()
	if err != nil {
		// Keep serving the previous snapshot on a bad edit.
		log.Printf("persona tables watcher: reload %s: %v", w.path, err)
		w.fireReload(err)
		return
	}

	w.mu.Lock()
	changed := hash != w.lastHash
	w.lastHash = hash
	w.lastMtime = newMtime
	w.mu.Unlock()

	if !changed {
		return
	}
	w.store.Swap(tables)
	w.fireReload(nil)
	log.Printf("persona tables reloaded from %s", w.path)
}

func (w *TablesWatcher) loadAndHash() (*Tables, [sha256.Size]byte, time.Time, error) {
	var zero [sha256.Size]byte

	f, err := os.Open(w.path)
	if err != nil {
		return nil, zero, time.Time{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, zero, time.Time{}, err
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, zero, time.Time{}, err
	}

	tables, err := LoadTablesFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, zero, time.Time{}, err
	}
	return tables, sha256.Sum256(raw), info.ModTime(), nil
}
