package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kitsunelabs/airi/internal/brain"
	"github.com/kitsunelabs/airi/internal/config"
	"github.com/kitsunelabs/airi/internal/conversation"
	"github.com/kitsunelabs/airi/internal/emotion"
	"github.com/kitsunelabs/airi/internal/httpapi"
	"github.com/kitsunelabs/airi/internal/memory"
	"github.com/kitsunelabs/airi/internal/observability"
	"github.com/kitsunelabs/airi/internal/phoneme"
	"github.com/kitsunelabs/airi/internal/session"
	"github.com/kitsunelabs/airi/internal/textproc"
	"github.com/kitsunelabs/airi/internal/voice"
)

// brainTranslator adapts the model endpoint to the pipeline's translation
// hook.
type brainTranslator struct {
	adapter brain.Adapter
}

func (t brainTranslator) TranslateToEnglish(ctx context.Context, text, language string) (string, error) {
	return brain.TranslateToEnglish(ctx, t.adapter, text, language)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	tables := config.NewTableStore(config.DefaultTables())
	if cfg.PersonaTablesPath != "" {
		watcher, err := config.NewTablesWatcher(cfg.PersonaTablesPath, cfg.TablesReloadInterval, tables)
		if err != nil {
			log.Fatalf("persona tables init failed: %v", err)
		}
		defer watcher.Stop()
		watcher.SetReloadHook(func(err error) {
			result := "ok"
			if err != nil {
				result = "error"
			}
			metrics.TablesReloads.WithLabelValues(result).Inc()
		})
		log.Printf("persona tables loaded from %s", cfg.PersonaTablesPath)
	}

	ctx := context.Background()
	store, err := memory.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("transcript store init failed: %v", err)
	}
	defer store.Close()

	adapter, err := brain.New(brain.Config{
		Mode:           cfg.BrainMode,
		URL:            cfg.BrainURL,
		Model:          cfg.BrainModel,
		ConnectTimeout: cfg.BrainConnectTimeout,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}

	classifier, err := emotion.New(emotion.Config{
		Mode:    cfg.EmotionMode,
		URL:     cfg.EmotionURL,
		Timeout: cfg.BrainConnectTimeout,
	})
	if err != nil {
		log.Fatalf("emotion classifier init failed: %v", err)
	}

	pipeline := textproc.NewPipeline(tables, classifier, brainTranslator{adapter}, phoneme.Detect)

	synth, err := voice.NewSynthesizer(voice.SynthConfig{
		Mode:       cfg.SynthMode,
		EspeakPath: cfg.EspeakPath,
		SampleRate: cfg.SynthSampleRate,
	})
	if err != nil {
		log.Fatalf("synthesizer init failed: %v", err)
	}

	var phonemizer *phoneme.Phonemizer
	if cfg.UsePhonemes {
		backend, err := phoneme.NewEspeakBackend(cfg.EspeakPath)
		if err != nil {
			log.Fatalf("phoneme backend init failed: %v", err)
		}
		phonemizer = phoneme.NewPhonemizer(tables, backend)
		log.Printf("phoneme mode enabled")
	}

	player := voice.NewPlayer(voice.SystemPlayFunc(), 64, func(depth int) {
		metrics.PlaybackQueue.Set(float64(depth))
	})

	dispatcher := voice.NewDispatcher(pipeline, synth, player, phonemizer, metrics, voice.DispatcherConfig{
		ArtifactDir: cfg.ArtifactDir,
		Voices:      tables.Current().Voices,
		SampleRate:  cfg.SynthSampleRate,
	})

	window := memory.NewWindow(tables.Current().MaxMemoryTurns)
	convo := conversation.New(tables, adapter, dispatcher, window, store, cfg.ChunkSoftCap, 0)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	api := httpapi.New(cfg, sessions, convo, tables, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions.StartJanitor(runCtx, 5*time.Second)

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Printf("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
			_ = httpServer.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server error: %v", err)
	}

	// Let queued speech finish before exiting.
	player.Close()
	log.Printf("shutdown complete")
}
