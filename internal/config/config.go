package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the VTuber speech service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	SessionInactivityTimeout time.Duration

	// PersonaTablesPath points at the YAML persona file holding the style,
	// pitch/rate, emoji, action, slang and phonetic override tables. Empty
	// means "compiled-in defaults only".
	PersonaTablesPath    string
	TablesReloadInterval time.Duration

	BrainMode           string
	BrainURL            string
	BrainModel          string
	BrainConnectTimeout time.Duration

	EmotionMode string
	EmotionURL  string

	SynthMode       string
	EspeakPath      string
	SynthSampleRate int
	ArtifactDir     string
	UsePhonemes     bool

	ChunkSoftCap int

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "airi"),
		AllowAnyOrigin:   false,

		PersonaTablesPath: stringsTrimSpace("AIRI_PERSONA_TABLES"),

		BrainMode:  envOrDefault("BRAIN_MODE", "auto"),
		BrainURL:   envOrDefault("BRAIN_URL", "http://localhost:11434/api/generate"),
		BrainModel: envOrDefault("BRAIN_MODEL", "mistral"),

		EmotionMode: envOrDefault("EMOTION_MODE", "auto"),
		EmotionURL:  stringsTrimSpace("EMOTION_URL"),

		SynthMode:  envOrDefault("SYNTH_MODE", "mock"),
		EspeakPath: envOrDefault("ESPEAK_PATH", "espeak-ng"),
		// Artifacts are 24kHz mono WAV; the playback worker deletes them
		// after the audio device is done.
		SynthSampleRate: 24000,
		ArtifactDir:     envOrDefault("AIRI_ARTIFACT_DIR", os.TempDir()),
		UsePhonemes:     false,

		ChunkSoftCap: 150,

		DatabaseURL: stringsTrimSpace("DATABASE_URL"),

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 2 * time.Minute,
		BrainConnectTimeout:      10 * time.Second,
		TablesReloadInterval:     5 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainConnectTimeout, err = durationFromEnv("BRAIN_CONNECT_TIMEOUT", cfg.BrainConnectTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.TablesReloadInterval, err = durationFromEnv("AIRI_TABLES_RELOAD_INTERVAL", cfg.TablesReloadInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.SynthSampleRate, err = intFromEnv("SYNTH_SAMPLE_RATE", cfg.SynthSampleRate)
	if err != nil {
		return Config{}, err
	}
	cfg.ChunkSoftCap, err = intFromEnv("AIRI_CHUNK_SOFT_CAP", cfg.ChunkSoftCap)
	if err != nil {
		return Config{}, err
	}
	cfg.UsePhonemes, err = boolFromEnv("AIRI_USE_PHONEMES", cfg.UsePhonemes)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionInactivityTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_INACTIVITY_TIMEOUT must be at least 5s")
	}
	if cfg.SynthSampleRate <= 0 {
		return Config{}, fmt.Errorf("SYNTH_SAMPLE_RATE must be positive")
	}
	if cfg.ChunkSoftCap < 20 {
		return Config{}, fmt.Errorf("AIRI_CHUNK_SOFT_CAP must be at least 20")
	}
	if cfg.TablesReloadInterval < time.Second {
		return Config{}, fmt.Errorf("AIRI_TABLES_RELOAD_INTERVAL must be at least 1s")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
