package tts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Synthesizer represents a generic interface for text-to-speech backends
type Synthesizer interface {
	// Name identifies the backend, e.g. "google"
	Name() string

	// Synthesize converts text to an MP3 audio buffer using the configured voice
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Config 语音合成配置
type Config struct {
	Provider string // google | openai | edge
	Language string // BCP-47，如 id-ID
	Voice    string // provider 自己的音色标识，可空
	Timeout  time.Duration
}

// New creates a synthesizer for the configured provider
func New(cfg Config, log *logrus.Logger) (Synthesizer, error) {
	if log == nil {
		log = logrus.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Language == "" {
		cfg.Language = "id-ID"
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "google":
		return NewGoogleHandler(cfg, log), nil
	case "openai":
		return NewOpenAIHandler(cfg, log), nil
	case "edge":
		return NewEdgeHandler(cfg, log), nil
	}
	return nil, fmt.Errorf("unsupported tts provider: %s", cfg.Provider)
}
