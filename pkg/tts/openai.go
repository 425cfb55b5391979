package tts

import (
	"context"
	"fmt"
	"io"

	"EchoBoard/pkg/util"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// OpenAIHandler implements the Synthesizer interface for the OpenAI speech API
type OpenAIHandler struct {
	voice  openai.SpeechVoice
	logger *logrus.Logger
	client *openai.Client
}

// NewOpenAIHandler creates a new OpenAI handler, reading the API key
// and optional base URL from the environment
func NewOpenAIHandler(cfg Config, logger *logrus.Logger) *OpenAIHandler {
	clientCfg := openai.DefaultConfig(util.GetEnv("OPENAI_API_KEY"))
	if base := util.GetEnv("OPENAI_BASE_URL"); base != "" {
		clientCfg.BaseURL = base
	}

	voice := openai.VoiceAlloy
	if cfg.Voice != "" {
		voice = openai.SpeechVoice(cfg.Voice)
	}

	return &OpenAIHandler{
		voice:  voice,
		logger: logger,
		client: openai.NewClientWithConfig(clientCfg),
	}
}

// Name identifies this backend
func (h *OpenAIHandler) Name() string { return "openai" }

// Synthesize converts text to MP3 audio via the speech endpoint
func (h *OpenAIHandler) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := h.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          h.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("tts: openai speech request failed: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("tts: failed to read audio stream: %w", err)
	}

	h.logger.Debugf("tts: openai 合成完成, 音频字节=%d", len(audio))
	return audio, nil
}
