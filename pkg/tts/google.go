package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	googleEndpoint = "https://translate.google.com/translate_tts"

	// 单次请求的最大文本长度（按 rune 计）
	googleChunkSize = 200
)

// GoogleHandler implements the Synthesizer interface against the
// Google Translate speech endpoint
type GoogleHandler struct {
	language string
	logger   *logrus.Logger
	httpCli  *http.Client
}

// NewGoogleHandler creates a new Google handler with a fixed language
func NewGoogleHandler(cfg Config, logger *logrus.Logger) *GoogleHandler {
	return &GoogleHandler{
		language: normalizeLanguage(cfg.Language),
		logger:   logger,
		httpCli:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Name identifies this backend
func (h *GoogleHandler) Name() string { return "google" }

// Synthesize fetches MP3 audio for text, splitting long input into chunks
func (h *GoogleHandler) Synthesize(ctx context.Context, text string) ([]byte, error) {
	runes := []rune(text)
	buf := bytes.NewBuffer(nil)

	for start := 0; start < len(runes); start += googleChunkSize {
		end := start + googleChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		audio, err := h.fetchChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		buf.Write(audio)
	}

	h.logger.Debugf("tts: 合成完成, 语言=%s, 文本长度=%d, 音频字节=%d", h.language, len(runes), buf.Len())
	return buf.Bytes(), nil
}

func (h *GoogleHandler) fetchChunk(ctx context.Context, text string) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", h.language)
	params.Set("total", "1")
	params.Set("idx", "0")
	params.Set("textlen", fmt.Sprintf("%d", len([]rune(text))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := h.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts: google tts status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// normalizeLanguage 把 BCP-47 标签降级为 translate 端点接受的短码（id-ID -> id）
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.Index(lang, "-"); idx > 0 {
		return lang[:idx]
	}
	if lang == "" {
		return "id"
	}
	return lang
}
