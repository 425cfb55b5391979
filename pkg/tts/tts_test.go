package tts

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"id-ID", "id"},
		{"en-US", "en"},
		{"ID", "id"},
		{"", "id"},
		{"  ja-JP ", "ja"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeLanguage(tc.in), "input %q", tc.in)
	}
}

func TestNewSynthesizer(t *testing.T) {
	log := logrus.New()

	t.Run("defaults to google", func(t *testing.T) {
		s, err := New(Config{}, log)
		require.NoError(t, err)
		assert.Equal(t, "google", s.Name())
	})

	t.Run("selects edge", func(t *testing.T) {
		s, err := New(Config{Provider: "edge"}, log)
		require.NoError(t, err)
		assert.Equal(t, "edge", s.Name())
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		_, err := New(Config{Provider: "espeak"}, log)
		assert.Error(t, err)
	})
}

// roundTripFunc 把函数适配成 http.RoundTripper
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestGoogleSynthesizeChunks(t *testing.T) {
	requests := 0
	handler := NewGoogleHandler(Config{Language: "id-ID", Timeout: time.Second}, logrus.New())
	handler.httpCli = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		requests++
		assert.Equal(t, "id", req.URL.Query().Get("tl"))
		assert.Equal(t, "tw-ob", req.URL.Query().Get("client"))
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("mp3")),
			Header:     make(http.Header),
		}, nil
	})}

	// 450 个字符按 200 一段切成 3 次请求
	text := strings.Repeat("a", 450)
	audio, err := handler.Synthesize(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Equal(t, "mp3mp3mp3", string(audio))
}

func TestGoogleSynthesizeErrorStatus(t *testing.T) {
	handler := NewGoogleHandler(Config{Language: "id"}, logrus.New())
	handler.httpCli = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("slow down")),
			Header:     make(http.Header),
		}, nil
	})}

	_, err := handler.Synthesize(context.Background(), "halo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestEdgeMessages(t *testing.T) {
	handler := NewEdgeHandler(Config{Language: "id-ID", Voice: "id-ID-ArdiNeural"}, logrus.New())

	cfg := handler.configMessage()
	assert.Contains(t, cfg, "Path:speech.config")
	assert.Contains(t, cfg, "outputFormat")

	msg := handler.speechMessage("req-123", "Halo dunia")
	assert.Contains(t, msg, "X-RequestId:req-123")
	assert.Contains(t, msg, "Path:ssml")
	assert.Contains(t, msg, "<voice name='id-ID-ArdiNeural'>Halo dunia</voice>")
}
