package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	edgeWssURL    = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	edgeToken     = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeOutFormat = "audio-24khz-48kbitrate-mono-mp3"
)

// EdgeHandler implements the Synthesizer interface over the Edge
// read-aloud websocket protocol
type EdgeHandler struct {
	language string
	voice    string
	timeout  time.Duration
	logger   *logrus.Logger
}

// NewEdgeHandler creates a new Edge handler with a fixed voice
func NewEdgeHandler(cfg Config, logger *logrus.Logger) *EdgeHandler {
	voice := cfg.Voice
	if voice == "" {
		voice = "id-ID-ArdiNeural"
	}
	return &EdgeHandler{
		language: cfg.Language,
		voice:    voice,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
}

// Name identifies this backend
func (h *EdgeHandler) Name() string { return "edge" }

// Synthesize streams MP3 frames from the websocket until the turn ends
func (h *EdgeHandler) Synthesize(ctx context.Context, text string) ([]byte, error) {
	reqID := uuid.New().String()

	u, err := url.Parse(edgeWssURL)
	if err != nil {
		return nil, fmt.Errorf("tts: invalid service URL: %w", err)
	}
	q := u.Query()
	q.Set("trustedclienttoken", edgeToken)
	q.Set("ConnectionId", reqID)
	u.RawQuery = q.Encode()

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = h.timeout
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("tts: websocket connection failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("tts: websocket connection failed: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(h.configMessage())); err != nil {
		return nil, fmt.Errorf("tts: failed to send config: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(h.speechMessage(reqID, text))); err != nil {
		return nil, fmt.Errorf("tts: failed to send SSML: %w", err)
	}

	audio, err := readAudioFrames(conn)
	if err != nil {
		return nil, err
	}

	h.logger.Debugf("tts: edge 合成完成, 音色=%s, 音频字节=%d", h.voice, len(audio))
	return audio, nil
}

func (h *EdgeHandler) configMessage() string {
	config := map[string]interface{}{
		"context": map[string]interface{}{
			"synthesis": map[string]interface{}{
				"audio": map[string]interface{}{
					"metadataoptions": map[string]interface{}{
						"sentenceBoundaryEnabled": false,
						"wordBoundaryEnabled":     false,
					},
					"outputFormat": edgeOutFormat,
				},
			},
		},
	}
	configJSON, _ := json.Marshal(config)
	return fmt.Sprintf("X-Timestamp:%sZ\r\nContent-Type:application/json; charset=utf-8\r\nPath:speech.config\r\n\r\n%s",
		time.Now().UTC().Format(time.RFC3339), string(configJSON))
}

func (h *EdgeHandler) speechMessage(reqID, text string) string {
	ssml := fmt.Sprintf(`<speak version='1.0' xml:lang='%s'><voice name='%s'>%s</voice></speak>`,
		h.language, h.voice, text)
	return fmt.Sprintf("X-RequestId:%s\r\nContent-Type:application/ssml+xml\r\nX-Timestamp:%sZ\r\nPath:ssml\r\n\r\n%s",
		reqID, time.Now().UTC().Format(time.RFC3339), ssml)
}

func readAudioFrames(conn *websocket.Conn) ([]byte, error) {
	var audioBuffer bytes.Buffer

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return nil, fmt.Errorf("tts: failed to read message: %w", err)
		}

		switch {
		case messageType == websocket.BinaryMessage:
			if bytes.Contains(message, []byte("Path:audio\r\n")) {
				audioData := bytes.SplitN(message, []byte("Path:audio\r\n"), 2)[1]
				audioBuffer.Write(audioData)
			}
		case bytes.Contains(message, []byte("Path:turn.end")):
			return audioBuffer.Bytes(), nil
		case bytes.Contains(message, []byte("Path:error")):
			return nil, fmt.Errorf("tts: service error: %s", string(message))
		}
	}

	if audioBuffer.Len() == 0 {
		return nil, fmt.Errorf("tts: no audio data received")
	}
	return audioBuffer.Bytes(), nil
}
