package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
)

const defaultEndpoint = "https://api.deepgram.com/v1/listen?model=nova-2&smart_format=true&detect_language=true"

// DeepgramClient transcribes pre-recorded audio through Deepgram's REST API.
// The clip is sent as one recognition unit; no streaming or partial results.
type DeepgramClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewDeepgramClient(apiKey string, logger *zap.Logger) (*DeepgramClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &DeepgramClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{},
		logger:   logger,
	}, nil
}

// Transcribe reads the whole clip at wavPath and returns its transcript.
// An empty transcript is returned with a nil error when the backend heard
// nothing usable. Any backend failure returns ("", err); the error is
// advisory and the turn continues with empty text.
func (c *DeepgramClient) Transcribe(ctx context.Context, wavPath string) (string, error) {
	data, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepgram error: %s", body)
	}

	var parsed struct {
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode deepgram response: %w", err)
	}

	if len(parsed.Results.Channels) == 0 ||
		len(parsed.Results.Channels[0].Alternatives) == 0 {
		// nothing recognized, a normal outcome
		return "", nil
	}

	text := parsed.Results.Channels[0].Alternatives[0].Transcript
	if text == "" {
		c.logger.Debug("deepgram returned empty transcript", zap.String("path", wavPath))
	}
	return text, nil
}
