package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const elevenLabsEndpoint = "https://api.elevenlabs.io/v1/text-to-speech"

// ElevenLabsClient synthesizes speech through the ElevenLabs API. The voice
// is fixed per client and the multilingual model covers all supported
// interface languages, so the lang parameter is ignored here.
type ElevenLabsClient struct {
	APIKey   string
	VoiceId  string
	ModelId  string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewElevenLabsClient(apiKey string, voiceId string, modelId string, logger *zap.Logger) (*ElevenLabsClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if voiceId == "" {
		return nil, fmt.Errorf("voice id is required")
	}
	return &ElevenLabsClient{
		APIKey:   apiKey,
		VoiceId:  voiceId,
		ModelId:  modelId,
		endpoint: elevenLabsEndpoint,
		client:   &http.Client{},
		logger:   logger,
	}, nil
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	payload := map[string]interface{}{
		"text":     text,
		"model_id": c.ModelId,
		"voice_settings": map[string]float64{
			"stability":        0.75,
			"similarity_boost": 0.7,
		},
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s", c.endpoint, c.VoiceId), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("elevenlabs request failed", zap.Error(err))
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("elevenlabs generation failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("tts error: %s", resp.Status)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts audio: %w", err)
	}
	return audio, nil
}
