package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const gttsEndpoint = "https://translate.google.com/translate_tts"

// GoogleClient synthesizes speech through the Google Translate TTS endpoint
// and returns the MP3 clip as one blob.
type GoogleClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewGoogleClient(logger *zap.Logger) *GoogleClient {
	return &GoogleClient{
		endpoint: gttsEndpoint,
		client:   &http.Client{},
		logger:   logger,
	}
}

func (g *GoogleClient) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", speechLang(lang))
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("tts request failed", zap.Error(err))
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("tts generation failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("tts error: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}
	return audio, nil
}
