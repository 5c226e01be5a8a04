package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleBackend translates through the public Google Translate web endpoint.
type GoogleBackend struct {
	endpoint string
	client   *http.Client
}

func NewGoogleBackend() *GoogleBackend {
	return &GoogleBackend{
		endpoint: googleEndpoint,
		client:   &http.Client{},
	}
}

// Translate requests a single translation. The endpoint answers with nested
// arrays; the translated text is the first element of each segment in the
// first array.
func (g *GoogleBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate error: status %d", resp.StatusCode)
	}

	var parsed []json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(parsed) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(parsed[0], &segments); err != nil {
		return "", fmt.Errorf("decode translate segments: %w", err)
	}

	var out string
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		out += piece
	}
	if out == "" {
		return "", fmt.Errorf("no translation in response")
	}
	return out, nil
}
