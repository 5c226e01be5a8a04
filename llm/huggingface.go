package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const (
	defaultHFMetaURL  = "https://huggingface.co/api/models"
	defaultHFInferURL = "https://api-inference.huggingface.co/models"
)

// HFBackend serves generation capabilities through the Hugging Face
// Inference API. Loading a capability checks the model's declared pipeline
// tag against the requested kind, so asking a plain text-generation model
// for a conversational capability fails the way a local pipeline load would.
//
// Canonical result shapes: conversational -> top-level generated_text,
// text-generation -> generated_text of the first array element.
type HFBackend struct {
	token    string
	metaURL  string
	inferURL string
	client   *http.Client
	logger   *zap.Logger
}

func NewHFBackend(token string, logger *zap.Logger) *HFBackend {
	return &HFBackend{
		token:    token,
		metaURL:  defaultHFMetaURL,
		inferURL: defaultHFInferURL,
		client:   &http.Client{},
		logger:   logger,
	}
}

func (b *HFBackend) Load(ctx context.Context, model string, kind Kind) (Capability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.metaURL+"/"+model, nil)
	if err != nil {
		return nil, err
	}
	b.authorize(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model %q not found: status %d", model, resp.StatusCode)
	}

	var meta struct {
		PipelineTag string `json:"pipeline_tag"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode model metadata: %w", err)
	}
	if meta.PipelineTag != string(kind) {
		return nil, fmt.Errorf("model %q has pipeline %q, not %q", model, meta.PipelineTag, kind)
	}

	return &hfCapability{backend: b, model: model, kind: kind}, nil
}

func (b *HFBackend) authorize(req *http.Request) {
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
}

type hfCapability struct {
	backend *HFBackend
	model   string
	kind    Kind
}

func (c *hfCapability) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	payload := map[string]interface{}{
		"inputs": prompt,
		"parameters": map[string]interface{}{
			"max_length": p.MaxLength,
			"top_p":      p.TopP,
			"top_k":      p.TopK,
			"do_sample":  p.DoSample,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.backend.inferURL+"/"+c.model, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.backend.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.backend.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference error: %s", raw)
	}

	if c.kind == KindConversational {
		var out struct {
			GeneratedText string `json:"generated_text"`
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return "", fmt.Errorf("decode conversational result: %w", err)
		}
		return out.GeneratedText, nil
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode generation result: %w", err)
	}
	if len(out) == 0 {
		return "", nil
	}
	return out[0].GeneratedText, nil
}
