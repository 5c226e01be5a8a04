package translate

import (
	"context"

	"go.uber.org/zap"
)

// LangAuto requests source-language autodetection.
const LangAuto = "auto"

// TranslationResult is the uniform shape every translation resolves to.
type TranslationResult struct {
	Text string `json:"text"`
}

// Backend performs the actual translation call. It may fail; the Translator
// wrapper guarantees a usable result regardless.
type Backend interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Translator wraps a Backend with the never-block contract: on any backend
// failure the original text is returned unchanged. A non-nil error is
// advisory only and the result is always valid.
type Translator struct {
	backend Backend
	logger  *zap.Logger
}

func NewTranslator(backend Backend, logger *zap.Logger) *Translator {
	return &Translator{backend: backend, logger: logger}
}

// Translate converts text from source to target. source may be "auto".
// Translation failure never blocks a turn: the input text comes back as the
// result together with the advisory error.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (TranslationResult, error) {
	translated, err := t.backend.Translate(ctx, text, source, target)
	if err != nil {
		t.logger.Warn("translation failed, keeping original text",
			zap.String("source", source),
			zap.String("target", target),
			zap.Error(err))
		return TranslationResult{Text: text}, err
	}
	return TranslationResult{Text: translated}, nil
}
