package tts

import "context"

// Synthesizer converts text in a target language into playable audio bytes.
//
// Synthesis needs a concrete language, so implementations treat the "auto"
// code as a request for "en". A non-nil error is advisory: the caller skips
// audio playback and continues the turn.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

// speechLang resolves the effective synthesis language.
func speechLang(lang string) string {
	if lang == "auto" || lang == "" {
		return "en"
	}
	return lang
}
