package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/polyglot-bot/audio"
	"github.com/mrsingh-rishi/polyglot-bot/llm"
	"github.com/mrsingh-rishi/polyglot-bot/stt"
	"github.com/mrsingh-rishi/polyglot-bot/transcript"
	"github.com/mrsingh-rishi/polyglot-bot/translate"
	"github.com/mrsingh-rishi/polyglot-bot/tts"
	"github.com/mrsingh-rishi/polyglot-bot/types"
)

// ErrEmptyInput rejects a turn whose combined input resolves to nothing.
// It is the only condition that aborts a turn, and it fires before any
// transcript mutation.
var ErrEmptyInput = errors.New("no input provided")

// PivotLang is the intermediate language every prompt is translated into
// before generation.
const PivotLang = "en"

// SupportedLanguages is the fixed interface language enumeration.
var SupportedLanguages = []string{"auto", "en", "hi", "bn", "mr", "ta", "te"}

// Session orchestrates conversational turns and owns the transcript, the
// only state that survives between turns. Turns are processed strictly
// sequentially; the mutex serializes SubmitTurn and Clear.
type Session struct {
	normalizer  *audio.Normalizer
	recognizer  stt.Recognizer
	translator  *translate.Translator
	engine      *llm.Engine
	synthesizer tts.Synthesizer
	logger      *zap.Logger

	mu   sync.Mutex
	log  *transcript.Log[types.TranscriptEntry]
	subs map[chan types.TurnResult]struct{}
}

func NewSession(
	normalizer *audio.Normalizer,
	recognizer stt.Recognizer,
	translator *translate.Translator,
	engine *llm.Engine,
	synthesizer tts.Synthesizer,
	logger *zap.Logger,
) (*Session, error) {
	if normalizer == nil {
		return nil, fmt.Errorf("normalizer is required")
	}
	if recognizer == nil {
		return nil, fmt.Errorf("recognizer is required")
	}
	if translator == nil {
		return nil, fmt.Errorf("translator is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if synthesizer == nil {
		return nil, fmt.Errorf("synthesizer is required")
	}
	return &Session{
		normalizer:  normalizer,
		recognizer:  recognizer,
		translator:  translator,
		engine:      engine,
		synthesizer: synthesizer,
		logger:      logger,
		log:         transcript.New[types.TranscriptEntry](),
		subs:        make(map[chan types.TurnResult]struct{}),
	}, nil
}

// Languages returns the supported interface language codes.
func (s *Session) Languages() []string {
	out := make([]string, len(SupportedLanguages))
	copy(out, SupportedLanguages)
	return out
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []types.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Entries()
}

// Clear wipes the transcript wholesale.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Clear()
}

// Reload retries loading a model bundle, dropping any cached terminal state.
func (s *Session) Reload(ctx context.Context, model string) *llm.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Reload(ctx, model)
}

// SubmitTurn runs one full conversational turn: resolve input, append the
// user entry, translate to the pivot language, generate, translate back,
// append the bot entry, optionally synthesize speech. Every step after input
// validation degrades instead of aborting; collected warnings ride along in
// the result.
func (s *Session) SubmitTurn(ctx context.Context, input types.TurnInput, lang string, ttsEnabled bool, model string) (types.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lang == "" {
		lang = "auto"
	}

	var warnings []string

	userText, audioWarnings := s.resolveInput(ctx, input)
	warnings = append(warnings, audioWarnings...)

	userText = strings.TrimSpace(userText)
	if userText == "" {
		// warnings still explain why the turn resolved to nothing
		return types.TurnResult{Warnings: warnings}, ErrEmptyInput
	}

	// The user's message is committed before generation so it stays visible
	// even when everything downstream degrades.
	userEntry := types.TranscriptEntry{ID: uuid.NewString(), Role: types.RoleUser, Text: userText}
	s.log.Append(userEntry)

	prompt := userText
	if translatable(lang) {
		res, err := s.translator.Translate(ctx, userText, lang, PivotLang)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Translation to %s failed, using original text.", PivotLang))
		}
		prompt = res.Text
	}

	reply := s.engine.Generate(ctx, model, prompt)

	display := reply
	if translatable(lang) {
		res, err := s.translator.Translate(ctx, reply, PivotLang, lang)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Translation to %s failed, showing the English reply.", lang))
		}
		display = res.Text
	}

	botEntry := types.TranscriptEntry{ID: uuid.NewString(), Role: types.RoleBot, Text: display}
	s.log.Append(botEntry)

	var audioBytes []byte
	if ttsEnabled {
		clip, err := s.synthesizer.Synthesize(ctx, display, lang)
		if err != nil {
			s.logger.Warn("tts failed, skipping audio playback", zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("TTS generation failed: %v", err))
		} else {
			audioBytes = clip
		}
	}

	result := types.TurnResult{
		Delta:    []types.TranscriptEntry{userEntry, botEntry},
		Audio:    audioBytes,
		Warnings: warnings,
	}
	s.broadcast(result)
	return result, nil
}

// translatable reports whether lang needs a pivot translation at all.
func translatable(lang string) bool {
	return lang != "auto" && lang != PivotLang
}

// resolveInput turns the raw submission into a single user text. Recognized
// audio wins over typed text; any recognition trouble degrades to the typed
// text with a warning attached.
func (s *Session) resolveInput(ctx context.Context, input types.TurnInput) (string, []string) {
	if len(input.AudioClip) == 0 {
		return input.TypedText, nil
	}

	recognized, warnings := s.transcribeClip(ctx, input)
	if recognized == "" {
		warnings = append(warnings, "Could not detect speech. Try again or type manually.")
		return input.TypedText, warnings
	}
	return recognized, warnings
}

// transcribeClip writes the clip to a scoped temp file, normalizes it and
// runs recognition. Both the temp file and any derived canonical file are
// deleted on every exit path.
func (s *Session) transcribeClip(ctx context.Context, input types.TurnInput) (string, []string) {
	if !audio.IsSupported(input.AudioName) {
		return "", []string{fmt.Sprintf("Unsupported audio file %q.", input.AudioName)}
	}

	ext := strings.ToLower(filepath.Ext(input.AudioName))
	tmp, err := os.CreateTemp("", "voicein-*"+ext)
	if err != nil {
		s.logger.Warn("temp file creation failed", zap.Error(err))
		return "", []string{fmt.Sprintf("Speech Recognition error: %v", err)}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(input.AudioClip); err != nil {
		tmp.Close()
		return "", []string{fmt.Sprintf("Speech Recognition error: %v", err)}
	}
	tmp.Close()

	wavPath, err := s.normalizer.Normalize(tmpPath)
	if err != nil {
		warnings := []string{fmt.Sprintf("Speech Recognition error: %v", err)}
		if errors.Is(err, audio.ErrUnsupportedFormat) && !s.normalizer.Available() {
			warnings = append(warnings, audio.FfmpegMissingWarning)
		}
		return "", warnings
	}
	if wavPath != tmpPath {
		defer os.Remove(wavPath)
	}

	text, err := s.recognizer.Transcribe(ctx, wavPath)
	if err != nil {
		s.logger.Warn("speech recognition failed", zap.Error(err))
		return "", []string{fmt.Sprintf("Speech Recognition error: %v", err)}
	}
	return text, nil
}
