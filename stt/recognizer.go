package stt

import "context"

// Recognizer transcribes one whole canonical-format clip to text.
//
// An empty transcript with a nil error means the backend produced no
// confident result; that is a normal outcome, not a failure. A non-nil
// error is advisory: the returned text is still the value to use (empty)
// and the caller should warn and continue.
type Recognizer interface {
	Transcribe(ctx context.Context, wavPath string) (string, error)
}
