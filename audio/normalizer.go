package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned when a clip cannot be converted to the
// canonical format, either because decoding failed or because the external
// codec tool is missing. Callers treat it as a recoverable condition (the
// turn continues with an empty transcription).
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// FfmpegMissingWarning is the standing warning surfaced to the user whenever
// a conversion is needed but ffmpeg is not installed.
const FfmpegMissingWarning = "FFmpeg not detected. Install it and add it to your PATH; audio conversion (mp3 -> wav) will not work without it."

// Canonical recognition format: 16 kHz mono signed 16-bit PCM WAV.
const (
	canonicalSampleRate = "16000"
	canonicalChannels   = "1"
	canonicalCodec      = "pcm_s16le"
)

// SupportedExtensions lists the upload formats the normalizer accepts.
var SupportedExtensions = []string{".wav", ".mp3", ".m4a", ".ogg"}

// Normalizer converts uploaded clips into the canonical WAV format the
// recognizer consumes. Conversion shells out to ffmpeg; when the binary is
// absent the normalizer degrades to pass-through of already canonical files.
type Normalizer struct {
	ffmpegPath string
	logger     *zap.Logger
}

// NewNormalizer probes for ffmpeg and returns a normalizer. The probe result
// is fixed for the process lifetime.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		logger.Warn("ffmpeg not found, audio conversion disabled", zap.Error(err))
		path = ""
	}
	return &Normalizer{ffmpegPath: path, logger: logger}
}

// Available reports whether the external codec tool was found at startup.
func (n *Normalizer) Available() bool {
	return n.ffmpegPath != ""
}

// IsSupported reports whether the file name carries an accepted extension.
func IsSupported(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range SupportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Normalize returns the path of a canonical-format copy of the clip at path.
// A .wav input is returned unchanged with no re-encoding. For anything else
// a sibling file with a .wav suffix is written; the caller owns deleting it
// along with the source file on every exit path.
func (n *Normalizer) Normalize(path string) (string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".wav") {
		return path, nil
	}
	if n.ffmpegPath == "" {
		return "", fmt.Errorf("%w: ffmpeg is not installed", ErrUnsupportedFormat)
	}

	wavPath := path + ".wav"
	cmd := exec.Command(n.ffmpegPath, "-y",
		"-i", path,
		"-ar", canonicalSampleRate,
		"-ac", canonicalChannels,
		"-c:a", canonicalCodec,
		wavPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		n.logger.Warn("ffmpeg conversion failed",
			zap.String("path", path),
			zap.ByteString("output", out),
			zap.Error(err))
		// ffmpeg may have created a partial output before failing
		os.Remove(wavPath)
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return wavPath, nil
}
