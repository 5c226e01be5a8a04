package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestNormalizePassthroughWav(t *testing.T) {
	n := &Normalizer{ffmpegPath: "", logger: zap.NewNop()}

	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := n.Normalize(path)
	if err != nil {
		t.Fatalf("Normalize failed for wav input: %v", err)
	}
	if got != path {
		t.Errorf("wav input must pass through unchanged, got %q", got)
	}
}

func TestNormalizePassthroughIsCaseInsensitive(t *testing.T) {
	n := &Normalizer{ffmpegPath: "", logger: zap.NewNop()}

	got, err := n.Normalize("/tmp/CLIP.WAV")
	if err != nil {
		t.Fatalf("Normalize failed for uppercase wav: %v", err)
	}
	if got != "/tmp/CLIP.WAV" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestNormalizeWithoutFfmpeg(t *testing.T) {
	n := &Normalizer{ffmpegPath: "", logger: zap.NewNop()}

	_, err := n.Normalize("/tmp/clip.mp3")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if n.Available() {
		t.Error("Available must be false when ffmpeg path is empty")
	}
}

func TestNormalizeFailureRemovesDerivedFile(t *testing.T) {
	// An ffmpeg that writes a partial output file and then fails, the way a
	// truncated clip aborts mid-conversion. The derived file must not
	// survive the failure.
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nfor out; do :; done\necho partial > \"$out\"\nexit 1\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	clip := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(clip, []byte("truncated"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := &Normalizer{ffmpegPath: stub, logger: zap.NewNop()}
	_, err := n.Normalize(clip)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if _, err := os.Stat(clip + ".wav"); !os.IsNotExist(err) {
		t.Errorf("derived file %s must be removed on the failure path", clip+".wav")
	}
}

func TestNormalizeCorruptFile(t *testing.T) {
	// A bogus ffmpeg path makes the exec fail, which must surface as the
	// recoverable unsupported-format condition, not a crash.
	n := &Normalizer{ffmpegPath: "/nonexistent/ffmpeg", logger: zap.NewNop()}

	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp3")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := n.Normalize(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestIsSupported(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"voice.wav", true},
		{"voice.mp3", true},
		{"voice.M4A", true},
		{"voice.ogg", true},
		{"voice.flac", false},
		{"voice", false},
	}
	for _, c := range cases {
		if got := IsSupported(c.name); got != c.want {
			t.Errorf("IsSupported(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}
