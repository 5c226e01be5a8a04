package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestGoogleSynthesize(t *testing.T) {
	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	g := NewGoogleClient(zap.NewNop())
	g.endpoint = srv.URL

	audio, err := g.Synthesize(context.Background(), "Hello, how can I help?", "hi")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("unexpected audio payload: %q", audio)
	}
	if gotLang != "hi" {
		t.Errorf("expected tl=hi, got %q", gotLang)
	}
}

func TestGoogleSynthesizeAutoMapsToEnglish(t *testing.T) {
	var gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	g := NewGoogleClient(zap.NewNop())
	g.endpoint = srv.URL

	if _, err := g.Synthesize(context.Background(), "hello", "auto"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if gotLang != "en" {
		t.Errorf("auto must synthesize as en, got %q", gotLang)
	}
}

func TestGoogleSynthesizeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	g := NewGoogleClient(zap.NewNop())
	g.endpoint = srv.URL

	audio, err := g.Synthesize(context.Background(), "hello", "en")
	if err == nil {
		t.Fatal("expected an advisory error")
	}
	if audio != nil {
		t.Errorf("failed synthesis must return nil audio, got %d bytes", len(audio))
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("xi-api-key"); got != "el-key" {
			t.Errorf("unexpected api key header: %q", got)
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	c, err := NewElevenLabsClient("el-key", "voice-1", "eleven_multilingual_v2", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	c.endpoint = srv.URL

	audio, err := c.Synthesize(context.Background(), "hello", "auto")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("unexpected audio payload: %q", audio)
	}
}

func TestNewElevenLabsClientValidation(t *testing.T) {
	if _, err := NewElevenLabsClient("", "voice", "model", zap.NewNop()); err == nil {
		t.Error("expected an error for a missing API key")
	}
	if _, err := NewElevenLabsClient("key", "", "model", zap.NewNop()); err == nil {
		t.Error("expected an error for a missing voice id")
	}
}
