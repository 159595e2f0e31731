package piper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeStreamsAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/text-to-speech", r.URL.Path)
		assert.Equal(t, "read me", r.URL.Query().Get("text"))
		assert.Equal(t, "en_US-amy-medium", r.URL.Query().Get("voice"))

		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFfakewav"))
	}))
	defer srv.Close()

	p := New(srv.URL)
	body, contentType, err := p.Synthesize(context.Background(), "read me", "en_US-amy-medium")
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, "audio/wav", contentType)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "RIFFfakewav", string(data))
}

func TestSynthesizeDefaultVoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "preset", r.URL.Query().Get("voice"))
		w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	p := New(srv.URL)
	p.Voice = "preset"
	body, _, err := p.Synthesize(context.Background(), "hi", "")
	require.NoError(t, err)
	body.Close()
}

func TestSynthesizeEmptyText(t *testing.T) {
	p := New("http://127.0.0.1:1")
	_, _, err := p.Synthesize(context.Background(), "", "")
	assert.Error(t, err)
}

func TestSynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such voice", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := New(srv.URL)
	_, _, err := p.Synthesize(context.Background(), "hi", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
