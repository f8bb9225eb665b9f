package playback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/spx/internal/shared"
	tu "github.com/desertthunder/spx/internal/testing"
)

func TestBeepBackend(t *testing.T) {
	t.Run("Missing Clip", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		b := NewBeepBackend(server.Client(), nil)
		_, err := b.Open(context.Background(), server.URL+"/missing.mp3")

		var statusErr *shared.StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 status error, got %v", err)
		}
	})

	t.Run("Not An MP3", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("definitely not audio"))
		}))
		defer server.Close()

		b := NewBeepBackend(server.Client(), nil)
		if _, err := b.Open(context.Background(), server.URL+"/clip.mp3"); !errors.Is(err, shared.ErrPlayerFailed) {
			t.Errorf("expected ErrPlayerFailed, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		b := NewBeepBackend(&http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("offline"))}, nil)
		if _, err := b.Open(context.Background(), "https://p.scdn.co/mp3-preview/x"); !errors.Is(err, shared.ErrIO) {
			t.Errorf("expected ErrIO, got %v", err)
		}
	})
}
