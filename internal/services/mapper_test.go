package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/spx/internal/shared"
)

const albumJSON = `{
  "id": "4LH4d3cOWNNsVw41Gqt2kv",
  "name": "The Dark Side of the Moon",
  "artists": [{"id": "0k17h0D3J5VfsdmQ1iZtE9", "name": "Pink Floyd"}, {"name": "Guest"}],
  "images": [{"url": "https://i.scdn.co/image/large", "height": 640}, {"url": "https://i.scdn.co/image/small"}],
  "tracks": {
    "items": [
      {"name": "Speak to Me", "id": "t1", "duration_ms": 67960, "track_number": 1, "preview_url": "https://p.scdn.co/mp3-preview/t1"},
      {"name": "Breathe (In the Air)", "id": "t2", "duration_ms": 169533, "track_number": 2, "preview_url": null},
      {"name": "On the Run", "id": "t3", "duration_ms": 225115, "track_number": 3}
    ]
  }
}`

func TestMapAlbum(t *testing.T) {
	t.Run("reads required fields in catalog order", func(t *testing.T) {
		album, err := MapAlbum([]byte(albumJSON))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if album.Name != "The Dark Side of the Moon" {
			t.Errorf("unexpected album name %q", album.Name)
		}
		if album.ArtistName != "Pink Floyd" {
			t.Errorf("expected first artist, got %q", album.ArtistName)
		}
		if album.CoverURL != "https://i.scdn.co/image/large" {
			t.Errorf("expected first image, got %q", album.CoverURL)
		}
		if album.ID != "4LH4d3cOWNNsVw41Gqt2kv" {
			t.Errorf("unexpected album id %q", album.ID)
		}

		wantNames := []string{"Speak to Me", "Breathe (In the Air)", "On the Run"}
		if len(album.Tracks) != len(wantNames) {
			t.Fatalf("expected %d tracks, got %d", len(wantNames), len(album.Tracks))
		}
		for i, name := range wantNames {
			if album.Tracks[i].Name != name {
				t.Errorf("track %d: expected %q, got %q", i, name, album.Tracks[i].Name)
			}
			if album.Tracks[i].TrackNumber != i+1 {
				t.Errorf("track %d: expected number %d, got %d", i, i+1, album.Tracks[i].TrackNumber)
			}
		}
	})

	t.Run("preview url is optional", func(t *testing.T) {
		album, err := MapAlbum([]byte(albumJSON))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !album.Tracks[0].HasPreview() {
			t.Error("expected first track to be previewable")
		}
		if album.Tracks[1].HasPreview() {
			t.Error("null preview_url should mark the track non-previewable")
		}
		if album.Tracks[2].HasPreview() {
			t.Error("absent preview_url should mark the track non-previewable")
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		tc := []struct {
			name string
			json string
			path string
		}{
			{name: "album name", json: `{"artists":[{"name":"A"}],"images":[{"url":"u"}],"tracks":{"items":[]}}`, path: "name"},
			{name: "no artists", json: `{"name":"N","artists":[],"images":[{"url":"u"}],"tracks":{"items":[]}}`, path: "artists.0.name"},
			{name: "no images", json: `{"name":"N","artists":[{"name":"A"}],"images":[],"tracks":{"items":[]}}`, path: "images.0.url"},
			{name: "tracks not an array", json: `{"name":"N","artists":[{"name":"A"}],"images":[{"url":"u"}],"tracks":{"items":{}}}`, path: "tracks.items"},
			{name: "track id", json: `{"name":"N","artists":[{"name":"A"}],"images":[{"url":"u"}],"tracks":{"items":[{"name":"T","duration_ms":1}]}}`, path: "tracks.items.0.id"},
			{name: "duration wrong type", json: `{"name":"N","artists":[{"name":"A"}],"images":[{"url":"u"}],"tracks":{"items":[{"name":"T","id":"1","duration_ms":"long"}]}}`, path: "tracks.items.0.duration_ms"},
			{name: "preview wrong type", json: `{"name":"N","artists":[{"name":"A"}],"images":[{"url":"u"}],"tracks":{"items":[{"name":"T","id":"1","duration_ms":1,"preview_url":5}]}}`, path: "tracks.items.0.preview_url"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := MapAlbum([]byte(tt.json))
				if !errors.Is(err, shared.ErrMalformedResponse) {
					t.Fatalf("expected ErrMalformedResponse, got %v", err)
				}
				var fieldErr *shared.FieldError
				if !errors.As(err, &fieldErr) {
					t.Fatalf("expected *shared.FieldError, got %T", err)
				}
				if fieldErr.Path != tt.path {
					t.Errorf("expected path %q, got %q", tt.path, fieldErr.Path)
				}
			})
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := MapAlbum([]byte(`{"name":`)); !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestMapTrack(t *testing.T) {
	t.Run("duration truncates to whole seconds", func(t *testing.T) {
		tc := []struct {
			ms   string
			want int
		}{
			{ms: "0", want: 0},
			{ms: "999", want: 0},
			{ms: "1999", want: 1},
			{ms: "2000", want: 2},
			{ms: "29999", want: 29},
		}

		for _, tt := range tc {
			t.Run(tt.ms, func(t *testing.T) {
				track, err := MapTrack([]byte(`{"name":"T","id":"1","duration_ms":`+tt.ms+`}`), 1)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if track.LengthSeconds != tt.want {
					t.Errorf("duration_ms %s: expected %d, got %d", tt.ms, tt.want, track.LengthSeconds)
				}
			})
		}
	})

	t.Run("position used when track_number absent", func(t *testing.T) {
		track, err := MapTrack([]byte(`{"name":"T","id":"1","duration_ms":1000}`), 7)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.TrackNumber != 7 {
			t.Errorf("expected position 7, got %d", track.TrackNumber)
		}
	})

	t.Run("mapping is idempotent under track identity", func(t *testing.T) {
		raw := []byte(`{"name":"Money","id":"t6","duration_ms":382296,"track_number":6,"preview_url":"https://p.scdn.co/money"}`)
		first, err := MapTrack(raw, 6)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := MapTrack(raw, 6)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !first.Same(second) || first != second {
			t.Errorf("expected equal tracks, got %+v and %+v", first, second)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		if _, err := MapTrack([]byte(`[1,2]`), 1); !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestMapAlbums(t *testing.T) {
	t.Run("preserves response order and skips nulls", func(t *testing.T) {
		raw := `{"albums":[` + albumJSON + `,null,` + strings.Replace(albumJSON, "The Dark Side of the Moon", "Animals", 1) + `]}`

		albums, err := MapAlbums([]byte(raw))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(albums) != 2 {
			t.Fatalf("expected 2 albums, got %d", len(albums))
		}
		if albums[0].Name != "The Dark Side of the Moon" || albums[1].Name != "Animals" {
			t.Errorf("unexpected order: %q, %q", albums[0].Name, albums[1].Name)
		}
	})

	t.Run("albums field missing", func(t *testing.T) {
		_, err := MapAlbums([]byte(`{"items":[]}`))
		if !errors.Is(err, shared.ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("error path names the batch entry", func(t *testing.T) {
		raw := `{"albums":[` + albumJSON + `,{"name":"broken"}]}`
		_, err := MapAlbums([]byte(raw))
		var fieldErr *shared.FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected *shared.FieldError, got %v", err)
		}
		if fieldErr.Path != "albums.1.artists.0.name" {
			t.Errorf("unexpected path %q", fieldErr.Path)
		}
	})
}
