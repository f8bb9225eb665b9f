package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/spx/internal/shared"
	tu "github.com/desertthunder/spx/internal/testing"
)

// fakeCatalog serves the three discography endpoints and records the batches it receives.
type fakeCatalog struct {
	mu         sync.Mutex
	artists    string
	albumIDs   []string
	batches    [][]string
	queries    []string
	failBatch  int
	albumsNext bool
}

func (f *fakeCatalog) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test_token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		if got := r.URL.Query().Get("market"); got != "CA" {
			t.Errorf("expected market CA, got %q", got)
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.queries = append(f.queries, r.URL.RawQuery)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/v1/search":
			if r.URL.Query().Get("type") != "artist" {
				t.Errorf("expected type=artist, got %q", r.URL.Query().Get("type"))
			}
			fmt.Fprintf(w, `{"artists":{"items":%s}}`, f.artists)

		case strings.HasPrefix(r.URL.Path, "/v1/artists/") && strings.HasSuffix(r.URL.Path, "/albums"):
			if r.URL.Query().Get("limit") != "50" {
				t.Errorf("expected limit=50, got %q", r.URL.Query().Get("limit"))
			}
			items := make([]string, len(f.albumIDs))
			for i, id := range f.albumIDs {
				items[i] = fmt.Sprintf(`{"id":%q}`, id)
			}
			next := "null"
			if f.albumsNext {
				next = `"https://api.spotify.com/v1/artists/x/albums?offset=50"`
			}
			fmt.Fprintf(w, `{"items":[%s],"next":%s,"total":%d}`, strings.Join(items, ","), next, len(f.albumIDs))

		case r.URL.Path == "/v1/albums":
			ids := strings.Split(r.URL.Query().Get("ids"), ",")
			f.batches = append(f.batches, ids)
			if f.failBatch == len(f.batches) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`{"error":{"status":502}}`))
				return
			}
			albums := make([]string, len(ids))
			for i, id := range ids {
				albums[i] = albumFixture(id)
			}
			fmt.Fprintf(w, `{"albums":[%s]}`, strings.Join(albums, ","))

		case strings.HasPrefix(r.URL.Path, "/v1/albums/"):
			w.Write([]byte(albumFixture(strings.TrimPrefix(r.URL.Path, "/v1/albums/"))))

		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"status":404}}`))
		}
	})
}

func albumFixture(id string) string {
	return fmt.Sprintf(`{"id":%q,"name":"Album %s","artists":[{"name":"Pink Floyd"}],"images":[{"url":"https://i.scdn.co/%s"}],`+
		`"tracks":{"items":[{"name":"Track of %s","id":"%s-1","duration_ms":1999,"preview_url":null}]}}`, id, id, id, id, id)
}

func albumIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("album%02d", i)
	}
	return ids
}

func newTestClient(t *testing.T, catalog *fakeCatalog) *CatalogClient {
	t.Helper()
	server := httptest.NewServer(catalog.handler(t))
	t.Cleanup(server.Close)

	return NewCatalogClient(ClientOpts{
		Tokens:            tu.StaticCredentials{Token: "test_token"},
		HTTPClient:        server.Client(),
		BaseURL:           server.URL,
		Market:            "CA",
		RequestsPerSecond: 1000,
	})
}

func TestCatalogClient(t *testing.T) {
	t.Run("NewCatalogClient Defaults", func(t *testing.T) {
		c := NewCatalogClient(ClientOpts{})
		if c.baseURL != "https://api.spotify.com" {
			t.Errorf("unexpected base url %s", c.baseURL)
		}
		if c.market != "CA" {
			t.Errorf("expected market CA, got %s", c.market)
		}
		if c.BatchSize() != 20 {
			t.Errorf("expected batch size 20, got %d", c.BatchSize())
		}
		if c.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient")
		}
	})

	t.Run("Not Authenticated", func(t *testing.T) {
		catalog := &fakeCatalog{}
		server := httptest.NewServer(catalog.handler(t))
		defer server.Close()

		c := NewCatalogClient(ClientOpts{Tokens: tu.StaticCredentials{}, BaseURL: server.URL, HTTPClient: server.Client()})

		if _, err := c.ResolveArtistID(context.Background(), "Pink Floyd"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if _, err := c.ListAlbumIDs(context.Background(), "id"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if _, err := c.FetchAlbums(context.Background(), []string{"a"}); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if len(catalog.queries) != 0 {
			t.Errorf("expected no requests, got %d", len(catalog.queries))
		}
	})

	t.Run("ResolveArtistID", func(t *testing.T) {
		t.Run("First Match Wins", func(t *testing.T) {
			catalog := &fakeCatalog{artists: `[{"id":"pf","name":"Pink Floyd"},{"id":"pft","name":"Pink Floyd Tribute"}]`}
			c := newTestClient(t, catalog)

			artist, err := c.ResolveArtistID(context.Background(), "Pink Floyd")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if artist.ID != "pf" || artist.Name != "Pink Floyd" {
				t.Errorf("unexpected artist %+v", artist)
			}
			if !strings.Contains(catalog.queries[0], "q=Pink+Floyd") {
				t.Errorf("expected spaces encoded as '+', got %s", catalog.queries[0])
			}
		})

		t.Run("No Match", func(t *testing.T) {
			c := newTestClient(t, &fakeCatalog{artists: `[]`})

			_, err := c.ResolveArtistID(context.Background(), "Nobody")
			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if errors.Is(err, shared.ErrIO) {
				t.Error("not found must be distinct from IO errors")
			}
		})

		t.Run("Malformed Result", func(t *testing.T) {
			c := newTestClient(t, &fakeCatalog{artists: `[{"name":"No Id"}]`})

			_, err := c.ResolveArtistID(context.Background(), "No Id")
			if !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("Empty Name", func(t *testing.T) {
			c := newTestClient(t, &fakeCatalog{})
			if _, err := c.ResolveArtistID(context.Background(), "  "); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("ListAlbumIDs", func(t *testing.T) {
		t.Run("Preserves Order", func(t *testing.T) {
			catalog := &fakeCatalog{albumIDs: []string{"c", "a", "b"}}
			c := newTestClient(t, catalog)

			ids, err := c.ListAlbumIDs(context.Background(), "pf")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if strings.Join(ids, ",") != "c,a,b" {
				t.Errorf("unexpected ids %v", ids)
			}
		})

		t.Run("First Page Only", func(t *testing.T) {
			catalog := &fakeCatalog{albumIDs: albumIDs(50), albumsNext: true}
			c := newTestClient(t, catalog)

			ids, err := c.ListAlbumIDs(context.Background(), "pf")
			if err != nil {
				t.Fatalf("truncation should not be an error, got %v", err)
			}
			if len(ids) != 50 {
				t.Errorf("expected 50 ids, got %d", len(ids))
			}
			if len(catalog.queries) != 1 {
				t.Errorf("expected exactly one request, got %d", len(catalog.queries))
			}
		})
	})

	t.Run("FetchAlbums", func(t *testing.T) {
		tc := []struct {
			name        string
			count       int
			wantBatches []int
		}{
			{name: "empty input", count: 0, wantBatches: nil},
			{name: "single album", count: 1, wantBatches: []int{1}},
			{name: "fifteen albums", count: 15, wantBatches: []int{15}},
			{name: "exactly one batch", count: 20, wantBatches: []int{20}},
			{name: "one over", count: 21, wantBatches: []int{20, 1}},
			{name: "forty five albums", count: 45, wantBatches: []int{20, 20, 5}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				catalog := &fakeCatalog{}
				c := newTestClient(t, catalog)
				ids := albumIDs(tt.count)

				albums, err := c.FetchAlbums(context.Background(), ids)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}

				if len(catalog.batches) != len(tt.wantBatches) {
					t.Fatalf("expected %d batch requests, got %d", len(tt.wantBatches), len(catalog.batches))
				}
				for i, size := range tt.wantBatches {
					if len(catalog.batches[i]) != size {
						t.Errorf("batch %d: expected %d ids, got %d", i, size, len(catalog.batches[i]))
					}
				}

				if len(albums) != tt.count {
					t.Fatalf("expected %d albums, got %d", tt.count, len(albums))
				}
				for i, id := range ids {
					if albums[i].ID != id {
						t.Errorf("position %d: expected %s, got %s", i, id, albums[i].ID)
					}
				}
			})
		}

		t.Run("Any Batch Failure Fails Everything", func(t *testing.T) {
			catalog := &fakeCatalog{failBatch: 2}
			c := newTestClient(t, catalog)

			albums, err := c.FetchAlbums(context.Background(), albumIDs(45))
			if err == nil {
				t.Fatal("expected error")
			}
			if albums != nil {
				t.Errorf("expected no partial results, got %d albums", len(albums))
			}
			if !errors.Is(err, shared.ErrProtocol) {
				t.Errorf("expected ErrProtocol, got %v", err)
			}
			var statusErr *shared.StatusError
			if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
				t.Errorf("expected 502 status error, got %v", err)
			}
			if len(catalog.batches) != 2 {
				t.Errorf("expected requests to stop after failing batch, got %d", len(catalog.batches))
			}
		})
	})

	t.Run("FetchAlbum", func(t *testing.T) {
		c := newTestClient(t, &fakeCatalog{})

		album, err := c.FetchAlbum(context.Background(), "solo")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if album.Name != "Album solo" || len(album.Tracks) != 1 {
			t.Errorf("unexpected album %+v", album)
		}
		if album.Tracks[0].LengthSeconds != 1 {
			t.Errorf("expected 1999ms to truncate to 1s, got %d", album.Tracks[0].LengthSeconds)
		}
	})

	t.Run("SearchArtist", func(t *testing.T) {
		catalog := &fakeCatalog{artists: `[{"id":"pf","name":"Pink Floyd"}]`, albumIDs: albumIDs(45)}
		c := newTestClient(t, catalog)

		result, err := c.SearchArtist(context.Background(), "Pink Floyd")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Artist.ID != "pf" {
			t.Errorf("unexpected artist %+v", result.Artist)
		}
		if len(result.Albums) != 45 || result.Batches != 3 {
			t.Errorf("expected 45 albums in 3 batches, got %d in %d", len(result.Albums), result.Batches)
		}
		if result.RequestID == "" {
			t.Error("expected request id")
		}
	})

	t.Run("Transport Errors", func(t *testing.T) {
		t.Run("Round Trip Failure", func(t *testing.T) {
			c := NewCatalogClient(ClientOpts{
				Tokens:     tu.StaticCredentials{Token: "test_token"},
				HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("network down"))},
			})

			if _, err := c.ListAlbumIDs(context.Background(), "pf"); !errors.Is(err, shared.ErrIO) {
				t.Errorf("expected ErrIO, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
			c := NewCatalogClient(ClientOpts{
				Tokens:     tu.StaticCredentials{Token: "test_token"},
				HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)},
			})

			if _, err := c.ListAlbumIDs(context.Background(), "pf"); !errors.Is(err, shared.ErrIO) {
				t.Errorf("expected ErrIO, got %v", err)
			}
		})

		t.Run("Invalid JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>oops</html>`))
			}))
			defer server.Close()

			c := NewCatalogClient(ClientOpts{Tokens: tu.StaticCredentials{Token: "test_token"}, BaseURL: server.URL, HTTPClient: server.Client()})
			if _, err := c.ListAlbumIDs(context.Background(), "pf"); !errors.Is(err, shared.ErrProtocol) {
				t.Errorf("expected ErrProtocol, got %v", err)
			}
		})

		t.Run("Expired Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
			}))
			defer server.Close()

			c := NewCatalogClient(ClientOpts{Tokens: tu.StaticCredentials{Token: "test_token"}, BaseURL: server.URL, HTTPClient: server.Client()})
			_, err := c.ResolveArtistID(context.Background(), "Pink Floyd")
			if !errors.Is(err, shared.ErrAuth) || !errors.Is(err, shared.ErrProtocol) {
				t.Errorf("expected 401 to surface as ErrAuth and ErrProtocol, got %v", err)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			c := newTestClient(t, &fakeCatalog{})
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := c.ListAlbumIDs(ctx, "pf"); !errors.Is(err, shared.ErrIO) {
				t.Errorf("expected ErrIO, got %v", err)
			}
		})
	})
}

func TestRaw(t *testing.T) {
	t.Run("Replaces Spaces And Returns Any Status", func(t *testing.T) {
		var rawQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawQuery = r.URL.RawQuery
			if r.URL.Path != "/v1/search" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer server.Close()

		c := NewCatalogClient(ClientOpts{Tokens: tu.StaticCredentials{Token: "test_token"}, BaseURL: server.URL, HTTPClient: server.Client()})
		resp, err := c.Raw(context.Background(), "v1/search", "type=artist&q=Pink Floyd")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if rawQuery != "type=artist&q=Pink+Floyd" {
			t.Errorf("unexpected query %q", rawQuery)
		}
		if resp.StatusCode != http.StatusTeapot {
			t.Errorf("expected status 418, got %d", resp.StatusCode)
		}
		if !resp.IsJSON {
			t.Error("expected JSON body to be detected")
		}
	})

	t.Run("Non JSON Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("plain"))
		}))
		defer server.Close()

		c := NewCatalogClient(ClientOpts{Tokens: tu.StaticCredentials{Token: "test_token"}, BaseURL: server.URL, HTTPClient: server.Client()})
		resp, err := c.Raw(context.Background(), server.URL+"/anything", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.IsJSON || string(resp.Body) != "plain" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("Not Authenticated", func(t *testing.T) {
		c := NewCatalogClient(ClientOpts{Tokens: tu.StaticCredentials{}})
		if _, err := c.Raw(context.Background(), "/v1/search", ""); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
