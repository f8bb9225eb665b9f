// Spotify Web API implementation of [Catalog]
//
// Endpoint reference: https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL = "https://api.spotify.com"
	defaultMarket  = "CA"

	// AlbumPageSize is the single page of artist albums that is requested.
	AlbumPageSize = 50
	// AlbumBatchSize is the most ids the several-albums endpoint accepts per request.
	AlbumBatchSize = 20
)

// ClientOpts contains configuration options for creating a CatalogClient.
type ClientOpts struct {
	Tokens            CredentialSource
	HTTPClient        *http.Client
	BaseURL           string
	Market            string
	RequestsPerSecond float64
	Logger            *log.Logger
}

// CatalogClient implements [Catalog] against the Spotify Web API.
type CatalogClient struct {
	tokens     CredentialSource
	httpClient *http.Client
	baseURL    string
	market     string
	limiter    *rate.Limiter
	logger     *log.Logger
}

var _ Catalog = (*CatalogClient)(nil)

// NewCatalogClient creates a CatalogClient. Zero-valued options fall back to defaults.
func NewCatalogClient(opts ClientOpts) *CatalogClient {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.Market == "" {
		opts.Market = defaultMarket
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &CatalogClient{
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		market:     opts.Market,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		logger:     opts.Logger,
	}
}

// BatchSize returns the number of album ids sent per several-albums request.
func (c *CatalogClient) BatchSize() int {
	return AlbumBatchSize
}

// get performs an authenticated GET and returns the body of a 2xx JSON response.
func (c *CatalogClient) get(ctx context.Context, endpoint, rawQuery string) ([]byte, error) {
	if c.tokens == nil {
		return nil, fmt.Errorf("%w: no credential source", shared.ErrNotAuthenticated)
	}
	cred, err := c.tokens.Credential()
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIO, err)
	}

	apiURL := c.baseURL + endpoint
	if rawQuery != "" {
		apiURL += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrIO, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "endpoint", endpoint, "query", rawQuery)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrIO, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("catalog request rejected", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &shared.StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", shared.ErrProtocol, endpoint)
	}

	return body, nil
}

// ResolveArtistID searches artists by name and returns the first match.
func (c *CatalogClient) ResolveArtistID(ctx context.Context, name string) (models.Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Artist{}, fmt.Errorf("%w: artist name is empty", shared.ErrInvalidInput)
	}

	query := url.Values{
		"market": {c.market},
		"type":   {"artist"},
		"q":      {name},
	}

	body, err := c.get(ctx, "/v1/search", query.Encode())
	if err != nil {
		return models.Artist{}, err
	}

	items := gjson.GetBytes(body, "artists.items")
	if !items.IsArray() {
		return models.Artist{}, &shared.FieldError{Path: "artists.items", Want: "array"}
	}
	first := items.Get("0")
	if !first.Exists() {
		return models.Artist{}, fmt.Errorf("%w: no artist matches %q", shared.ErrNotFound, name)
	}

	id, err := requireString(first, "id", "artists.items.0.")
	if err != nil {
		return models.Artist{}, err
	}
	artistName, err := requireString(first, "name", "artists.items.0.")
	if err != nil {
		return models.Artist{}, err
	}

	return models.Artist{ID: id, Name: artistName}, nil
}

// ListAlbumIDs returns the artist's album ids from the first page of results.
//
// Artists with more albums than the page size are truncated; the next link is not followed.
func (c *CatalogClient) ListAlbumIDs(ctx context.Context, artistID string) ([]string, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is empty", shared.ErrInvalidInput)
	}

	query := url.Values{
		"market": {c.market},
		"limit":  {strconv.Itoa(AlbumPageSize)},
	}

	endpoint := fmt.Sprintf("/v1/artists/%s/albums", url.PathEscape(artistID))
	body, err := c.get(ctx, endpoint, query.Encode())
	if err != nil {
		return nil, err
	}

	items := gjson.GetBytes(body, "items")
	if !items.IsArray() {
		return nil, &shared.FieldError{Path: "items", Want: "array"}
	}

	entries := items.Array()
	ids := make([]string, 0, len(entries))
	for i, item := range entries {
		id, err := requireString(item, "id", "items."+strconv.Itoa(i)+".")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if next := gjson.GetBytes(body, "next"); next.Type == gjson.String {
		c.logger.Warn("album list truncated to first page", "artist", artistID, "kept", len(ids), "total", gjson.GetBytes(body, "total").Int())
	}

	return ids, nil
}

// FetchAlbums returns album data for ids in input order.
//
// ids are sent in contiguous batches of at most [CatalogClient.BatchSize], one request at a time.
// If any batch fails, no albums are returned.
func (c *CatalogClient) FetchAlbums(ctx context.Context, ids []string) ([]models.Album, error) {
	if len(ids) == 0 {
		return []models.Album{}, nil
	}

	batches := lo.Chunk(ids, AlbumBatchSize)
	albums := make([]models.Album, 0, len(ids))

	for i, batch := range batches {
		query := url.Values{
			"market": {c.market},
			"ids":    {strings.Join(batch, ",")},
		}

		body, err := c.get(ctx, "/v1/albums", query.Encode())
		if err != nil {
			return nil, fmt.Errorf("album batch %d/%d: %w", i+1, len(batches), err)
		}

		mapped, err := MapAlbums(body)
		if err != nil {
			return nil, fmt.Errorf("album batch %d/%d: %w", i+1, len(batches), err)
		}
		if len(mapped) != len(batch) {
			c.logger.Warn("albums missing from batch", "batch", i+1, "requested", len(batch), "returned", len(mapped))
		}

		albums = append(albums, mapped...)
	}

	return albums, nil
}

// FetchAlbum returns album data for a single id.
func (c *CatalogClient) FetchAlbum(ctx context.Context, id string) (models.Album, error) {
	if id == "" {
		return models.Album{}, fmt.Errorf("%w: album id is empty", shared.ErrInvalidInput)
	}

	query := url.Values{"market": {c.market}}
	body, err := c.get(ctx, "/v1/albums/"+url.PathEscape(id), query.Encode())
	if err != nil {
		return models.Album{}, err
	}

	return MapAlbum(body)
}

// SearchArtist resolves name, lists its albums and fetches them.
func (c *CatalogClient) SearchArtist(ctx context.Context, name string) (*SearchResult, error) {
	requestID := shared.GenerateID()
	logger := shared.WithLogger(c.logger, "request_id", requestID, "query", name)

	artist, err := c.ResolveArtistID(ctx, name)
	if err != nil {
		logger.Warn("artist lookup failed", "error", err)
		return nil, err
	}

	ids, err := c.ListAlbumIDs(ctx, artist.ID)
	if err != nil {
		logger.Warn("album listing failed", "artist", artist.ID, "error", err)
		return nil, err
	}

	albums, err := c.FetchAlbums(ctx, ids)
	if err != nil {
		logger.Warn("album fetch failed", "artist", artist.ID, "error", err)
		return nil, err
	}

	batches := len(lo.Chunk(ids, AlbumBatchSize))
	logger.Info("search complete", "artist", artist.Name, "albums", len(albums), "batches", batches)

	return &SearchResult{
		RequestID: requestID,
		Query:     name,
		Artist:    artist,
		Albums:    albums,
		Batches:   batches,
	}, nil
}
