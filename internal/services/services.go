// package services defines the catalog client consumed by the CLI and TUI
package services

import (
	"context"

	"github.com/desertthunder/spx/internal/models"
)

// Catalog is the collaborator surface exposed to presentation layers.
type Catalog interface {
	// ResolveArtistID returns the first artist matching name.
	ResolveArtistID(ctx context.Context, name string) (models.Artist, error)

	// ListAlbumIDs returns the ids of the artist's albums in catalog order.
	ListAlbumIDs(ctx context.Context, artistID string) ([]string, error)

	// FetchAlbums returns full album data for ids, in the same order.
	FetchAlbums(ctx context.Context, ids []string) ([]models.Album, error)

	// SearchArtist chains the three calls above.
	SearchArtist(ctx context.Context, name string) (*SearchResult, error)
}

// CredentialSource hands out the bearer credential used by catalog requests.
type CredentialSource interface {
	Credential() (models.Credential, error)
}

// SearchResult is the outcome of one discography search. It replaces any previous result wholesale.
type SearchResult struct {
	RequestID string         `json:"request_id"`
	Query     string         `json:"query"`
	Artist    models.Artist  `json:"artist"`
	Albums    []models.Album `json:"albums"`
	Batches   int            `json:"batches"`
}
