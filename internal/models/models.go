// package models defines the catalog data model
package models

import "time"

// Credential is an opaque bearer token for the catalog service.
//
// It is acquired once and never refreshed.
type Credential struct {
	AccessToken string    `json:"-"`
	TokenType   string    `json:"token_type"`
	ObtainedAt  time.Time `json:"obtained_at"`
}

// Valid reports whether the credential carries a token.
func (c Credential) Valid() bool {
	return c.AccessToken != ""
}

// Artist is the result of resolving an artist name.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is one album of an artist's discography. Tracks are in catalog order.
type Album struct {
	ID         string  `json:"id"`
	ArtistName string  `json:"artist_name"`
	Name       string  `json:"name"`
	CoverURL   string  `json:"cover_url"`
	Tracks     []Track `json:"tracks"`
}

// PreviewableTracks returns the number of tracks that carry a preview URL.
func (a Album) PreviewableTracks() int {
	n := 0
	for _, t := range a.Tracks {
		if t.HasPreview() {
			n++
		}
	}
	return n
}

// TrackKey identifies a track across fetches.
type TrackKey struct {
	Name string
	ID   string
}

// Track is one entry of an album's track listing.
type Track struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	LengthSeconds int    `json:"length_seconds"`
	TrackNumber   int    `json:"track_number"`
	PreviewURL    string `json:"preview_url,omitempty"`
}

// Key returns the identity of the track.
func (t Track) Key() TrackKey {
	return TrackKey{Name: t.Name, ID: t.ID}
}

// Same reports whether t and other are the same track, ignoring length and position.
func (t Track) Same(other Track) bool {
	return t.Key() == other.Key()
}

// HasPreview reports whether the track can be previewed.
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}
