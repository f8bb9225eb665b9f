package services

import (
	"strconv"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/tidwall/gjson"
)

// MapAlbums maps a several-albums response (`{"albums": [...]}`) in response order.
//
// Null entries, which the service returns for ids it cannot resolve, are skipped.
func MapAlbums(raw []byte) ([]models.Album, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &shared.FieldError{Path: "albums", Want: "JSON document"}
	}

	list := gjson.GetBytes(raw, "albums")
	if !list.IsArray() {
		return nil, &shared.FieldError{Path: "albums", Want: "array"}
	}

	entries := list.Array()
	albums := make([]models.Album, 0, len(entries))
	for i, value := range entries {
		if value.Type == gjson.Null {
			continue
		}
		album, err := mapAlbum(value, "albums."+strconv.Itoa(i)+".")
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}

	return albums, nil
}

// MapAlbum maps a single album object.
func MapAlbum(raw []byte) (models.Album, error) {
	if !gjson.ValidBytes(raw) {
		return models.Album{}, &shared.FieldError{Path: "", Want: "JSON document"}
	}
	return mapAlbum(gjson.ParseBytes(raw), "")
}

// MapTrack maps a single track object. position is the 1-based index used when the object has no track_number.
func MapTrack(raw []byte, position int) (models.Track, error) {
	if !gjson.ValidBytes(raw) {
		return models.Track{}, &shared.FieldError{Path: "", Want: "JSON document"}
	}
	return mapTrack(gjson.ParseBytes(raw), position, "")
}

func mapAlbum(obj gjson.Result, prefix string) (models.Album, error) {
	if !obj.IsObject() {
		return models.Album{}, &shared.FieldError{Path: trimPath(prefix), Want: "object"}
	}

	name, err := requireString(obj, "name", prefix)
	if err != nil {
		return models.Album{}, err
	}
	artistName, err := requireString(obj, "artists.0.name", prefix)
	if err != nil {
		return models.Album{}, err
	}
	coverURL, err := requireString(obj, "images.0.url", prefix)
	if err != nil {
		return models.Album{}, err
	}

	items := obj.Get("tracks.items")
	if !items.IsArray() {
		return models.Album{}, &shared.FieldError{Path: prefix + "tracks.items", Want: "array"}
	}

	entries := items.Array()
	tracks := make([]models.Track, 0, len(entries))
	for i, item := range entries {
		track, err := mapTrack(item, i+1, prefix+"tracks.items."+strconv.Itoa(i)+".")
		if err != nil {
			return models.Album{}, err
		}
		tracks = append(tracks, track)
	}

	return models.Album{
		ID:         obj.Get("id").String(),
		ArtistName: artistName,
		Name:       name,
		CoverURL:   coverURL,
		Tracks:     tracks,
	}, nil
}

func mapTrack(obj gjson.Result, position int, prefix string) (models.Track, error) {
	if !obj.IsObject() {
		return models.Track{}, &shared.FieldError{Path: trimPath(prefix), Want: "object"}
	}

	name, err := requireString(obj, "name", prefix)
	if err != nil {
		return models.Track{}, err
	}
	id, err := requireString(obj, "id", prefix)
	if err != nil {
		return models.Track{}, err
	}
	durationMS, err := requireInt(obj, "duration_ms", prefix)
	if err != nil {
		return models.Track{}, err
	}

	number := position
	if v := obj.Get("track_number"); v.Exists() {
		if v.Type != gjson.Number {
			return models.Track{}, &shared.FieldError{Path: prefix + "track_number", Want: "number"}
		}
		number = int(v.Int())
	}

	var preview string
	switch v := obj.Get("preview_url"); v.Type {
	case gjson.String:
		preview = v.Str
	case gjson.Null:
	default:
		return models.Track{}, &shared.FieldError{Path: prefix + "preview_url", Want: "string or null"}
	}

	return models.Track{
		Name:          name,
		ID:            id,
		LengthSeconds: durationMS / 1000,
		TrackNumber:   number,
		PreviewURL:    preview,
	}, nil
}

func requireString(obj gjson.Result, path, prefix string) (string, error) {
	v := obj.Get(path)
	if v.Type != gjson.String {
		return "", &shared.FieldError{Path: prefix + path, Want: "string"}
	}
	return v.Str, nil
}

func requireInt(obj gjson.Result, path, prefix string) (int, error) {
	v := obj.Get(path)
	if v.Type != gjson.Number {
		return 0, &shared.FieldError{Path: prefix + path, Want: "number"}
	}
	return int(v.Int()), nil
}

func trimPath(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix[:len(prefix)-1]
}
