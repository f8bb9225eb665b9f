// Package services implements the catalog side of spx: authentication, artist and album queries, and the mapping of catalog JSON into [models] values.
//
// # Authentication
//
// [TokenManager] performs a single OAuth2 client-credentials exchange through [clientcredentials.Config].
// The resulting bearer token is reused for the life of the process. There is no refresh: once the token
// expires, catalog calls fail with a [shared.StatusError] that matches [shared.ErrAuth], and the caller
// decides what to do. Nothing in this package retries.
//
// # Catalog Client
//
// [CatalogClient] exposes three queries, matching the three endpoints used by a discography search:
//   - [CatalogClient.ResolveArtistID] : GET /v1/search, first artist wins
//   - [CatalogClient.ListAlbumIDs] : GET /v1/artists/{id}/albums, first page only (50 albums at most)
//   - [CatalogClient.FetchAlbums] : GET /v1/albums in batches of at most 20 ids, sequential, all-or-nothing
//
// Every request waits on a [rate.Limiter] before it is sent. Requests carry the timeout of the configured
// [http.Client]; the transport default applies when the caller passes a client without one.
//
// # Mapping
//
// [MapAlbum], [MapAlbums] and [MapTrack] read catalog JSON with [gjson] and never substitute defaults for
// required fields. A missing or mistyped field yields a [shared.FieldError] naming the JSON path.
//
// # Error Handling
//
// Errors are typed through the sentinels in the shared package:
//   - [shared.ErrNotAuthenticated] : a query ran before Authenticate succeeded
//   - [shared.ErrAuth] : the token exchange failed, or the service answered 401
//   - [shared.ErrIO] : transport failure
//   - [shared.ErrProtocol] : non-2xx status or invalid JSON
//   - [shared.ErrMalformedResponse] : required field missing or of the wrong shape
//   - [shared.ErrNotFound] : the artist search matched nothing
package services
