// Package models defines the value types shared by the catalog client, the playback session, and the presentation layers.
//
// All types are immutable once constructed:
//   - [Credential] : bearer token acquired once through the client-credentials exchange
//   - [Artist] : resolved artist id and display name, kept only for the current search
//   - [Album] : album metadata plus its ordered track listing
//   - [Track] : track metadata with an optional preview URL
//
// Track identity is the [TrackKey] (name, id). Length and track number are excluded so that
// two fetches of the same track compare equal even when incidental fields differ.
package models
