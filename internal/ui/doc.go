// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [SearchView] : Enter an artist name
//  2. [AlbumView] : Browse the artist's albums one at a time, with cover art and a playable track list
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Update is the only writer of view state. Catalog searches and session commands run as [tea.Cmd]s, and playback
// notifications arrive as messages from a Cmd that reads the session's event stream.
//
// Per-track control state is held in [Controls], keyed by track name and id, and is rebuilt whenever a search
// replaces the album list.
package ui
