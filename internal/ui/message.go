package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/playback"
	"github.com/desertthunder/spx/internal/services"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchDone MsgKind = iota
	MsgSessionEvent
	MsgSessionClosed
	MsgCommandFailed
	MsgCoverLoaded
	MsgCoversExported
)

type searchDone struct {
	query  string
	result *services.SearchResult
	err    error
}

type coverLoaded struct {
	albumID string
	art     string
}

type coversExported struct {
	paths []string
	err   error
}

type commandFailed struct {
	track models.Track
	err   error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(query string, result *services.SearchResult, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{query, result, err}}
}

// sessionEventMsg is the constructor for [MsgSessionEvent]
func sessionEventMsg(ev playback.Event) Msg {
	return Msg{kind: MsgSessionEvent, data: ev}
}

// sessionClosedMsg is the constructor for [MsgSessionClosed]
func sessionClosedMsg() Msg {
	return Msg{kind: MsgSessionClosed}
}

// commandFailedMsg is the constructor for [MsgCommandFailed]
func commandFailedMsg(track models.Track, err error) Msg {
	return Msg{kind: MsgCommandFailed, data: commandFailed{track, err}}
}

// coverLoadedMsg is the constructor for [MsgCoverLoaded]
func coverLoadedMsg(albumID, art string) Msg {
	return Msg{kind: MsgCoverLoaded, data: coverLoaded{albumID, art}}
}

// coversExportedMsg is the constructor for [MsgCoversExported]
func coversExportedMsg(paths []string, err error) Msg {
	return Msg{kind: MsgCoversExported, data: coversExported{paths, err}}
}
