package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/playback"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	AlbumView
)

const (
	seekStep    = 5 * time.Second
	coverWidth  = 24
	coverHeight = 12
	barWidth    = 30
)

// Session is the playback surface the TUI drives. [*playback.Session] implements it.
type Session interface {
	Play(ctx context.Context, track models.Track) error
	Stop() error
	Seek(position time.Duration) error
	Events() <-chan playback.Event
}

// Covers renders and exports album art. [*covers.Fetcher] implements it.
type Covers interface {
	ASCII(ctx context.Context, url string, width, height int) (string, error)
	ExportAll(ctx context.Context, dir string, albums []models.Album, workers int) ([]string, error)
}

// ModelOpts contains the dependencies and settings for a [Model].
type ModelOpts struct {
	Catalog       services.Catalog
	Session       Session
	Covers        Covers
	DefaultArtist string
	ExportDir     string
	Workers       int
	Logger        *log.Logger
}

// nowPlaying mirrors the session as last reported by its events.
type nowPlaying struct {
	track    models.Track
	state    playback.State
	position time.Duration
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	opts     ModelOpts
	width    int
	height   int
	input    textinput.Model
	loading  bool
	artist   models.Artist
	albums   []models.Album
	album    int
	tracks   list.Model
	controls *Controls
	covers   map[string]string
	current  nowPlaying
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	input := textinput.New()
	input.Placeholder = "Artist name"
	input.CharLimit = 120
	input.Focus()

	if opts.DefaultArtist == "" {
		opts.DefaultArtist = "Pink Floyd"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	tracks := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tracks.SetShowHelp(false)
	tracks.SetFilteringEnabled(false)
	tracks.SetShowStatusBar(false)

	return &Model{
		ctx:      ctx,
		view:     SearchView,
		opts:     opts,
		input:    input,
		tracks:   tracks,
		controls: NewControls(),
		covers:   make(map[string]string),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the event listener and searches for the default artist.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	m.input.SetValue(m.opts.DefaultArtist)
	return tea.Batch(textinput.Blink, m.listen(), m.search(m.opts.DefaultArtist))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tracks.SetSize(max(msg.Width-coverWidth-8, 20), max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case AlbumView:
			return m.handleAlbumKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchDone:
		return m.applySearch(msg.data.(searchDone))

	case MsgSessionEvent:
		m.applyEvent(msg.data.(playback.Event))
		return m, m.listen()

	case MsgSessionClosed:
		m.current = nowPlaying{}
		return m, nil

	case MsgCommandFailed:
		data := msg.data.(commandFailed)
		m.status = describeError(data.err)
		if errors.Is(data.err, shared.ErrNoPreview) {
			m.status = fmt.Sprintf("%q has no preview", data.track.Name)
		}
		return m, nil

	case MsgCoverLoaded:
		data := msg.data.(coverLoaded)
		m.covers[data.albumID] = data.art
		return m, nil

	case MsgCoversExported:
		data := msg.data.(coversExported)
		if data.err != nil {
			m.status = "Cover export failed: " + describeError(data.err)
		} else {
			m.status = fmt.Sprintf("Exported %d covers to %s", len(data.paths), m.opts.ExportDir)
		}
		return m, nil
	}
	return m, nil
}

// applySearch replaces the album list wholesale and evicts every control from the previous list.
func (m *Model) applySearch(data searchDone) (tea.Model, tea.Cmd) {
	m.loading = false
	if data.err != nil {
		m.err = data.err
		m.status = describeError(data.err)
		return m, nil
	}

	m.err = nil
	m.status = ""
	m.artist = data.result.Artist
	m.albums = data.result.Albums
	m.album = 0
	m.covers = make(map[string]string)
	m.controls.Reset(m.albums)
	m.view = AlbumView
	m.input.Blur()

	if len(m.albums) == 0 {
		m.status = fmt.Sprintf("%s has no albums in this market", m.artist.Name)
		m.tracks.SetItems(nil)
		return m, nil
	}
	return m, m.showAlbum(0)
}

func (m *Model) applyEvent(ev playback.Event) {
	switch ev.Kind {
	case playback.EventStarted:
		m.current = nowPlaying{track: ev.Track, state: playback.Playing}
		m.status = ""
	case playback.EventStopped:
		if m.current.track.Same(ev.Track) {
			m.current = nowPlaying{}
		}
	case playback.EventProgress, playback.EventSeeked:
		if m.current.track.Same(ev.Track) {
			m.current.position = ev.Position
		}
	}

	if m.controls.Apply(ev) {
		m.refreshTracks()
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if len(m.albums) > 0 {
			m.view = AlbumView
			m.input.Blur()
		}
		return m, nil
	case key.Matches(msg, m.keys.submit):
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			m.status = "Enter an artist name"
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, m.search(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleAlbumKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.play):
		return m, m.playSelected()
	case key.Matches(msg, m.keys.stop):
		return m, m.stop()
	case key.Matches(msg, m.keys.seekBack):
		return m, m.seek(-seekStep)
	case key.Matches(msg, m.keys.seekAhead):
		return m, m.seek(seekStep)
	case key.Matches(msg, m.keys.prevAlbum):
		return m, m.showAlbum(m.album - 1)
	case key.Matches(msg, m.keys.nextAlbum):
		return m, m.showAlbum(m.album + 1)
	case key.Matches(msg, m.keys.export):
		return m, m.exportCovers()
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

// showAlbum selects album i, clamped to the list, and loads its cover if it is not cached.
func (m *Model) showAlbum(i int) tea.Cmd {
	if len(m.albums) == 0 {
		return nil
	}
	m.album = min(max(i, 0), len(m.albums)-1)
	album := m.albums[m.album]

	m.tracks.Title = album.Name
	m.tracks.SetItems(trackItems(album, m.controls))
	m.tracks.Select(0)

	if _, ok := m.covers[album.ID]; ok || m.opts.Covers == nil {
		return nil
	}
	return m.loadCover(album)
}

func (m *Model) refreshTracks() {
	if len(m.albums) == 0 {
		return
	}
	index := m.tracks.Index()
	m.tracks.SetItems(trackItems(m.albums[m.album], m.controls))
	m.tracks.Select(index)
}

func (m *Model) selectedTrack() (models.Track, bool) {
	item, ok := m.tracks.SelectedItem().(trackItem)
	if !ok {
		return models.Track{}, false
	}
	return item.track, true
}

func (m *Model) playSelected() tea.Cmd {
	track, ok := m.selectedTrack()
	if !ok {
		return nil
	}
	if !m.controls.Get(track).Enabled {
		m.status = fmt.Sprintf("%q has no preview", track.Name)
		return nil
	}

	session := m.opts.Session
	return func() tea.Msg {
		if err := session.Play(m.ctx, track); err != nil {
			return commandFailedMsg(track, err)
		}
		return nil
	}
}

func (m *Model) stop() tea.Cmd {
	if m.current.state != playback.Playing {
		return nil
	}
	session := m.opts.Session
	return func() tea.Msg {
		if err := session.Stop(); err != nil && !errors.Is(err, shared.ErrNotPlaying) {
			return commandFailedMsg(models.Track{}, err)
		}
		return nil
	}
}

func (m *Model) seek(delta time.Duration) tea.Cmd {
	if m.current.state != playback.Playing {
		return nil
	}
	track := m.current.track
	position := max(m.current.position+delta, 0)
	session := m.opts.Session
	return func() tea.Msg {
		if err := session.Seek(position); err != nil && !errors.Is(err, shared.ErrNotPlaying) {
			return commandFailedMsg(track, err)
		}
		return nil
	}
}

func (m *Model) search(query string) tea.Cmd {
	catalog := m.opts.Catalog
	return func() tea.Msg {
		result, err := catalog.SearchArtist(m.ctx, query)
		return searchDoneMsg(query, result, err)
	}
}

func (m *Model) listen() tea.Cmd {
	if m.opts.Session == nil {
		return nil
	}
	events := m.opts.Session.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return sessionClosedMsg()
		}
		return sessionEventMsg(ev)
	}
}

func (m *Model) loadCover(album models.Album) tea.Cmd {
	fetcher, logger := m.opts.Covers, m.opts.Logger
	return func() tea.Msg {
		art, err := fetcher.ASCII(m.ctx, album.CoverURL, coverWidth, coverHeight)
		if err != nil {
			logger.Warn("cover unavailable, showing placeholder", "album", album.Name, "url", album.CoverURL, "error", err)
		}
		return coverLoadedMsg(album.ID, art)
	}
}

func (m *Model) exportCovers() tea.Cmd {
	if m.opts.Covers == nil || len(m.albums) == 0 {
		return nil
	}
	fetcher, albums, dir, workers := m.opts.Covers, m.albums, m.opts.ExportDir, m.opts.Workers
	m.status = fmt.Sprintf("Exporting %d covers...", len(albums))
	return func() tea.Msg {
		paths, err := fetcher.ExportAll(m.ctx, dir, albums, workers)
		return coversExportedMsg(paths, err)
	}
}

// describeError maps the error taxonomy to a message for the status line.
func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, shared.ErrNotFound):
		return "Artist not found"
	case errors.Is(err, shared.ErrAuth), errors.Is(err, shared.ErrNotAuthenticated):
		return "Not authorized with the catalog service"
	case errors.Is(err, shared.ErrNoPreview):
		return "No preview available"
	case errors.Is(err, shared.ErrIO):
		return "Could not reach the catalog service"
	case errors.Is(err, shared.ErrProtocol):
		return "The catalog service returned an unexpected response"
	case errors.Is(err, shared.ErrPlayerFailed):
		return "Playback failed"
	default:
		return err.Error()
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case AlbumView:
		return m.renderAlbum()
	default:
		return ""
	}
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search artist")
	body := m.input.View()
	if m.loading {
		body += "\n\n" + styles.muted.Render("Searching...")
	}
	if m.status != "" {
		body += "\n\n" + styles.err.Render(m.status)
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back})
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderAlbum() string {
	if len(m.albums) == 0 {
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render(m.status), m.help.ShortHelpView([]key.Binding{m.keys.search, m.keys.quit}))
	}
	album := m.albums[m.album]

	header := fmt.Sprintf("%s %s   %s %s (%d/%d)",
		styles.label.Render("Artist:"), m.artist.Name,
		styles.label.Render("Album:"), album.Name, m.album+1, len(m.albums))

	cover, ok := m.covers[album.ID]
	if !ok {
		cover = styles.muted.Render("loading cover...")
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, styles.cover.Render(cover), m.tracks.View())

	var status string
	if m.status != "" {
		status = "\n" + styles.warn.Render(m.status)
	}

	helpView := m.help.ShortHelpView([]key.Binding{
		m.keys.play, m.keys.stop, m.keys.seekBack, m.keys.seekAhead,
		m.keys.prevAlbum, m.keys.nextAlbum, m.keys.search, m.keys.export, m.keys.quit,
	})

	return fmt.Sprintf("%s\n\n%s\n\n%s%s\n\n%s", header, body, m.renderNowPlaying(), status, helpView)
}

func (m *Model) renderNowPlaying() string {
	if m.current.state != playback.Playing {
		return styles.muted.Render("■ stopped")
	}
	return styles.playing.Render("▶ "+m.current.track.Name) + "  " + progressBar(m.current.position, barWidth)
}

// progressBar draws elapsed preview time against a 30 second clip.
func progressBar(position time.Duration, width int) string {
	const clip = 30 * time.Second
	filled := int(float64(width) * min(float64(position)/float64(clip), 1))
	return fmt.Sprintf("%s%s %s", strings.Repeat("━", filled), strings.Repeat("─", width-filled), shared.FormatDuration(int(position.Seconds())))
}
