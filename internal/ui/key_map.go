package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	play      key.Binding
	stop      key.Binding
	seekBack  key.Binding
	seekAhead key.Binding
	prevAlbum key.Binding
	nextAlbum key.Binding
	search    key.Binding
	submit    key.Binding
	back      key.Binding
	export    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		play:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play/stop")),
		stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		seekBack:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-5s")),
		seekAhead: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+5s")),
		prevAlbum: key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[", "prev album")),
		nextAlbum: key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]", "next album")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export covers")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.search, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.play, k.stop},
		{k.seekBack, k.seekAhead, k.prevAlbum, k.nextAlbum},
		{k.search, k.export, k.back, k.quit},
	}
}
