package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotlists/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	PlaylistListView
	ErrorView
)

// FetchFunc loads the playlists to browse.
type FetchFunc func(ctx context.Context) ([]models.PlaylistSummary, error)

// OpenFunc opens a playlist URL, usually in the browser.
type OpenFunc func(url string) error

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	fetch        FetchFunc
	open         OpenFunc
	width        int
	height       int
	playlistList list.Model
	playlists    []models.PlaylistSummary
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, fetch FetchFunc, open OpenFunc) *Model {
	m := &Model{
		ctx:   ctx,
		view:  LoadingView,
		fetch: fetch,
		open:  open,
		help:  help.New(),
		keys:  newKeyMap(),
	}
	m.playlistList = m.newList(nil)
	return m
}

// Init initializes the TUI by fetching playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(m.listSize())
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.err = data.err
			m.view = ErrorView
			return m, nil
		}
		m.err = nil
		m.playlists = data.playlists
		m.playlistList = m.newList(data.playlists)
		m.view = PlaylistListView
		m.status = fmt.Sprintf("%d playlists", len(data.playlists))
		return m, nil

	case MsgPlaylistOpened:
		data := msg.data.(playlistOpened)
		if data.err != nil {
			m.status = styles.failure.Render(fmt.Sprintf("Could not open %s: %v", data.playlist.Name, data.err))
			return m, nil
		}
		m.status = styles.opened.Render("✓ Opened " + data.playlist.Name)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, keys belong to the filter input.
	if m.view == PlaylistListView && m.playlistList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.playlistList, cmd = m.playlistList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.view != LoadingView {
			m.view = LoadingView
			m.status = ""
			return m, m.fetchPlaylists()
		}
		return m, nil
	case "enter":
		if m.view != PlaylistListView {
			return m, nil
		}
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			return m, m.openPlaylist(pl.playlist)
		}
		return m, nil
	}

	if m.view != PlaylistListView {
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return styles.hint.Render("Loading playlists...")
	case ErrorView:
		return styles.failure.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" +
			styles.hint.Render("Press r to retry, q to quit")
	case PlaylistListView:
		return m.renderPlaylistList()
	default:
		return ""
	}
}

// Selected returns the highlighted playlist, if any.
func (m *Model) Selected() (models.PlaylistSummary, bool) {
	pl, ok := m.playlistList.SelectedItem().(playlistItem)
	return pl.playlist, ok
}

func (m *Model) renderPlaylistList() string {
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())

	if len(m.playlists) == 0 {
		return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render("Spotify Playlists"), styles.empty.Render("No playlists found"), helpView)
	}

	return fmt.Sprintf("%s\n%s\n\n%s", m.playlistList.View(), m.status, helpView)
}

func (m *Model) newList(playlists []models.PlaylistSummary) list.Model {
	width, height := m.listSize()
	l := list.New(playlistItems(playlists), playlistDelegate(), width, height)
	l.Title = "Spotify Playlists"
	l.Styles.Title = styles.title
	l.SetShowHelp(false)
	return l
}

// listSize returns the list dimensions, assuming 80x24 until the first resize.
func (m *Model) listSize() (int, int) {
	width, height := m.width, m.height
	if width == 0 || height == 0 {
		width, height = 80, 24
	}
	return max(width-4, 10), max(height-6, 5)
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.fetch(m.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) openPlaylist(pl models.PlaylistSummary) tea.Cmd {
	return func() tea.Msg {
		if pl.ExternalURL == "" {
			return playlistOpenedMsg(pl, fmt.Errorf("playlist has no external url"))
		}
		return playlistOpenedMsg(pl, m.open(pl.ExternalURL))
	}
}
