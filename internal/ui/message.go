package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotlists/internal/models"
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
	MsgPlaylistsFetched MsgKind = iota
	MsgPlaylistOpened
)

type playlistsFetched struct {
	playlists []models.PlaylistSummary
	err       error
}

type playlistOpened struct {
	playlist models.PlaylistSummary
	err      error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.PlaylistSummary, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{playlists, err}}
}

// playlistOpenedMsg is the constructor for [MsgPlaylistOpened]
func playlistOpenedMsg(playlist models.PlaylistSummary, err error) Msg {
	return Msg{kind: MsgPlaylistOpened, data: playlistOpened{playlist, err}}
}
