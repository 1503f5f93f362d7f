package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotlists/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string { return i.playlist.ExternalURL }

func playlistItems(playlists []models.PlaylistSummary) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, pl := range playlists {
		items[i] = playlistItem{playlist: pl}
	}
	return items
}
