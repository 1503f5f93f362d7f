package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Colors adapt to the terminal background. Green is Spotify's brand color.
var (
	spotifyGreen = lipgloss.AdaptiveColor{Light: "#1AA34A", Dark: "#1DB954"}
	failureRed   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5F57"}
	emptyAmber   = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB224"}
	hintGray     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#626262"}
)

var styles = newTheme()

// theme holds the styles for each view of the playlist browser.
type theme struct {
	title   lipgloss.Style // list header
	opened  lipgloss.Style // status after a playlist opens in the browser
	failure lipgloss.Style // fetch and open errors
	empty   lipgloss.Style // "No playlists found"
	hint    lipgloss.Style // loading text and key help
}

func newTheme() theme {
	return theme{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(spotifyGreen).
			Padding(0, 1).
			MarginBottom(1),
		opened:  lipgloss.NewStyle().Bold(true).Foreground(spotifyGreen),
		failure: lipgloss.NewStyle().Bold(true).Foreground(failureRed),
		empty:   lipgloss.NewStyle().Foreground(emptyAmber),
		hint:    lipgloss.NewStyle().Italic(true).Foreground(hintGray),
	}
}

// playlistDelegate renders each row as name over URL, with the selection marked in green.
func playlistDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(spotifyGreen).
		BorderLeftForeground(spotifyGreen)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(hintGray).
		BorderLeftForeground(spotifyGreen)
	return d
}
