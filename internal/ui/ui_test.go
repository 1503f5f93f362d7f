package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/spotlists/internal/models"
)

func fixturePlaylists() []models.PlaylistSummary {
	return []models.PlaylistSummary{
		{Name: "Road Trip", ExternalURL: "https://open.spotify.com/playlist/pl0"},
		{Name: "Focus", ExternalURL: "https://open.spotify.com/playlist/pl1"},
	}
}

func newTestModel(playlists []models.PlaylistSummary, fetchErr error) (*Model, *[]string) {
	var opened []string
	fetch := func(context.Context) ([]models.PlaylistSummary, error) { return playlists, fetchErr }
	open := func(url string) error {
		opened = append(opened, url)
		return nil
	}
	return NewModel(context.Background(), fetch, open), &opened
}

// run executes cmd and feeds its message back into m.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func TestModel(t *testing.T) {
	t.Run("Init Fetches Playlists", func(t *testing.T) {
		m, _ := newTestModel(fixturePlaylists(), nil)

		if m.view != LoadingView {
			t.Errorf("expected LoadingView, got %v", m.view)
		}

		run(t, m, m.Init())

		if m.view != PlaylistListView {
			t.Errorf("expected PlaylistListView, got %v", m.view)
		}
		if len(m.playlistList.Items()) != 2 {
			t.Errorf("expected 2 items, got %d", len(m.playlistList.Items()))
		}
		if !strings.Contains(m.View(), "Road Trip") {
			t.Error("expected playlist name in view")
		}
	})

	t.Run("Enter Opens Selected Playlist", func(t *testing.T) {
		m, opened := newTestModel(fixturePlaylists(), nil)
		run(t, m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(t, m, cmd)

		if len(*opened) != 1 || (*opened)[0] != "https://open.spotify.com/playlist/pl0" {
			t.Errorf("expected first playlist to be opened, got %v", *opened)
		}
		if !strings.Contains(m.status, "Opened Road Trip") {
			t.Errorf("expected status to confirm open, got %q", m.status)
		}
	})

	t.Run("Down Then Enter", func(t *testing.T) {
		m, opened := newTestModel(fixturePlaylists(), nil)
		run(t, m, m.Init())

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
		if pl, ok := m.Selected(); !ok || pl.Name != "Focus" {
			t.Fatalf("expected Focus to be selected, got %+v", pl)
		}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(t, m, cmd)

		if len(*opened) != 1 || (*opened)[0] != "https://open.spotify.com/playlist/pl1" {
			t.Errorf("expected second playlist to be opened, got %v", *opened)
		}
	})

	t.Run("Open Failure", func(t *testing.T) {
		fetch := func(context.Context) ([]models.PlaylistSummary, error) { return fixturePlaylists(), nil }
		m := NewModel(context.Background(), fetch, func(string) error { return errors.New("no browser") })
		run(t, m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		run(t, m, cmd)

		if !strings.Contains(m.status, "no browser") {
			t.Errorf("expected open error in status, got %q", m.status)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		m, _ := newTestModel(nil, nil)
		run(t, m, m.Init())

		if !strings.Contains(m.View(), "No playlists found") {
			t.Errorf("expected empty message, got %q", m.View())
		}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd != nil {
			t.Error("enter on an empty list should do nothing")
		}
	})

	t.Run("Fetch Error And Retry", func(t *testing.T) {
		calls := 0
		fetch := func(context.Context) ([]models.PlaylistSummary, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("upstream down")
			}
			return fixturePlaylists(), nil
		}
		m := NewModel(context.Background(), fetch, func(string) error { return nil })

		run(t, m, m.Init())
		if m.view != ErrorView {
			t.Fatalf("expected ErrorView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "upstream down") {
			t.Errorf("expected error in view, got %q", m.View())
		}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		run(t, m, cmd)

		if m.view != PlaylistListView {
			t.Errorf("expected PlaylistListView after retry, got %v", m.view)
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _ := newTestModel(fixturePlaylists(), nil)
		run(t, m, m.Init())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("Window Size", func(t *testing.T) {
		m, _ := newTestModel(fixturePlaylists(), nil)
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

		if m.playlistList.Width() != 96 || m.playlistList.Height() != 34 {
			t.Errorf("expected 96x34, got %dx%d", m.playlistList.Width(), m.playlistList.Height())
		}
	})
}

func TestTheme(t *testing.T) {
	t.Run("selection uses brand color", func(t *testing.T) {
		d := playlistDelegate()
		if d.Styles.SelectedTitle.GetForeground() != spotifyGreen {
			t.Errorf("expected selected title in brand green, got %v", d.Styles.SelectedTitle.GetForeground())
		}
		if d.Styles.SelectedDesc.GetBorderLeftForeground() != spotifyGreen {
			t.Error("expected selection border in brand green")
		}
	})

	t.Run("styles keep their text", func(t *testing.T) {
		th := newTheme()
		for name, style := range map[string]lipgloss.Style{
			"title": th.title, "opened": th.opened, "failure": th.failure, "empty": th.empty, "hint": th.hint,
		} {
			if !strings.Contains(style.Render("Road Trip"), "Road Trip") {
				t.Errorf("%s style dropped its text", name)
			}
		}
	})
}
