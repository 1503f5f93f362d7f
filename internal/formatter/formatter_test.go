package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/spotlists/internal/models"
	th "github.com/desertthunder/spotlists/internal/testing"
)

func fixture() []models.PlaylistSummary {
	return []models.PlaylistSummary{
		{Name: "Road Trip", ExternalURL: "https://open.spotify.com/playlist/pl0"},
		{Name: "Focus, Deep", ExternalURL: "https://open.spotify.com/playlist/pl1"},
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name      string
		playlists []models.PlaylistSummary
		expected  string
	}{
		{"empty", nil, "No playlists found"},
		{"single", []models.PlaylistSummary{{Name: "A", ExternalURL: "https://x/a"}}, "A: https://x/a"},
		{"multiple", fixture(), "Road Trip: https://open.spotify.com/playlist/pl0\nFocus, Deep: https://open.spotify.com/playlist/pl1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderText(tt.playlists); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(fixture())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if !strings.HasSuffix(string(data), "pl1\n") {
			t.Errorf("expected trailing newline, got %q", data)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(fixture())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Name,URL\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, `"Focus, Deep",https://open.spotify.com/playlist/pl1`) {
			t.Errorf("CSV should quote names containing commas, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(fixture())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Playlists") {
			t.Error("Markdown missing title")
		}
		if !strings.Contains(output, "**Count**: 2") {
			t.Error("Markdown missing count")
		}
		if !strings.Contains(output, "1. [Road Trip](https://open.spotify.com/playlist/pl0)") {
			t.Errorf("Markdown missing first link, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown escapes brackets", func(t *testing.T) {
		data, _ := ExportToMarkdown([]models.PlaylistSummary{{Name: "[WIP] mix", ExternalURL: "https://x/y"}})
		if !strings.Contains(string(data), `[\[WIP\] mix](https://x/y)`) {
			t.Errorf("expected escaped brackets, got: %s", data)
		}
	})

	t.Run("ExportToMarkdown empty", func(t *testing.T) {
		data, _ := ExportToMarkdown(nil)
		if !strings.Contains(string(data), "No playlists found") {
			t.Errorf("expected empty notice, got: %s", data)
		}
	})

	t.Run("Export unsupported", func(t *testing.T) {
		if _, err := Export(Format("xml"), fixture()); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", FormatText, false},
		{"TXT", FormatText, false},
		{"csv", FormatCSV, false},
		{"md", FormatMarkdown, false},
		{" Markdown ", FormatMarkdown, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "playlists.csv")

		if err := WriteExport(FormatCSV, fixture(), path); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "Road Trip") {
			t.Error("expected playlist in file")
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "playlists.txt")

		if err := WriteExport(FormatText, fixture(), path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
