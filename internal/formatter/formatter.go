// package formatter renders playlist summaries as plain text, CSV, or Markdown
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/spotlists/internal/models"
)

// NoPlaylists is the whole text rendering of an empty listing.
const NoPlaylists = "No playlists found"

// Format names an export encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported export encodings.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown}

// ParseFormat accepts a format name, case-insensitively. "md" is an alias for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want one of %v)", name, Formats)
	}
}

// RenderText joins the summaries as "<name>: <url>" lines without a trailing newline.
func RenderText(playlists []models.PlaylistSummary) string {
	if len(playlists) == 0 {
		return NoPlaylists
	}

	lines := make([]string, 0, len(playlists))
	for _, p := range playlists {
		lines = append(lines, p.Name+": "+p.ExternalURL)
	}
	return strings.Join(lines, "\n")
}

// ExportToText converts playlists to the plain text listing, newline terminated.
func ExportToText(playlists []models.PlaylistSummary) ([]byte, error) {
	return []byte(RenderText(playlists) + "\n"), nil
}

// ExportToCSV converts playlists to CSV with columns: Name, URL
func ExportToCSV(playlists []models.PlaylistSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Name", "URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range playlists {
		if err := writer.Write([]string{p.Name, p.ExternalURL}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts playlists to a Markdown document with one link per playlist
func ExportToMarkdown(playlists []models.PlaylistSummary) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Playlists\n\n")
	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(playlists)))

	if len(playlists) == 0 {
		buf.WriteString("_" + NoPlaylists + "_\n")
		return buf.Bytes(), nil
	}

	for i, p := range playlists {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s)\n", i+1, escapeMarkdown(p.Name), p.ExternalURL))
	}

	return buf.Bytes(), nil
}

// Export encodes playlists in the given format.
func Export(format Format, playlists []models.PlaylistSummary) ([]byte, error) {
	switch format {
	case FormatText:
		return ExportToText(playlists)
	case FormatCSV:
		return ExportToCSV(playlists)
	case FormatMarkdown:
		return ExportToMarkdown(playlists)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// WriteExport encodes playlists and writes them to path.
func WriteExport(format Format, playlists []models.PlaylistSummary, path string) error {
	data, err := Export(format, playlists)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
