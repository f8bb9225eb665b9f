// package formatter renders discographies for the CLI (plain text, CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/mattn/go-runewidth"
)

// Format names accepted by [Render].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

const (
	titleWidth = 40
	noPreview  = "-"
	hasPreview = "▶"
)

// Discography is an artist with its albums, in catalog order.
type Discography struct {
	Artist string         `json:"artist"`
	Albums []models.Album `json:"albums"`
}

// Render dispatches to the exporter for format.
func Render(d Discography, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return ExportToText(d)
	case FormatCSV:
		return ExportToCSV(d)
	case FormatMarkdown, "md":
		return ExportToMarkdown(d, nil)
	case FormatJSON:
		return shared.MarshalJSON(d, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, format)
	}
}

// ExportToCSV converts a Discography to CSV with columns: Album, Number, Title, Length, Preview, ID
func ExportToCSV(d Discography) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Album", "Number", "Title", "Length", "Preview", "ID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, album := range d.Albums {
		for _, track := range album.Tracks {
			record := []string{
				album.Name,
				strconv.Itoa(track.TrackNumber),
				track.Name,
				shared.FormatDuration(track.LengthSeconds),
				track.PreviewURL,
				track.ID,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Discography to Markdown. covers maps album ids to image paths and may be nil.
func ExportToMarkdown(d Discography, covers map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", d.Artist)
	fmt.Fprintf(&buf, "**Albums**: %d\n\n", len(d.Albums))

	for _, album := range d.Albums {
		fmt.Fprintf(&buf, "## %s\n\n", album.Name)
		if path, ok := covers[album.ID]; ok && path != "" {
			fmt.Fprintf(&buf, "![Cover](%s)\n\n", path)
		}
		for _, track := range album.Tracks {
			preview := ""
			if track.HasPreview() {
				preview = fmt.Sprintf(" ([preview](%s))", track.PreviewURL)
			}
			fmt.Fprintf(&buf, "%d. %s [%s]%s\n", track.TrackNumber, track.Name, shared.FormatDuration(track.LengthSeconds), preview)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Discography to aligned plain text.
//
// Titles are padded by display width so CJK and other wide names line up.
func ExportToText(d Discography) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Artist: %s\n", d.Artist)
	fmt.Fprintf(&buf, "Albums: %d\n", len(d.Albums))

	for _, album := range d.Albums {
		fmt.Fprintf(&buf, "\n%s (%d tracks, %d previews)\n", album.Name, len(album.Tracks), album.PreviewableTracks())
		for _, track := range album.Tracks {
			buf.WriteString(TrackLine(track, titleWidth))
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// TrackLine renders one track as "NN  title  m:ss  ▶" with the title fitted to width cells.
func TrackLine(track models.Track, width int) string {
	marker := noPreview
	if track.HasPreview() {
		marker = hasPreview
	}
	title := runewidth.FillRight(runewidth.Truncate(track.Name, width, "…"), width)
	return fmt.Sprintf("%3d  %s  %5s  %s", track.TrackNumber, title, shared.FormatDuration(track.LengthSeconds), marker)
}

// WriteExport renders d in format and writes it to path, creating parent directories.
//
// An empty path defaults to {artist}.{ext} in the working directory.
func WriteExport(d Discography, format, path string) (string, error) {
	data, err := Render(d, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = strings.ReplaceAll(strings.ToLower(d.Artist), " ", "_") + "." + extension(format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("%w: failed to create directory: %v", shared.ErrIO, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write %s: %v", shared.ErrIO, path, err)
	}

	return path, nil
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case FormatCSV:
		return "csv"
	case FormatMarkdown, "md":
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}
