// package covers retrieves album cover images, exports them as PNG files and renders them as ASCII art
package covers

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/qeesung/image2ascii/convert"
	"golang.org/x/sync/errgroup"
)

// DefaultDir is where exported covers are written, relative to the working directory.
const DefaultDir = "./images"

// Each forbidden character becomes exactly one space so names keep their length.
var sanitizer = strings.NewReplacer(
	":", " ",
	"/", " ",
	"^", " ",
	".", " ",
	"*", " ",
	"?", " ",
	`"`, " ",
	"<", " ",
	">", " ",
	"|", " ",
)

// SanitizeFileName replaces characters that are unsafe in file names with spaces.
func SanitizeFileName(name string) string {
	return sanitizer.Replace(name)
}

// CoverPath returns dir/<artist>/<album>.png with both components sanitized.
func CoverPath(dir, artist, album string) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, SanitizeFileName(artist), SanitizeFileName(album)+".png")
}

// Fetcher downloads cover images.
type Fetcher struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewFetcher creates a Fetcher. A nil client gets a 10 second timeout.
func NewFetcher(httpClient *http.Client, logger *log.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Fetcher{httpClient: httpClient, logger: logger}
}

// Fetch downloads and decodes the image at url (JPEG or PNG).
func (f *Fetcher) Fetch(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty cover URL", shared.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrIO, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download cover: %v", shared.ErrIO, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &shared.StatusError{Endpoint: url, StatusCode: resp.StatusCode}
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode cover: %v", shared.ErrProtocol, err)
	}

	f.logger.Debug("cover fetched", "url", url, "format", format, "bounds", img.Bounds())
	return img, nil
}

// Export writes the album's cover to [CoverPath] under dir as PNG and returns the path.
func (f *Fetcher) Export(ctx context.Context, dir string, album models.Album) (string, error) {
	path := CoverPath(dir, album.ArtistName, album.Name)
	if err := f.export(ctx, path, album); err != nil {
		return "", err
	}
	return path, nil
}

// CoverPaths returns one path per album in order. Albums whose names collide after sanitizing get
// " (2)", " (3)", ... appended, so no two albums share a file.
func CoverPaths(dir string, albums []models.Album) []string {
	paths := make([]string, len(albums))
	seen := make(map[string]bool, len(albums))

	for i, album := range albums {
		path := CoverPath(dir, album.ArtistName, album.Name)
		for n := 2; seen[path]; n++ {
			path = CoverPath(dir, album.ArtistName, fmt.Sprintf("%s (%d)", album.Name, n))
		}
		seen[path] = true
		paths[i] = path
	}
	return paths
}

// ExportAll exports covers for albums with at most workers downloads in flight.
//
// Paths come from [CoverPaths] and are returned in album order. The first failure cancels the
// remaining downloads.
func (f *Fetcher) ExportAll(ctx context.Context, dir string, albums []models.Album, workers int) ([]string, error) {
	if workers <= 0 {
		workers = 1
	}

	paths := CoverPaths(dir, albums)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, album := range albums {
		g.Go(func() error {
			return f.export(ctx, paths[i], album)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// export fetches the cover and writes it to path through a temporary file in the same directory,
// so a reader never sees a partial PNG.
func (f *Fetcher) export(ctx context.Context, path string, album models.Album) error {
	img, err := f.Fetch(ctx, album.CoverURL)
	if err != nil {
		return fmt.Errorf("cover for %q: %w", album.Name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", shared.ErrIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cover-*.png")
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", shared.ErrIO, path, err)
	}
	defer os.Remove(tmp.Name())

	if err := writePNG(tmp, img); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrIO, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: failed to move cover into place: %v", shared.ErrIO, err)
	}

	f.logger.Info("cover exported", "album", album.Name, "path", path)
	return nil
}

// writePNG encodes img into file and closes it. A failed close is reported.
func writePNG(file io.WriteCloser, img image.Image) error {
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ASCII renders the image at url as monochrome ASCII art of width x height cells.
//
// On failure it returns [Placeholder] along with the error.
func (f *Fetcher) ASCII(ctx context.Context, url string, width, height int) (string, error) {
	img, err := f.Fetch(ctx, url)
	if err != nil {
		return Placeholder(width, height), err
	}
	return Render(img, width, height), nil
}

// Render converts img to ASCII art.
func Render(img image.Image, width, height int) string {
	opts := convert.DefaultOptions
	opts.FixedWidth = width
	opts.FixedHeight = height
	opts.FitScreen = false
	opts.Colored = false

	return convert.NewImageConverter().Image2ASCIIString(img, &opts)
}

// Placeholder is shown when a cover cannot be loaded.
func Placeholder(width, height int) string {
	width = max(width, 12)
	height = max(height, 3)

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", width-2) + "┐\n")
	for row := 1; row < height-1; row++ {
		inner := strings.Repeat(" ", width-2)
		if row == (height-1)/2 {
			label := "no cover"
			pad := (width - 2 - len(label)) / 2
			inner = strings.Repeat(" ", pad) + label + strings.Repeat(" ", width-2-pad-len(label))
		}
		b.WriteString("│" + inner + "│\n")
	}
	b.WriteString("└" + strings.Repeat("─", width-2) + "┘")
	return b.String()
}
