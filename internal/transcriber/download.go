package transcriber

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
)

// downloadTimeout bounds one source-file fetch.
const downloadTimeout = 5 * time.Minute

// HTTPDownloader fetches remote source files over HTTP(S) into the output
// directory before processing.
type HTTPDownloader struct {
	client *http.Client
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Downloader = (*HTTPDownloader)(nil)

// NewHTTPDownloader creates a downloader with a default client.
func NewHTTPDownloader(logger arbor.ILogger) *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{Timeout: downloadTimeout},
		logger: logger,
	}
}

// Download fetches rawURL into destDir and returns the local path. The
// local name is the last path segment of the URL.
func (d *HTTPDownloader) Download(ctx context.Context, rawURL, destDir string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid source URL %s: %w", rawURL, err)
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "/" || name == "." {
		name = "download"
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}
	destPath := filepath.Join(destDir, name)

	d.logger.Info().Str("url", rawURL).Str("dest", destPath).Msg("Downloading source file")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download %s: status %d", rawURL, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	d.logger.Info().Str("path", destPath).Int64("bytes", written).Msg("Download complete")
	return destPath, nil
}
