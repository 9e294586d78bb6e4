package interfaces

import "context"

// DocumentSplitter produces self-contained single-page work files from a
// multi-page source document.
type DocumentSplitter interface {
	// Split reduces the document at path to the pages selected by pageSpec
	// (all pages when empty), optionally strips the embedded text layer from
	// each retained page, and writes one single-page file per retained page
	// into outputDir. Returned paths are in ascending original-page order;
	// that order becomes the WorkItem index.
	Split(ctx context.Context, path, pageSpec string, keepText bool, outputDir string) ([]string, error)
}

// Downloader fetches a remote source file to local disk before processing.
type Downloader interface {
	// Download fetches url into destDir and returns the local path.
	Download(ctx context.Context, url, destDir string) (string, error)
}
