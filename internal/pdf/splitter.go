// -----------------------------------------------------------------------
// Document Splitter - page selection, text-layer strip, per-page emission
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
)

// Splitter implements the DocumentSplitter interface using pdfcpu
type Splitter struct {
	logger arbor.ILogger
	conf   *model.Configuration
}

// Compile-time interface assertion
var _ interfaces.DocumentSplitter = (*Splitter)(nil)

// NewSplitter creates a new document splitter
func NewSplitter(logger arbor.ILogger) *Splitter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &Splitter{
		logger: logger,
		conf:   conf,
	}
}

// Split reduces the document at path to the pages selected by pageSpec,
// optionally strips the embedded text layer, and emits one single-page PDF
// per retained page into outputDir.
//
// Returned paths are in ascending original-page order; the caller assigns
// WorkItem indices from that order. Output files are named
// {stem}_page_{1-based}{ext}, prefixed with "processed_" when the text layer
// was stripped, so the filename records which branch ran.
func (s *Splitter) Split(ctx context.Context, path, pageSpec string, keepText bool, outputDir string) ([]string, error) {
	s.logger.Info().Str("path", path).Msg("Processing PDF")

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page count of %s: %w", path, err)
	}

	selection, err := s.selectPages(pageSpec, pageCount)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	stem, ext := splitStemExt(filepath.Base(path))

	outputPaths := make([]string, 0, len(selection))
	for _, page := range selection {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageNum := page + 1
		name := fmt.Sprintf("%s_page_%d%s", stem, pageNum, ext)
		if !keepText {
			name = "processed_" + name
		}
		outPath := filepath.Join(outputDir, name)

		if err := api.TrimFile(path, outPath, []string{strconv.Itoa(pageNum)}, s.conf); err != nil {
			return nil, fmt.Errorf("failed to extract page %d from %s: %w", pageNum, path, err)
		}

		if !keepText {
			if err := s.stripTextLayer(outPath); err != nil {
				return nil, fmt.Errorf("failed to strip text layer from page %d: %w", pageNum, err)
			}
		}

		s.logger.Debug().Int("page", pageNum).Str("path", outPath).Msg("Saved page file")
		outputPaths = append(outputPaths, outPath)
	}

	s.logger.Info().Int("pages", len(outputPaths)).Bool("text_stripped", !keepText).Msg("Split PDF into page files")
	return outputPaths, nil
}

// selectPages resolves pageSpec against the document page count. An empty
// spec selects every page. A non-empty spec that leaves nothing after
// bounds filtering is a hard error, not an empty selection.
func (s *Splitter) selectPages(pageSpec string, pageCount int) ([]int, error) {
	if pageSpec == "" {
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	parsed, err := ParseRanges(pageSpec)
	if err != nil {
		return nil, err
	}

	selection := parsed[:0]
	for _, p := range parsed {
		if p >= 0 && p < pageCount {
			selection = append(selection, p)
		}
	}
	if len(selection) == 0 {
		return nil, fmt.Errorf("%w: %q against %d pages", ErrNoValidPages, pageSpec, pageCount)
	}

	oneBased := make([]string, len(selection))
	for i, p := range selection {
		oneBased[i] = strconv.Itoa(p + 1)
	}
	s.logger.Info().Int("count", len(selection)).Str("pages", strings.Join(oneBased, ", ")).Msg("Selected pages")

	return selection, nil
}

// stripTextLayer rewrites every page content stream of the single-page file
// at path with its BT..ET text objects removed. Images and vector graphics
// are untouched; a stream that cannot be decoded is left as-is rather than
// dropped.
func (s *Splitter) stripTextLayer(path string) error {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}

	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		pageDict, _, _, err := pdfCtx.PageDict(pageNr, false)
		if err != nil {
			return fmt.Errorf("failed to resolve page %d dict: %w", pageNr, err)
		}

		obj, found := pageDict.Find("Contents")
		if !found {
			continue
		}

		switch contents := obj.(type) {
		case types.IndirectRef:
			if err := s.stripContentStream(pdfCtx, contents); err != nil {
				return err
			}
		case types.Array:
			for _, el := range contents {
				ir, ok := el.(types.IndirectRef)
				if !ok {
					continue
				}
				if err := s.stripContentStream(pdfCtx, ir); err != nil {
					return err
				}
			}
		}
	}

	if err := api.WriteContextFile(pdfCtx, path); err != nil {
		return fmt.Errorf("failed to write stripped PDF: %w", err)
	}
	return nil
}

// stripContentStream decodes one content stream, removes its text objects,
// and re-encodes it in place in the cross-reference table.
func (s *Splitter) stripContentStream(pdfCtx *model.Context, ir types.IndirectRef) error {
	entry, found := pdfCtx.FindTableEntryForIndRef(&ir)
	if !found || entry.Object == nil {
		return nil
	}

	sd, ok := entry.Object.(types.StreamDict)
	if !ok {
		return nil
	}

	if err := sd.Decode(); err != nil {
		// Fail safe: an undecodable stream keeps its original bytes.
		s.logger.Warn().Err(err).Msg("Cannot decode content stream, leaving page content untouched")
		return nil
	}

	sd.Content = stripTextObjects(sd.Content)
	sd.Raw = nil
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("failed to re-encode content stream: %w", err)
	}

	entry.Object = sd
	return nil
}

// splitStemExt splits a file name into stem and extension.
func splitStemExt(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}
