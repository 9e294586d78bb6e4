package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

// writeFixturePDF generates a PDF with the given page count, each page
// carrying a text line and a drawn rectangle.
func writeFixturePDF(t *testing.T, dir string, pages int) string {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, fmt.Sprintf("Page %d", i))
		doc.Rect(10, 30, 50, 20, "F")
	}

	path := filepath.Join(dir, "fixture.pdf")
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

func TestSplitAllPages(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 3)
	splitter := NewSplitter(arbor.NewLogger())

	paths, err := splitter.Split(context.Background(), src, "", true, dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for i, p := range paths {
		assert.Equal(t, fmt.Sprintf("fixture_page_%d.pdf", i+1), filepath.Base(p))

		count, err := api.PageCountFile(p)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}
}

func TestSplitPageSelection(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 5)
	splitter := NewSplitter(arbor.NewLogger())

	// Selection "4,2" retains pages 2 and 4 in ascending original order.
	paths, err := splitter.Split(context.Background(), src, "4,2", true, dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, "fixture_page_2.pdf", filepath.Base(paths[0]))
	assert.Equal(t, "fixture_page_4.pdf", filepath.Base(paths[1]))
}

func TestSplitOutOfBoundsPagesFiltered(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 3)
	splitter := NewSplitter(arbor.NewLogger())

	// Page 9 is filtered out; pages 1-2 remain.
	paths, err := splitter.Split(context.Background(), src, "1-2,9", true, dir)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestSplitNoValidPages(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 3)
	splitter := NewSplitter(arbor.NewLogger())

	_, err := splitter.Split(context.Background(), src, "13", true, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoValidPages))
}

func TestSplitMalformedSpec(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 3)
	splitter := NewSplitter(arbor.NewLogger())

	_, err := splitter.Split(context.Background(), src, "1-x", true, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRange))
}

// pageContentStream decodes and concatenates the content streams of the
// first page of the PDF at path.
func pageContentStream(t *testing.T, path string) string {
	t.Helper()

	pdfCtx, err := api.ReadContextFile(path)
	require.NoError(t, err)

	pageDict, _, _, err := pdfCtx.PageDict(1, false)
	require.NoError(t, err)

	obj, found := pageDict.Find("Contents")
	require.True(t, found)

	var refs []types.IndirectRef
	switch contents := obj.(type) {
	case types.IndirectRef:
		refs = append(refs, contents)
	case types.Array:
		for _, el := range contents {
			if ir, ok := el.(types.IndirectRef); ok {
				refs = append(refs, ir)
			}
		}
	}

	var content []byte
	for i := range refs {
		entry, found := pdfCtx.FindTableEntryForIndRef(&refs[i])
		require.True(t, found)
		sd, ok := entry.Object.(types.StreamDict)
		require.True(t, ok)
		require.NoError(t, sd.Decode())
		content = append(content, sd.Content...)
	}
	return string(content)
}

func TestSplitStripsTextLayer(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 2)
	splitter := NewSplitter(arbor.NewLogger())

	paths, err := splitter.Split(context.Background(), src, "", false, dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for i, p := range paths {
		// Stripped branch is recorded in the filename.
		assert.Equal(t, fmt.Sprintf("processed_fixture_page_%d.pdf", i+1), filepath.Base(p))

		// Output stays a readable single-page PDF.
		count, err := api.PageCountFile(p)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())

		// The text layer is gone from the page content while the drawn
		// rectangle survives.
		content := pageContentStream(t, p)
		assert.NotContains(t, content, "BT")
		assert.NotContains(t, content, "Tj")
		assert.Contains(t, content, "re")
	}
}

func TestSplitKeepTextRetainsTextLayer(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 1)
	splitter := NewSplitter(arbor.NewLogger())

	paths, err := splitter.Split(context.Background(), src, "", true, dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	content := pageContentStream(t, paths[0])
	assert.Contains(t, content, "BT")
	assert.Contains(t, content, "re")
}

func TestSplitCancelled(t *testing.T) {
	dir := t.TempDir()
	src := writeFixturePDF(t, dir, 3)
	splitter := NewSplitter(arbor.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := splitter.Split(ctx, src, "", true, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
