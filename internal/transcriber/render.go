package transcriber

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// renderTranscriptPDF renders the markdown transcript to a PDF alongside the
// transcript file. Transcripts are mostly headings, paragraphs and the
// occasional code block, so the renderer covers those and passes everything
// else through as plain text.
func renderTranscriptPDF(markdown, outPath string, logger arbor.ILogger) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)

	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	r := &transcriptRenderer{pdf: pdf, source: source}
	if err := ast.Walk(doc, r.walk); err != nil {
		return fmt.Errorf("failed to render transcript: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to generate PDF output: %w", err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	logger.Info().Str("path", outPath).Int("bytes", buf.Len()).Msg("Rendered transcript PDF")
	return nil
}

type transcriptRenderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	bold   bool
	italic bool
}

func (r *transcriptRenderer) style() string {
	s := ""
	if r.bold {
		s += "B"
	}
	if r.italic {
		s += "I"
	}
	return s
}

func (r *transcriptRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.pdf.Ln(5)
			size := 14.0 - float64(node.Level)
			if size < 10 {
				size = 10
			}
			r.pdf.SetFont("Arial", "B", size)
		} else {
			r.pdf.Ln(5)
			r.pdf.SetFont("Arial", r.style(), 10)
		}

	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(6)
		}

	case *ast.Text:
		if entering {
			r.pdf.Write(5, string(node.Text(r.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.pdf.Write(5, " ")
			}
		}

	case *ast.Emphasis:
		if node.Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.pdf.SetFont("Arial", r.style(), 10)

	case *ast.FencedCodeBlock:
		if entering {
			r.writeCodeLines(node.Lines())
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			r.writeCodeLines(node.Lines())
			return ast.WalkSkipChildren, nil
		}

	case *ast.ListItem:
		if entering {
			r.pdf.Write(5, "- ")
		} else {
			r.pdf.Ln(5)
		}

	case *ast.ThematicBreak:
		if entering {
			r.pdf.Ln(3)
			r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
			r.pdf.Ln(3)
		}
	}

	return ast.WalkContinue, nil
}

func (r *transcriptRenderer) writeCodeLines(lines *text.Segments) {
	r.pdf.Ln(2)
	r.pdf.SetFont("Courier", "", 9)
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.pdf.MultiCell(0, 4.5, string(seg.Value(r.source)), "", "L", false)
	}
	r.pdf.SetFont("Arial", r.style(), 10)
	r.pdf.Ln(2)
}
