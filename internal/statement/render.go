package statement

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lamdaser/statements/internal/view"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("statement: unsupported format")

// Format is an output encoding of a statement.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatHTML, FormatPDF, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// FilenameFor returns the document filename with the extension of f.
func (d Document) FilenameFor(f Format) string {
	return strings.TrimSuffix(d.Filename, ".pdf") + "." + string(f)
}

// PDFConverter turns an HTML page into a PDF.
type PDFConverter interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Exporter renders documents in every supported format.
type Exporter struct {
	templates *view.Engine
	pdf       PDFConverter
}

// NewExporter wires the template engine and the PDF converter. A nil
// converter makes PDF exports fail with ErrUnsupportedFormat.
func NewExporter(templates *view.Engine, pdf PDFConverter) *Exporter {
	return &Exporter{templates: templates, pdf: pdf}
}

const (
	screenTemplate = "pages/statement"
	printTemplate  = "pages/statement_print"
)

// Render writes doc to w in format f.
func (e *Exporter) Render(ctx context.Context, w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatHTML:
		return e.renderPage(w, screenTemplate, doc)
	case FormatPDF:
		return e.renderPDF(ctx, w, doc)
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

func (e *Exporter) renderPage(w io.Writer, name string, doc Document) error {
	return e.templates.Render(w, name, view.TemplateData{
		Title: doc.Header.Title + " - " + doc.Header.CustomerName,
		Data:  doc,
	})
}

func (e *Exporter) renderPDF(ctx context.Context, w io.Writer, doc Document) error {
	if e.pdf == nil {
		return fmt.Errorf("%w: pdf converter not configured", ErrUnsupportedFormat)
	}
	var page bytes.Buffer
	if err := e.renderPage(&page, printTemplate, doc); err != nil {
		return fmt.Errorf("render print page: %w", err)
	}
	pdf, err := e.pdf.RenderHTML(ctx, page.String())
	if err != nil {
		return fmt.Errorf("convert to pdf: %w", err)
	}
	_, err = w.Write(pdf)
	return err
}
