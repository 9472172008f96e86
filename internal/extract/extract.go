// Package extract converts uploaded documents into plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/amishk599/firstround/internal/model"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

var errEmptyDocument = errors.New("document is empty")

// Ensure Extractor implements model.TextExtractor.
var _ model.TextExtractor = (*Extractor)(nil)

// Extractor sniffs a document's format from its bytes and extracts its text.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the plain text of doc. Any failure is reported as a
// *model.ExtractionError naming the document.
func (e *Extractor) ExtractText(ctx context.Context, doc model.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch {
	case len(doc.Data) == 0:
		err = errEmptyDocument
	case bytes.HasPrefix(doc.Data, pdfMagic):
		text, err = PDF(doc.Data)
	case bytes.HasPrefix(doc.Data, zipMagic) && strings.EqualFold(filepath.Ext(doc.Name), ".docx"):
		text, err = DOCX(doc.Data)
	default:
		err = fmt.Errorf("unsupported document format")
	}
	if err != nil {
		var extractErr *model.ExtractionError
		if errors.As(err, &extractErr) {
			extractErr.Document = doc.Name
			return "", extractErr
		}
		return "", &model.ExtractionError{Document: doc.Name, Err: err}
	}
	return text, nil
}

// PDF returns the plain-text layer of every page, concatenated in page order.
func PDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", &model.ExtractionError{Err: errEmptyDocument}
	}

	// The pdf package panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &model.ExtractionError{Err: fmt.Errorf("malformed pdf: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &model.ExtractionError{Err: fmt.Errorf("open pdf: %w", err)}
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &model.ExtractionError{Err: fmt.Errorf("read page %d: %w", i, err)}
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

// DOCX returns the text content of a Word document.
func DOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &model.ExtractionError{Err: errEmptyDocument}
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &model.ExtractionError{Err: fmt.Errorf("open docx: %w", err)}
	}
	defer doc.Close()

	return stripTags(doc.Editable().GetContent()), nil
}
