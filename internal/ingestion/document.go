package ingestion

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Kind is a supported document format.
type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

// MIME types accepted for uploads.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ExtractionError reports a document that could not be turned into text.
type ExtractionError struct {
	Source string
	Kind   Kind
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract %s text from %s: %v", e.Kind, e.Source, e.Cause)
	}
	return fmt.Sprintf("failed to extract %s text from %s", e.Kind, e.Source)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// DetectKind picks the document kind from a MIME type, falling back to the file extension.
// Unknown inputs are treated as plain text.
func DetectKind(name, mimeType string) Kind {
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch mimeType {
	case MIMEPDF:
		return KindPDF
	case MIMEDOCX:
		return KindDOCX
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	default:
		return KindText
	}
}

// ReadFile extracts and cleans the text of a resume file on disk.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ExtractText(data, DetectKind(path, ""), path)
}

// ExtractText converts document bytes of the given kind into cleaned plain text.
// source names the document in errors.
func ExtractText(data []byte, kind Kind, source string) (string, error) {
	var (
		text string
		err  error
	)
	switch kind {
	case KindPDF:
		text, err = pdfText(bytes.NewReader(data), int64(len(data)))
	case KindDOCX:
		text, err = docxText(bytes.NewReader(data), int64(len(data)))
	default:
		if !utf8.Valid(data) {
			err = fmt.Errorf("not valid UTF-8 text")
		}
		text = string(data)
	}
	if err != nil {
		return "", &ExtractionError{Source: source, Kind: kind, Cause: err}
	}
	return CleanText(text), nil
}

func pdfText(r io.ReaderAt, size int64) (text string, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func docxText(r io.ReaderAt, size int64) (string, error) {
	doc, err := docx.ReadDocxFromMemory(r, size)
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return docxXMLText(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>`)
	tabElement   = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// docxXMLText flattens WordprocessingML into text with one line per paragraph.
func docxXMLText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = tabElement.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
