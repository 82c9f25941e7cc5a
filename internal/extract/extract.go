package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	FormatUnknown = "unknown"
	FormatPDF     = "pdf"
	FormatDOCX    = "docx"
)

// pageBreak separates pages in PDF output, matching what most PDF-to-text tools emit.
const pageBreak = "\f"

var (
	ErrEmpty       = errors.New("empty document")
	ErrUnsupported = errors.New("unsupported document format")
)

// Text returns the plain text of a PDF or DOCX payload.
// It never fails: empty, corrupt or unsupported payloads yield "".
func Text(data []byte) string {
	text, err := Extract(data)
	if err != nil {
		return ""
	}
	return text
}

// Extract is Text with the failure reason kept, for callers that want to log it.
// Panics raised by the underlying parsers are converted into errors.
func Extract(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("extract: parser panic: %v", rec)
		}
	}()

	switch DetectFormat(data) {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		if len(data) == 0 {
			return "", ErrEmpty
		}
		return "", ErrUnsupported
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// DetectFormat sniffs the payload; the declared file name or mime type is never trusted.
// A "%PDF-" marker anywhere in the first 1024 bytes marks a PDF.
func DetectFormat(data []byte) string {
	if len(data) == 0 {
		return FormatUnknown
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, []byte("%PDF-")) {
		return FormatPDF
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) && zipHasDocument(data) {
		return FormatDOCX
	}
	return FormatUnknown
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString(pageBreak)
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// The library insists on relationship parts that minimal writers omit.
		raw, rawErr := readDocumentXML(data)
		if rawErr != nil {
			return "", fmt.Errorf("docx open: %w", err)
		}
		return stripDocxXML(raw), nil
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

func zipHasDocument(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	return findDocument(zr) != nil
}

func findDocument(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return f
		}
	}
	return nil
}

func readDocumentXML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	docFile := findDocument(zr)
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}
	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ""
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
