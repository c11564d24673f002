package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrMalformedPDF marks input that could not be parsed as a PDF document.
var ErrMalformedPDF = errors.New("malformed pdf")

// Extractor converts raw PDF bytes into plain text and a page count. It is
// stateless; the zero value is ready to use.
type Extractor struct{}

// Extract returns the document's plain text, concatenated across pages.
// Pages that fail individually are skipped. When maxChars > 0 the result is
// hard-truncated to exactly that many characters; the cut is intentional
// storage-size control, not word-boundary aware.
func (Extractor) Extract(data []byte, maxChars int) (text string, err error) {
	defer recoverMalformed(&err)

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPDF, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return Truncate(sb.String(), maxChars), nil
}

// PageCount returns the number of pages in the document.
func (Extractor) PageCount(data []byte) (n int, err error) {
	defer recoverMalformed(&err)

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPDF, err)
	}
	return r.NumPage(), nil
}

// Truncate cuts text to at most maxChars characters. maxChars <= 0 disables
// truncation.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}

// The pdf package panics on some malformed inputs rather than returning an
// error; callers must only ever see ErrMalformedPDF.
func recoverMalformed(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrMalformedPDF, r)
	}
}
