package library

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned for files that cannot be read as PDF documents.
var ErrNotPDF = errors.New("not a readable PDF document")

// PageCount returns the number of pages of a PDF document.
func PageCount(data []byte) (n int, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotPDF, err)
	}
	return r.NumPage(), nil
}
