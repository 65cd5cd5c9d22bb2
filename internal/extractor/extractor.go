// Package extractor turns stored document bytes into raw text. Binary
// formats are handled by an external extraction capability; the service
// only depends on this interface.
package extractor

import (
	"fmt"
	"io"
)

// Extractor extracts the raw text of a document from its byte stream.
type Extractor interface {
	ExtractText(r io.Reader) (string, error)
}

// PlainText reads the document bytes verbatim as UTF-8 text.
type PlainText struct{}

func (PlainText) ExtractText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading document bytes: %w", err)
	}
	return string(data), nil
}
