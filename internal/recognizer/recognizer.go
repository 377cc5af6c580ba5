// Package recognizer provides the text recognizers the analyzer can run
// on a working canvas: the local Tesseract engine, a remote OCR endpoint
// and a fixed word list.
package recognizer

import (
	"context"
	"image"

	"go-vastu-inspector/internal/analyzer"
)

// DefaultLanguage is the Tesseract language used when none is configured
const DefaultLanguage = "eng"

// Static returns the same words for every image. It backs runs that start
// from pre-computed OCR output.
type Static struct {
	words []analyzer.RecognizedWord
}

// NewStatic creates a recognizer that always returns a copy of words
func NewStatic(words []analyzer.RecognizedWord) *Static {
	return &Static{words: append([]analyzer.RecognizedWord(nil), words...)}
}

func (s *Static) Recognize(ctx context.Context, _ image.Image) ([]analyzer.RecognizedWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]analyzer.RecognizedWord(nil), s.words...), nil
}

func (s *Static) Close() error {
	return nil
}

var (
	_ analyzer.TextRecognizer = (*Static)(nil)
	_ analyzer.TextRecognizer = (*Tesseract)(nil)
	_ analyzer.TextRecognizer = (*Remote)(nil)
)
