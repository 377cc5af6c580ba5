//go:build !ocr

package recognizer

import (
	"context"
	"image"

	"go-vastu-inspector/internal/analyzer"
	apperrors "go-vastu-inspector/internal/errors"
)

// Tesseract is unavailable in binaries built without the ocr tag.
// Rebuild with `-tags ocr` and libtesseract installed to enable it.
type Tesseract struct {
	language string
}

// NewTesseract returns a recognizer that always fails with a recognition error
func NewTesseract(language string) (*Tesseract, error) {
	if language == "" {
		language = DefaultLanguage
	}
	return &Tesseract{language: language}, nil
}

func (t *Tesseract) Recognize(_ context.Context, _ image.Image) ([]analyzer.RecognizedWord, error) {
	return nil, apperrors.NewRecognitionError("tesseract support not compiled in (build with -tags ocr)", nil)
}

func (t *Tesseract) Close() error {
	return nil
}
