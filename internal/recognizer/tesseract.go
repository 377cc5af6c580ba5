//go:build ocr

package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"go-vastu-inspector/internal/analyzer"
	apperrors "go-vastu-inspector/internal/errors"
)

// Tesseract recognizes words with the local Tesseract engine.
// A fresh client is created per call, so one value is safe for concurrent use.
type Tesseract struct {
	language string
}

// NewTesseract creates a Tesseract recognizer for language (e.g. "eng")
func NewTesseract(language string) (*Tesseract, error) {
	if language == "" {
		language = DefaultLanguage
	}
	return &Tesseract{language: language}, nil
}

type tesseractResult struct {
	words []analyzer.RecognizedWord
	err   error
}

// Recognize runs word-level OCR on img. The engine itself cannot be
// interrupted; when ctx ends first the result is discarded.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]analyzer.RecognizedWord, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, apperrors.NewRecognitionError("failed to encode canvas for tesseract", err)
	}

	done := make(chan tesseractResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- tesseractResult{err: apperrors.NewRecognitionError("tesseract panicked", fmt.Errorf("%v", rec))}
			}
		}()
		words, err := t.recognizeBytes(buf.Bytes())
		done <- tesseractResult{words: words, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, apperrors.NewTimeoutError("text recognition did not finish in time", ctx.Err())
	case res := <-done:
		return res.words, res.err
	}
}

func (t *Tesseract) recognizeBytes(data []byte) ([]analyzer.RecognizedWord, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return nil, apperrors.NewRecognitionError("failed to set tesseract language", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return nil, apperrors.NewRecognitionError("failed to set page segmentation mode", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return nil, apperrors.NewRecognitionError("failed to load canvas into tesseract", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, apperrors.NewRecognitionError("tesseract word recognition failed", err)
	}

	words := make([]analyzer.RecognizedWord, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, analyzer.RecognizedWord{
			Text:       text,
			Confidence: float64(box.Confidence),
			Box: analyzer.Box{
				X0: float64(box.Box.Min.X),
				Y0: float64(box.Box.Min.Y),
				X1: float64(box.Box.Max.X),
				Y1: float64(box.Box.Max.Y),
			},
		})
	}
	return words, nil
}

// Close is a no-op; clients are released after every call
func (t *Tesseract) Close() error {
	return nil
}
