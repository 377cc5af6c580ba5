package analyzer

import (
	"context"
	"image"
)

// PlanAnalyzer defines the main interface for floor plan analysis
type PlanAnalyzer interface {
	// AnalyzeImage runs the full pipeline on an encoded image payload
	AnalyzeImage(ctx context.Context, data []byte) (*Result, error)

	// AnalyzeWords runs the pipeline from pre-computed OCR words
	AnalyzeWords(ctx context.Context, words []RecognizedWord, canvas Size) (*Result, error)

	// Options returns the pipeline constants in use
	Options() AnalysisOptions

	// Aliases and Rules expose the read-only tables
	Aliases() AliasTable
	Rules() RuleTable

	// Lifecycle management
	Close() error
}

// TextRecognizer is the OCR collaborator. Implementations return words in
// the pixel space of the image they were given.
type TextRecognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]RecognizedWord, error)
	Close() error
}

// ProgressFunc receives coarse progress updates (0-100) of a run
type ProgressFunc func(percent int, stage string)

type progressKey struct{}

// ContextWithProgress attaches a progress callback to the run carried by ctx
func ContextWithProgress(ctx context.Context, fn ProgressFunc) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

func reportProgress(ctx context.Context, percent int, stage string) {
	if fn, ok := ctx.Value(progressKey{}).(ProgressFunc); ok && fn != nil {
		fn(percent, stage)
	}
}
