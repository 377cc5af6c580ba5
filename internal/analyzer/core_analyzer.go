package analyzer

import (
	"context"
	"fmt"

	apperrors "go-vastu-inspector/internal/errors"
)

// coreAnalyzer implements PlanAnalyzer and orchestrates all pipeline stages
type coreAnalyzer struct {
	options    AnalysisOptions
	recognizer TextRecognizer
	grouper    *PhraseGrouper
	matcher    *AliasMatcher
	evaluator  *RuleEvaluator
}

// Option customizes a PlanAnalyzer
type Option func(*coreAnalyzer)

// WithTables replaces the built-in alias and rule tables
func WithTables(aliases AliasTable, rules RuleTable) Option {
	return func(ca *coreAnalyzer) {
		ca.matcher = NewAliasMatcher(aliases, ca.options.FuzzyAliasDistance)
		ca.evaluator = NewRuleEvaluator(rules)
	}
}

// NewPlanAnalyzer creates a new analyzer. recognizer may be nil when only
// AnalyzeWords is used.
func NewPlanAnalyzer(recognizer TextRecognizer, options AnalysisOptions, opts ...Option) (PlanAnalyzer, error) {
	ca := &coreAnalyzer{
		options:    options,
		recognizer: recognizer,
		grouper:    NewPhraseGrouper(options),
		matcher:    NewAliasMatcher(DefaultAliases(), options.FuzzyAliasDistance),
		evaluator:  NewRuleEvaluator(DefaultRules()),
	}
	for _, opt := range opts {
		opt(ca)
	}
	if err := ValidateTables(ca.matcher.table, ca.evaluator.rules); err != nil {
		return nil, fmt.Errorf("invalid vastu tables: %w", err)
	}
	return ca, nil
}

// Options returns the pipeline constants in use
func (ca *coreAnalyzer) Options() AnalysisOptions {
	return ca.options
}

// Aliases returns the alias table used for matching
func (ca *coreAnalyzer) Aliases() AliasTable {
	return ca.matcher.table
}

// Rules returns the rule table used for scoring
func (ca *coreAnalyzer) Rules() RuleTable {
	return ca.evaluator.rules
}

// AnalyzeImage decodes data, builds the working canvas, recognizes words
// on it and evaluates the result. Recognition is the only step that waits
// on ctx.
func (ca *coreAnalyzer) AnalyzeImage(ctx context.Context, data []byte) (*Result, error) {
	reportProgress(ctx, 10, "ingesting")
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}
	canvas, err := Ingest(img, ca.options)
	if err != nil {
		return nil, err
	}

	if ca.recognizer == nil {
		return nil, apperrors.NewRecognitionError("no text recognizer configured", nil)
	}
	reportProgress(ctx, 30, "recognizing")
	words, err := ca.recognizer.Recognize(ctx, canvas.Image)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeRecognition) {
			return nil, err
		}
		return nil, apperrors.NewRecognitionError("text recognition failed", err)
	}

	result, err := ca.evaluateWords(ctx, words, canvas.Size)
	if err != nil {
		return nil, err
	}
	result.Image = canvas.Image
	result.Legibility = &canvas.Legibility
	return result, nil
}

// AnalyzeWords runs grouping, matching, direction and evaluation on
// pre-computed words expressed in canvas pixel space.
func (ca *coreAnalyzer) AnalyzeWords(ctx context.Context, words []RecognizedWord, canvas Size) (*Result, error) {
	return ca.evaluateWords(ctx, words, canvas)
}

func (ca *coreAnalyzer) evaluateWords(ctx context.Context, words []RecognizedWord, canvas Size) (*Result, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return nil, apperrors.NewGeometryError(
			fmt.Sprintf("canvas %dx%d has no center", canvas.Width, canvas.Height), nil)
	}

	reportProgress(ctx, 80, "evaluating")
	phrases := ca.grouper.Group(words)
	labels := ca.matcher.LabelPhrases(phrases)
	features, err := BuildFeatures(labels, phrases, canvas)
	if err != nil {
		return nil, err
	}
	evaluation := ca.evaluator.Evaluate(features)
	reportProgress(ctx, 100, "complete")

	return &Result{
		Canvas:     canvas,
		Words:      len(words),
		Phrases:    phrases,
		Labels:     labels,
		Features:   features,
		Evaluation: evaluation,
	}, nil
}

// Close releases the recognizer
func (ca *coreAnalyzer) Close() error {
	if ca.recognizer != nil {
		return ca.recognizer.Close()
	}
	return nil
}
