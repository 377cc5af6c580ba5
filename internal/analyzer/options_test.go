package analyzer

import (
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.CanvasScale != 2.0 {
		t.Errorf("Expected CanvasScale to be 2.0, got %f", opts.CanvasScale)
	}
	if !opts.Binarize {
		t.Error("Expected Binarize to be true by default")
	}
	if opts.LuminanceThreshold != 115 {
		t.Errorf("Expected LuminanceThreshold to be 115, got %d", opts.LuminanceThreshold)
	}
	if opts.CropToPlan {
		t.Error("Expected CropToPlan to be false by default")
	}
	if opts.ConfidenceThreshold != 70 {
		t.Errorf("Expected ConfidenceThreshold to be 70, got %f", opts.ConfidenceThreshold)
	}
	if opts.LineTolerance != 20 {
		t.Errorf("Expected LineTolerance to be 20, got %f", opts.LineTolerance)
	}
	if opts.MergeRatio != 0.9 {
		t.Errorf("Expected MergeRatio to be 0.9, got %f", opts.MergeRatio)
	}
	if opts.MinPhraseLength != 3 {
		t.Errorf("Expected MinPhraseLength to be 3, got %d", opts.MinPhraseLength)
	}
	if opts.FuzzyAliasDistance != 1 {
		t.Errorf("Expected FuzzyAliasDistance to be 1, got %d", opts.FuzzyAliasDistance)
	}
}

func TestOptionsBuilders(t *testing.T) {
	base := DefaultOptions()
	opts := base.WithScale(3).WithoutBinarization().WithCropToPlan().WithStrictAliases()

	if opts.CanvasScale != 3 {
		t.Errorf("Expected CanvasScale to be 3, got %f", opts.CanvasScale)
	}
	if opts.Binarize {
		t.Error("Expected Binarize to be false")
	}
	if !opts.CropToPlan {
		t.Error("Expected CropToPlan to be true")
	}
	if opts.FuzzyAliasDistance != 0 {
		t.Errorf("Expected FuzzyAliasDistance to be 0, got %d", opts.FuzzyAliasDistance)
	}

	// Builders work on copies
	if base.CanvasScale != 2.0 || !base.Binarize || base.CropToPlan {
		t.Error("Expected base options to be unchanged")
	}
}

func TestOptionsWithGrouping(t *testing.T) {
	opts := DefaultOptions().WithGrouping(60, 15, 0.5)

	if opts.ConfidenceThreshold != 60 {
		t.Errorf("Expected ConfidenceThreshold to be 60, got %f", opts.ConfidenceThreshold)
	}
	if opts.LineTolerance != 15 {
		t.Errorf("Expected LineTolerance to be 15, got %f", opts.LineTolerance)
	}
	if opts.MergeRatio != 0.5 {
		t.Errorf("Expected MergeRatio to be 0.5, got %f", opts.MergeRatio)
	}
	if opts.MinPhraseLength != 3 {
		t.Errorf("Expected MinPhraseLength to stay 3, got %d", opts.MinPhraseLength)
	}
}
