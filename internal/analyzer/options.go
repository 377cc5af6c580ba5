package analyzer

// AnalysisOptions holds the pipeline constants of one analysis run
type AnalysisOptions struct {
	// Ingestion
	CanvasScale        float64
	Binarize           bool
	LuminanceThreshold uint8
	CropToPlan         bool

	// Phrase grouping
	ConfidenceThreshold float64
	LineTolerance       float64
	MergeRatio          float64
	MinPhraseLength     int

	// Alias matching; 0 disables the fuzzy pass
	FuzzyAliasDistance int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		CanvasScale:         2.0,
		Binarize:            true,
		LuminanceThreshold:  115,
		CropToPlan:          false,
		ConfidenceThreshold: 70,
		LineTolerance:       20,
		MergeRatio:          0.9,
		MinPhraseLength:     3,
		FuzzyAliasDistance:  1,
	}
}

// WithScale returns options with a different canvas upscale factor
func (opts AnalysisOptions) WithScale(scale float64) AnalysisOptions {
	opts.CanvasScale = scale
	return opts
}

// WithoutBinarization disables the luminance threshold step
func (opts AnalysisOptions) WithoutBinarization() AnalysisOptions {
	opts.Binarize = false
	return opts
}

// WithCropToPlan enables cropping to the drawn plan before scaling
func (opts AnalysisOptions) WithCropToPlan() AnalysisOptions {
	opts.CropToPlan = true
	return opts
}

// WithGrouping allows setting custom phrase grouping constants
func (opts AnalysisOptions) WithGrouping(confidence, lineTolerance, mergeRatio float64) AnalysisOptions {
	opts.ConfidenceThreshold = confidence
	opts.LineTolerance = lineTolerance
	opts.MergeRatio = mergeRatio
	return opts
}

// WithStrictAliases disables the fuzzy alias pass
func (opts AnalysisOptions) WithStrictAliases() AnalysisOptions {
	opts.FuzzyAliasDistance = 0
	return opts
}
