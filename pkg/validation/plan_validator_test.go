package validation

import (
	"testing"

	"go-vastu-inspector/internal/analyzer"
)

func TestNewPlanValidator(t *testing.T) {
	validator := NewPlanValidator()
	if validator.thresholds.MinWidth != DefaultPlanThresholds().MinWidth {
		t.Errorf("Expected default MinWidth, got %d", validator.thresholds.MinWidth)
	}

	custom := NewPlanValidatorWithThresholds(PlanThresholds{MinWidth: 10, MinHeight: 10})
	if custom.thresholds.MinWidth != 10 {
		t.Errorf("Expected custom MinWidth to be 10, got %d", custom.thresholds.MinWidth)
	}
}

func TestValidateDimensions(t *testing.T) {
	validator := NewPlanValidator()

	tests := []struct {
		name         string
		width        int
		height       int
		wantTypes    []string
		wantCritical bool
	}{
		{"good plan", 1200, 900, nil, false},
		{"small plan", 200, 900, []string{"low_resolution"}, false},
		{"huge plan", 10000, 9000, []string{"too_large"}, true},
		{"empty", 0, 10, []string{"empty_image"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validator.ValidateDimensions(tt.width, tt.height)
			if len(issues) != len(tt.wantTypes) {
				t.Fatalf("Expected %d issues, got %v", len(tt.wantTypes), issues)
			}
			for i, issue := range issues {
				if issue.Type != tt.wantTypes[i] {
					t.Errorf("Expected issue %s, got %s", tt.wantTypes[i], issue.Type)
				}
			}
			if got := validator.HasCriticalIssues(issues); got != tt.wantCritical {
				t.Errorf("HasCriticalIssues() = %v, want %v", got, tt.wantCritical)
			}
		})
	}
}

func TestValidateWords(t *testing.T) {
	validator := NewPlanValidator()
	canvas := analyzer.Size{Width: 200, Height: 200}
	good := analyzer.RecognizedWord{Text: "Kitchen", Confidence: 90, Box: analyzer.Box{X0: 10, Y0: 10, X1: 60, Y1: 30}}

	tests := []struct {
		name         string
		words        []analyzer.RecognizedWord
		canvas       analyzer.Size
		wantTypes    []string
		wantCritical bool
	}{
		{"valid", []analyzer.RecognizedWord{good}, canvas, nil, false},
		{"no words", nil, canvas, nil, false},
		{"bad canvas", []analyzer.RecognizedWord{good}, analyzer.Size{}, []string{"invalid_canvas"}, true},
		{
			"confidence out of range",
			[]analyzer.RecognizedWord{{Text: "x", Confidence: 120, Box: good.Box}},
			canvas, []string{"invalid_confidence"}, true,
		},
		{
			"inverted box",
			[]analyzer.RecognizedWord{{Text: "x", Confidence: 90, Box: analyzer.Box{X0: 50, Y0: 10, X1: 10, Y1: 30}}},
			canvas, []string{"invalid_box"}, true,
		},
		{
			"outside canvas",
			[]analyzer.RecognizedWord{{Text: "x", Confidence: 90, Box: analyzer.Box{X0: 190, Y0: 10, X1: 260, Y1: 30}}},
			canvas, []string{"outside_canvas"}, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validator.ValidateWords(tt.words, tt.canvas)
			if len(issues) != len(tt.wantTypes) {
				t.Fatalf("Expected %d issues, got %v", len(tt.wantTypes), issues)
			}
			for i, issue := range issues {
				if issue.Type != tt.wantTypes[i] {
					t.Errorf("Expected issue %s, got %s", tt.wantTypes[i], issue.Type)
				}
			}
			if got := validator.HasCriticalIssues(issues); got != tt.wantCritical {
				t.Errorf("HasCriticalIssues() = %v, want %v", got, tt.wantCritical)
			}
		})
	}
}

func TestValidateWords_TooMany(t *testing.T) {
	validator := NewPlanValidatorWithThresholds(PlanThresholds{MaxWords: 1})
	words := make([]analyzer.RecognizedWord, 2)
	for i := range words {
		words[i] = analyzer.RecognizedWord{Text: "a", Confidence: 90, Box: analyzer.Box{X1: 1, Y1: 1}}
	}

	issues := validator.ValidateWords(words, analyzer.Size{Width: 10, Height: 10})
	if !validator.HasCriticalIssues(issues) {
		t.Fatalf("Expected critical issue, got %v", issues)
	}
	if summary := validator.CriticalSummary(issues); summary != "2 words exceed the limit of 1" {
		t.Errorf("Unexpected summary %q", summary)
	}
}

func TestValidateLegibility(t *testing.T) {
	validator := NewPlanValidator()

	tests := []struct {
		name       string
		legibility analyzer.Legibility
		wantTypes  []string
	}{
		{"crisp plan", analyzer.Legibility{Sharpness: 2500, Brightness: 230, InkRatio: 0.08}, nil},
		{"blank page", analyzer.Legibility{Sharpness: 0, Brightness: 255, InkRatio: 0}, []string{"blank_plan"}},
		{"blurry scan", analyzer.Legibility{Sharpness: 40, Brightness: 210, InkRatio: 0.1}, []string{"blurry"}},
		{"dark photo", analyzer.Legibility{Sharpness: 800, Brightness: 50, InkRatio: 0.7}, []string{"too_dark"}},
		{"dark and blurry", analyzer.Legibility{Sharpness: 10, Brightness: 50, InkRatio: 0.7}, []string{"blurry", "too_dark"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validator.ValidateLegibility(tt.legibility)
			if len(issues) != len(tt.wantTypes) {
				t.Fatalf("Expected %d issues, got %d: %+v", len(tt.wantTypes), len(issues), issues)
			}
			for i, issue := range issues {
				if issue.Type != tt.wantTypes[i] {
					t.Errorf("Issue %d: expected type %s, got %s", i, tt.wantTypes[i], issue.Type)
				}
				if issue.Severity != "warning" {
					t.Errorf("Issue %d: expected warning severity, got %s", i, issue.Severity)
				}
			}
			if validator.HasCriticalIssues(issues) {
				t.Error("Legibility issues must never be critical")
			}
		})
	}
}

func TestConvertIssuesToMessages(t *testing.T) {
	validator := NewPlanValidator()
	messages := validator.ConvertIssuesToMessages([]PlanIssue{{Message: "a"}, {Message: "b"}})
	if len(messages) != 2 || messages[0] != "a" || messages[1] != "b" {
		t.Errorf("Unexpected messages %v", messages)
	}
}
