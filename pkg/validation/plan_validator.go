package validation

import (
	"fmt"
	"math"
	"strings"

	"go-vastu-inspector/internal/analyzer"
)

// PlanThresholds defines configurable limits for plan inputs
type PlanThresholds struct {
	// Resolution thresholds of the source image
	MinWidth  int
	MinHeight int
	MaxPixels int

	// Legibility of the source image
	MinSharpness  float64
	MinBrightness float64
	MinInkRatio   float64

	// Pre-computed word lists
	MaxWords int
}

// DefaultPlanThresholds returns the default plan thresholds
func DefaultPlanThresholds() PlanThresholds {
	return PlanThresholds{
		MinWidth:  300, // room labels become unreadable below this
		MinHeight: 300,
		MaxPixels: 40_000_000,

		MinSharpness:  100.0,
		MinBrightness: 80.0,
		MinInkRatio:   0.002,

		MaxWords: 5000,
	}
}

// PlanValidator checks plan images and word lists before analysis
type PlanValidator struct {
	thresholds PlanThresholds
}

// NewPlanValidator creates a new plan validator with default thresholds
func NewPlanValidator() *PlanValidator {
	return &PlanValidator{thresholds: DefaultPlanThresholds()}
}

// NewPlanValidatorWithThresholds creates a plan validator with custom thresholds
func NewPlanValidatorWithThresholds(thresholds PlanThresholds) *PlanValidator {
	return &PlanValidator{thresholds: thresholds}
}

// PlanIssue represents a plan validation issue
type PlanIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"` // "error", "warning"
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// ValidateDimensions checks the size of a decoded source image
func (pv *PlanValidator) ValidateDimensions(width, height int) []PlanIssue {
	var issues []PlanIssue

	if width <= 0 || height <= 0 {
		return append(issues, PlanIssue{
			Type:     "empty_image",
			Message:  fmt.Sprintf("image has no pixels (%dx%d)", width, height),
			Severity: "error",
		})
	}

	if width < pv.thresholds.MinWidth || height < pv.thresholds.MinHeight {
		issues = append(issues, PlanIssue{
			Type:        "low_resolution",
			Message:     fmt.Sprintf("plan is %dx%d, labels may not be readable below %dx%d", width, height, pv.thresholds.MinWidth, pv.thresholds.MinHeight),
			Severity:    "warning",
			ActualValue: float64(minInt(width, height)),
			Threshold:   float64(minInt(pv.thresholds.MinWidth, pv.thresholds.MinHeight)),
		})
	}

	if pv.thresholds.MaxPixels > 0 && width*height > pv.thresholds.MaxPixels {
		issues = append(issues, PlanIssue{
			Type:        "too_large",
			Message:     fmt.Sprintf("plan has %d pixels, the limit is %d", width*height, pv.thresholds.MaxPixels),
			Severity:    "error",
			ActualValue: float64(width * height),
			Threshold:   float64(pv.thresholds.MaxPixels),
		})
	}

	return issues
}

// ValidateWords checks a pre-computed word list against its canvas
func (pv *PlanValidator) ValidateWords(words []analyzer.RecognizedWord, canvas analyzer.Size) []PlanIssue {
	var issues []PlanIssue

	if canvas.Width <= 0 || canvas.Height <= 0 {
		issues = append(issues, PlanIssue{
			Type:     "invalid_canvas",
			Message:  fmt.Sprintf("canvas size must be positive, got %dx%d", canvas.Width, canvas.Height),
			Severity: "error",
		})
	}

	if pv.thresholds.MaxWords > 0 && len(words) > pv.thresholds.MaxWords {
		issues = append(issues, PlanIssue{
			Type:        "too_many_words",
			Message:     fmt.Sprintf("%d words exceed the limit of %d", len(words), pv.thresholds.MaxWords),
			Severity:    "error",
			ActualValue: float64(len(words)),
			Threshold:   float64(pv.thresholds.MaxWords),
		})
	}

	outside := 0
	for i, w := range words {
		if math.IsNaN(w.Confidence) || w.Confidence < 0 || w.Confidence > 100 {
			issues = append(issues, PlanIssue{
				Type:        "invalid_confidence",
				Message:     fmt.Sprintf("words[%d] confidence must be within 0-100", i),
				Severity:    "error",
				ActualValue: w.Confidence,
				Threshold:   100,
			})
		}
		if w.Box.X1 < w.Box.X0 || w.Box.Y1 < w.Box.Y0 {
			issues = append(issues, PlanIssue{
				Type:     "invalid_box",
				Message:  fmt.Sprintf("words[%d] box is inverted", i),
				Severity: "error",
			})
		}
		if canvas.Width > 0 && canvas.Height > 0 && !insideCanvas(w.Box, canvas) {
			outside++
		}
	}

	if outside > 0 {
		issues = append(issues, PlanIssue{
			Type:        "outside_canvas",
			Message:     fmt.Sprintf("%d words lie partly outside the canvas", outside),
			Severity:    "warning",
			ActualValue: float64(outside),
		})
	}

	return issues
}

// ValidateLegibility flags plans the text recognizer is likely to misread.
// All legibility issues are warnings.
func (pv *PlanValidator) ValidateLegibility(l analyzer.Legibility) []PlanIssue {
	var issues []PlanIssue

	if l.InkRatio < pv.thresholds.MinInkRatio {
		issues = append(issues, PlanIssue{
			Type:        "blank_plan",
			Message:     "Plan appears to be blank",
			Severity:    "warning",
			ActualValue: l.InkRatio,
			Threshold:   pv.thresholds.MinInkRatio,
		})
		// Sharpness is meaningless without ink
		return issues
	}

	if l.Sharpness < pv.thresholds.MinSharpness {
		issues = append(issues, PlanIssue{
			Type:        "blurry",
			Message:     fmt.Sprintf("Plan is blurry (sharpness %.1f, minimum %.1f); room labels may be missed", l.Sharpness, pv.thresholds.MinSharpness),
			Severity:    "warning",
			ActualValue: l.Sharpness,
			Threshold:   pv.thresholds.MinSharpness,
		})
	}
	if l.Brightness < pv.thresholds.MinBrightness {
		issues = append(issues, PlanIssue{
			Type:        "too_dark",
			Message:     fmt.Sprintf("Plan is too dark (brightness %.1f, minimum %.1f)", l.Brightness, pv.thresholds.MinBrightness),
			Severity:    "warning",
			ActualValue: l.Brightness,
			Threshold:   pv.thresholds.MinBrightness,
		})
	}

	return issues
}

// ConvertIssuesToMessages converts plan issues to simple messages
func (pv *PlanValidator) ConvertIssuesToMessages(issues []PlanIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasCriticalIssues checks if there are any critical (error severity) issues
func (pv *PlanValidator) HasCriticalIssues(issues []PlanIssue) bool {
	for _, issue := range issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}

// CriticalSummary joins the messages of all error severity issues
func (pv *PlanValidator) CriticalSummary(issues []PlanIssue) string {
	var messages []string
	for _, issue := range issues {
		if issue.Severity == "error" {
			messages = append(messages, issue.Message)
		}
	}
	return strings.Join(messages, "; ")
}

func insideCanvas(b analyzer.Box, canvas analyzer.Size) bool {
	return b.X0 >= 0 && b.Y0 >= 0 && b.X1 <= float64(canvas.Width) && b.Y1 <= float64(canvas.Height)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
