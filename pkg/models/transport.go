package models

import "go-vastu-inspector/internal/analyzer"

// URLAnalysisRequest asks for the analysis of a plan behind a URL
type URLAnalysisRequest struct {
	URL            string   `json:"url" binding:"required"`
	ExpectedLabels []string `json:"expected_labels,omitempty"`
}

// WordsAnalysisRequest carries pre-computed OCR words in canvas pixel space
type WordsAnalysisRequest struct {
	CanvasWidth    int                       `json:"canvas_width" binding:"required"`
	CanvasHeight   int                       `json:"canvas_height" binding:"required"`
	Words          []analyzer.RecognizedWord `json:"words"`
	ExpectedLabels []string                  `json:"expected_labels,omitempty"`
}

// BatchAnalysisRequest asks for the analysis of several plan URLs
type BatchAnalysisRequest struct {
	URLs []string `json:"urls" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

// RuleView is one rule as served by GET /rules
type RuleView struct {
	Category string   `json:"category"`
	Aliases  []string `json:"aliases"`
	Allowed  []string `json:"allowed"`
	Display  string   `json:"display"`
}

// RulesResponse lists the active alias and rule tables
type RulesResponse struct {
	Rules      []RuleView `json:"rules"`
	Directions []string   `json:"directions"`
}

// HealthResponse is served by GET /health
type HealthResponse struct {
	Status     string `json:"status"`
	Recognizer string `json:"recognizer"`
	Timestamp  string `json:"timestamp"`
}
