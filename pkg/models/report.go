package models

import "go-vastu-inspector/internal/analyzer"

// PlacementStatus is the verdict for one room
type PlacementStatus string

const (
	StatusVerified    PlacementStatus = "VERIFIED"
	StatusNotVerified PlacementStatus = "NOT VERIFIED"
	StatusUnknown     PlacementStatus = "UNKNOWN"
)

// ReportSummary counts placements across a plan
type ReportSummary struct {
	TotalRoomsAnalyzed    int `json:"total_rooms_analyzed"`
	VerifiedPlacements    int `json:"verified_placements"`
	NotVerifiedPlacements int `json:"not_verified_placements"`
}

// RoomDetail is one line of the Vastu report
type RoomDetail struct {
	RoomName         string          `json:"room_name"`
	DetectedLocation string          `json:"detected_location"`
	Status           PlacementStatus `json:"status"`
	IdealLocations   string          `json:"ideal_locations"`
	Message          string          `json:"message"`
}

// Report is the human facing compliance report
type Report struct {
	Summary ReportSummary `json:"summary"`
	Details []RoomDetail  `json:"details"`
}

// RecognitionQuality compares detected room categories against the
// categories the caller expected to find
type RecognitionQuality struct {
	Expected []string `json:"expected_labels"`
	Detected []string `json:"detected_labels"`
	Missing  []string `json:"missing_labels"`
	WER      float64  `json:"wer"`
	CER      float64  `json:"cer"`
}

// AnalysisResponse is returned by every analyze route
type AnalysisResponse struct {
	AnalysisID         string               `json:"analysis_id"`
	PlanURL            string               `json:"plan_url,omitempty"`
	Timestamp          string               `json:"timestamp"`
	ProcessingTimeSec  float64              `json:"processing_time_sec"`
	Report             Report               `json:"report"`
	AnalyzedImage      string               `json:"analyzed_image,omitempty"`
	Canvas             analyzer.Size        `json:"canvas"`
	Labels             []analyzer.Label     `json:"labels"`
	Evaluation         analyzer.Evaluation  `json:"evaluation"`
	Legibility         *analyzer.Legibility `json:"legibility,omitempty"`
	Message            string               `json:"message,omitempty"`
	Warnings           []string             `json:"warnings,omitempty"`
	RecognitionQuality *RecognitionQuality  `json:"recognition_quality,omitempty"`
}

// BatchItem is the outcome for one URL of a batch
type BatchItem struct {
	URL      string            `json:"url"`
	Response *AnalysisResponse `json:"response,omitempty"`
	Error    *ErrorResponse    `json:"error,omitempty"`
}

// BatchResponse keeps results in request order
type BatchResponse struct {
	Results   []BatchItem `json:"results"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}
