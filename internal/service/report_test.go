package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/internal/annotate"
	"go-vastu-inspector/pkg/models"
)

func TestBuildReport(t *testing.T) {
	rules := analyzer.RuleTable{
		{Category: "kitchen", Allowed: []analyzer.Direction{analyzer.Southeast, analyzer.Northwest}},
		{Category: "master bedroom", Allowed: []analyzer.Direction{analyzer.Southwest}},
	}
	evaluation := analyzer.NewRuleEvaluator(rules).Evaluate([]analyzer.Feature{
		{Key: "kitchen", Direction: analyzer.Southeast},
		{Key: "master bedroom", Direction: analyzer.North},
		{Key: "garage", Direction: analyzer.West},
	})

	report := BuildReport(evaluation, rules, annotate.New(annotate.DefaultStyle()))

	assert.Equal(t, models.ReportSummary{
		TotalRoomsAnalyzed:    3,
		VerifiedPlacements:    1,
		NotVerifiedPlacements: 1,
	}, report.Summary)

	expected := []models.RoomDetail{
		{
			RoomName:         "Kitchen",
			DetectedLocation: "Southeast",
			Status:           models.StatusVerified,
			IdealLocations:   "Southeast, Northwest",
			Message:          "Correctly placed in Southeast.",
		},
		{
			RoomName:         "Master Bedroom",
			DetectedLocation: "North",
			Status:           models.StatusNotVerified,
			IdealLocations:   "Southwest",
			Message:          "Found in North, but ideal location(s) are: Southwest.",
		},
		{
			RoomName:         "Garage",
			DetectedLocation: "West",
			Status:           models.StatusUnknown,
			IdealLocations:   analyzer.AnyDirection,
			Message:          "No specific rule found for 'Garage'",
		},
	}
	assert.Equal(t, expected, report.Details)
}

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(analyzer.Evaluation{}, analyzer.DefaultRules(), annotate.New(annotate.DefaultStyle()))

	assert.NotNil(t, report.Details)
	assert.Empty(t, report.Details)
	assert.Equal(t, models.ReportSummary{}, report.Summary)
}
