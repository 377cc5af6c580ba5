package service

import (
	"fmt"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/internal/annotate"
	"go-vastu-inspector/pkg/models"
)

// NoLabelsMessage is attached to responses without any recognized room
const NoLabelsMessage = "no recognizable room labels detected"

// BuildReport turns an evaluation into the human facing report. Rows keep
// discovery order. Rooms without a rule are reported as UNKNOWN and count
// toward neither verified nor not verified placements.
func BuildReport(evaluation analyzer.Evaluation, rules analyzer.RuleTable, annotator *annotate.Annotator) models.Report {
	report := models.Report{
		Details: make([]models.RoomDetail, 0, len(evaluation.Rows)),
	}

	for _, row := range evaluation.Rows {
		name := annotator.DisplayName(row.Feature)
		detail := models.RoomDetail{
			RoomName:         name,
			DetectedLocation: string(row.Direction),
			IdealLocations:   row.Allowed,
		}

		_, hasRule := rules.Lookup(row.Feature)
		switch {
		case !hasRule:
			detail.Status = models.StatusUnknown
			detail.Message = fmt.Sprintf("No specific rule found for '%s'", name)
		case row.OK:
			detail.Status = models.StatusVerified
			detail.Message = fmt.Sprintf("Correctly placed in %s.", row.Direction)
			report.Summary.VerifiedPlacements++
		default:
			detail.Status = models.StatusNotVerified
			detail.Message = fmt.Sprintf("Found in %s, but ideal location(s) are: %s.", row.Direction, row.Allowed)
			report.Summary.NotVerifiedPlacements++
		}
		report.Details = append(report.Details, detail)
	}

	report.Summary.TotalRoomsAnalyzed = len(evaluation.Rows)
	return report
}
