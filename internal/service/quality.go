package service

import (
	"sort"
	"strings"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/pkg/models"
)

// RecognitionQuality compares the room categories found on a plan with the
// ones the caller expected. Expected labels go through the same
// normalization and alias matching as recognized text, so "Pooja Room"
// counts as "puja". Both sides are sorted before comparison so discovery
// order does not matter. Returns nil when nothing was expected.
func RecognitionQuality(expected []string, features []analyzer.Feature, matcher *analyzer.AliasMatcher) *models.RecognitionQuality {
	reference := expectedCategories(expected, matcher)
	if len(reference) == 0 {
		return nil
	}

	detected := make([]string, 0, len(features))
	found := make(map[string]bool, len(features))
	for _, feature := range features {
		detected = append(detected, feature.Key)
		found[feature.Key] = true
	}
	sort.Strings(detected)

	missing := make([]string, 0)
	for _, category := range reference {
		if !found[category] {
			missing = append(missing, category)
		}
	}

	wordErrorRate, _ := wer.WER(reference, detected)

	return &models.RecognitionQuality{
		Expected: reference,
		Detected: detected,
		Missing:  missing,
		WER:      wordErrorRate,
		CER:      characterErrorRate(strings.Join(reference, " "), strings.Join(detected, " ")),
	}
}

func expectedCategories(expected []string, matcher *analyzer.AliasMatcher) []string {
	seen := make(map[string]bool, len(expected))
	categories := make([]string, 0, len(expected))
	for _, label := range expected {
		normalized := analyzer.NormalizeLabel(label)
		if normalized == "" {
			continue
		}
		category, ok := matcher.Match(normalized)
		if !ok {
			category = normalized
		}
		if seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

func characterErrorRate(reference, candidate string) float64 {
	if reference == "" {
		return 0
	}
	return float64(levenshtein.Distance(reference, candidate)) / float64(len(reference))
}
