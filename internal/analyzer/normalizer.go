package analyzer

import (
	"strings"

	"github.com/arbovm/levenshtein"
)

// minFuzzyAliasLength keeps short aliases like "wc" or "bed" out of the
// fuzzy pass, where a single edit would match unrelated words.
const minFuzzyAliasLength = 5

// NormalizeLabel lowercases text, replaces every character outside
// [a-z] and whitespace with a space and collapses repeated whitespace.
// Normalizing a normalized label returns it unchanged.
func NormalizeLabel(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// AliasMatcher maps normalized labels to canonical room categories
type AliasMatcher struct {
	table         AliasTable
	fuzzyDistance int
}

// NewAliasMatcher creates a matcher over table. A fuzzyDistance of 0
// restricts matching to alias substrings.
func NewAliasMatcher(table AliasTable, fuzzyDistance int) *AliasMatcher {
	if fuzzyDistance < 0 {
		fuzzyDistance = 0
	}
	return &AliasMatcher{table: table, fuzzyDistance: fuzzyDistance}
}

// Match returns the category of a normalized label. Categories are tried
// in table order; the first one with an alias contained in the label wins.
// When no alias is contained, label tokens are compared to long
// single-word aliases by edit distance, again in table order.
func (m *AliasMatcher) Match(normalized string) (string, bool) {
	if normalized == "" {
		return "", false
	}
	for _, entry := range m.table {
		for _, alias := range entry.Aliases {
			if strings.Contains(normalized, alias) {
				return entry.Category, true
			}
		}
	}
	if m.fuzzyDistance == 0 {
		return "", false
	}

	tokens := strings.Fields(normalized)
	for _, entry := range m.table {
		for _, alias := range entry.Aliases {
			if len(alias) < minFuzzyAliasLength || strings.Contains(alias, " ") {
				continue
			}
			for _, token := range tokens {
				if abs(len(token)-len(alias)) > m.fuzzyDistance {
					continue
				}
				if levenshtein.Distance(token, alias) <= m.fuzzyDistance {
					return entry.Category, true
				}
			}
		}
	}
	return "", false
}

// Label normalizes a phrase and matches it
func (m *AliasMatcher) Label(phrase Phrase) Label {
	normalized := NormalizeLabel(phrase.Text)
	category, _ := m.Match(normalized)
	return Label{
		Text:       phrase.Text,
		Normalized: normalized,
		Category:   category,
	}
}

// LabelPhrases labels every phrase, keeping phrase order
func (m *AliasMatcher) LabelPhrases(phrases []Phrase) []Label {
	labels := make([]Label, 0, len(phrases))
	for _, phrase := range phrases {
		labels = append(labels, m.Label(phrase))
	}
	return labels
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
