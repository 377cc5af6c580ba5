package analyzer

import "math"

// RuleEvaluator scores features against a Vastu rule table
type RuleEvaluator struct {
	rules RuleTable
}

// NewRuleEvaluator creates an evaluator over rules
func NewRuleEvaluator(rules RuleTable) *RuleEvaluator {
	return &RuleEvaluator{rules: rules}
}

// Rules returns the table the evaluator scores against
func (e *RuleEvaluator) Rules() RuleTable {
	return e.rules
}

// Evaluate checks every feature's direction against its permitted set.
// Features without a rule count toward the total but are never correct.
// The score is 0 when there are no features.
func (e *RuleEvaluator) Evaluate(features []Feature) Evaluation {
	rows := make([]EvaluationRow, 0, len(features))
	correct := 0

	for _, feature := range features {
		allowed, _ := e.rules.Lookup(feature.Key)
		ok := containsDirection(allowed, feature.Direction)
		if ok {
			correct++
		}
		rows = append(rows, EvaluationRow{
			Feature:   feature.Key,
			Direction: feature.Direction,
			OK:        ok,
			Allowed:   e.rules.AllowedString(feature.Key),
		})
	}

	total := len(features)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return Evaluation{
		Score:   score,
		Correct: correct,
		Total:   total,
		Rows:    rows,
	}
}

func containsDirection(set []Direction, d Direction) bool {
	for _, candidate := range set {
		if candidate == d {
			return true
		}
	}
	return false
}
