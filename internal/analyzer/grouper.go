package analyzer

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PhraseGrouper merges recognized words into room-label phrases
type PhraseGrouper struct {
	confidenceThreshold float64
	lineTolerance       float64
	mergeRatio          float64
	minLength           int
}

// NewPhraseGrouper creates a grouper using the grouping constants of opts
func NewPhraseGrouper(opts AnalysisOptions) *PhraseGrouper {
	return &PhraseGrouper{
		confidenceThreshold: opts.ConfidenceThreshold,
		lineTolerance:       opts.LineTolerance,
		mergeRatio:          opts.MergeRatio,
		minLength:           opts.MinPhraseLength,
	}
}

// Group runs a single pass over words:
//  1. drop words below the confidence threshold and blank words
//  2. sort by top edge, then left edge, and cut into lines
//  3. merge neighbours on a line when their gap is small
//  4. drop phrases that look like dimension annotations
//
// The input slice is not modified.
func (g *PhraseGrouper) Group(words []RecognizedWord) []Phrase {
	kept := make([]RecognizedWord, 0, len(words))
	for _, w := range words {
		if w.Confidence < g.confidenceThreshold {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		w.Text = text
		kept = append(kept, w)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Box.Y0 != kept[j].Box.Y0 {
			return kept[i].Box.Y0 < kept[j].Box.Y0
		}
		return kept[i].Box.X0 < kept[j].Box.X0
	})

	phrases := make([]Phrase, 0)
	for _, line := range g.splitLines(kept) {
		for _, phrase := range g.mergeLine(line) {
			if g.accept(phrase) {
				phrases = append(phrases, phrase)
			}
		}
	}
	return phrases
}

// splitLines cuts sorted words into lines. A word joins the current line
// when its top edge is within tolerance of the line's first word.
func (g *PhraseGrouper) splitLines(sorted []RecognizedWord) [][]RecognizedWord {
	var lines [][]RecognizedWord
	var current []RecognizedWord
	var anchor float64

	for _, w := range sorted {
		if len(current) > 0 && absFloat(w.Box.Y0-anchor) < g.lineTolerance {
			current = append(current, w)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, current)
		}
		current = []RecognizedWord{w}
		anchor = w.Box.Y0
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

func (g *PhraseGrouper) mergeLine(line []RecognizedWord) []Phrase {
	words := make([]RecognizedWord, len(line))
	copy(words, line)
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Box.X0 < words[j].Box.X0
	})

	var phrases []Phrase
	run := []RecognizedWord{words[0]}
	for _, w := range words[1:] {
		prev := run[len(run)-1]
		gap := w.Box.X0 - prev.Box.X1
		avgWidth := (prev.Box.Width() + w.Box.Width()) / 2
		if gap < g.mergeRatio*avgWidth {
			run = append(run, w)
			continue
		}
		phrases = append(phrases, newPhrase(run))
		run = []RecognizedWord{w}
	}
	return append(phrases, newPhrase(run))
}

func newPhrase(run []RecognizedWord) Phrase {
	texts := make([]string, len(run))
	box := run[0].Box
	for i, w := range run {
		texts[i] = w.Text
		box = box.Union(w.Box)
	}
	return Phrase{
		Text:     strings.Join(texts, " "),
		Box:      box,
		Centroid: box.Center(),
		Words:    len(run),
	}
}

// accept rejects phrases that are too short, carry digits (dimension
// annotations such as 12'x10') or hold no letter at all.
func (g *PhraseGrouper) accept(p Phrase) bool {
	if utf8.RuneCountInString(p.Text) < g.minLength {
		return false
	}
	hasLetter := false
	for _, r := range p.Text {
		if unicode.IsDigit(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
