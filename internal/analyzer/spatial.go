package analyzer

// BuildFeatures turns matched labels into features positioned at their
// phrase centroid. labels and phrases are parallel slices. Unmatched labels
// are skipped and only the first phrase of each category is kept.
func BuildFeatures(labels []Label, phrases []Phrase, canvas Size) ([]Feature, error) {
	features := make([]Feature, 0, len(labels))
	seen := make(map[string]bool, len(labels))

	for i, label := range labels {
		if i >= len(phrases) {
			break
		}
		if label.Category == "" || seen[label.Category] {
			continue
		}
		phrase := phrases[i]
		direction, err := DirectionFromCenter(phrase.Centroid.X, phrase.Centroid.Y, canvas.Width, canvas.Height)
		if err != nil {
			return nil, err
		}
		seen[label.Category] = true
		features = append(features, Feature{
			Key:       label.Category,
			Label:     label.Normalized,
			X:         phrase.Centroid.X,
			Y:         phrase.Centroid.Y,
			Width:     phrase.Box.Width(),
			Height:    phrase.Box.Height(),
			Direction: direction,
		})
	}
	return features, nil
}
