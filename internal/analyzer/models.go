package analyzer

import "image"

// Box is an axis-aligned rectangle in canvas pixel space.
// (X0, Y0) is the top-left corner and (X1, Y1) the bottom-right one.
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box
func (b Box) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box
func (b Box) Height() float64 {
	return b.Y1 - b.Y0
}

// Center returns the midpoint of the box
func (b Box) Center() Point {
	return Point{X: (b.X0 + b.X1) / 2, Y: (b.Y0 + b.Y1) / 2}
}

// Union returns the smallest box containing both b and other
func (b Box) Union(other Box) Box {
	return Box{
		X0: minFloat(b.X0, other.X0),
		Y0: minFloat(b.Y0, other.Y0),
		X1: maxFloat(b.X1, other.X1),
		Y1: maxFloat(b.Y1, other.Y1),
	}
}

// Rect converts the box to an integer image rectangle
func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b.X0), int(b.Y0), int(b.X1), int(b.Y1))
}

// Point is a position in canvas pixel space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RecognizedWord is one unit of raw OCR output.
// Confidence is on a 0-100 scale.
type RecognizedWord struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"bbox"`
}

// Phrase is a run of recognized words believed to form one room label
type Phrase struct {
	Text     string `json:"text"`
	Box      Box    `json:"bbox"`
	Centroid Point  `json:"center"`
	Words    int    `json:"words"`
}

// Label pairs a phrase with its normalized form and the canonical room
// category it matched. Category is empty when no alias matched.
type Label struct {
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
	Category   string `json:"category,omitempty"`
}

// Feature is a detected room instance ready for spatial evaluation
type Feature struct {
	Key       string    `json:"name"`
	Label     string    `json:"label"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Direction Direction `json:"direction"`
}

// EvaluationRow is one line of the compliance report
type EvaluationRow struct {
	Feature   string    `json:"feature"`
	Direction Direction `json:"direction"`
	OK        bool      `json:"ok"`
	Allowed   string    `json:"allowed"`
}

// Evaluation is the aggregate score of a plan.
// Rows keep feature discovery order.
type Evaluation struct {
	Score   int             `json:"score"`
	Correct int             `json:"correct"`
	Total   int             `json:"total"`
	Rows    []EvaluationRow `json:"rows"`
}

// Size is a canvas size in pixels
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Result is everything one analysis run produces
type Result struct {
	Canvas     Size       `json:"canvas"`
	Words      int        `json:"words_recognized"`
	Phrases    []Phrase   `json:"phrases"`
	Labels     []Label    `json:"labels"`
	Features   []Feature  `json:"features"`
	Evaluation Evaluation `json:"evaluation"`

	// Legibility is nil when the run started from pre-computed words
	Legibility *Legibility `json:"legibility,omitempty"`

	// Image is the working canvas the words were recognized on.
	// It is nil when the run started from pre-computed words.
	Image image.Image `json:"-"`
}

// Empty reports whether no room could be evaluated
func (r *Result) Empty() bool {
	return r.Evaluation.Total == 0
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
