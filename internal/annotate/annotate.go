// Package annotate renders the analyzed canvas with the compass cross,
// the detected rooms and their directions, for display next to the report.
package annotate

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"go-vastu-inspector/internal/analyzer"
)

const (
	DefaultMarkerColor = "#00C853"
	DefaultGridColor   = "#FF1744"
	DefaultJPEGQuality = 85

	// basicfont.Face7x13 glyph metrics
	glyphWidth  = 7
	glyphHeight = 13
	labelPad    = 3
)

// Style holds the overlay colors
type Style struct {
	Marker  colorful.Color
	Grid    colorful.Color
	Quality int
}

// ParseStyle builds a style from hex colors such as "#00C853"
func ParseStyle(markerHex, gridHex string) (Style, error) {
	marker, err := colorful.Hex(markerHex)
	if err != nil {
		return Style{}, fmt.Errorf("invalid marker color %q: %w", markerHex, err)
	}
	grid, err := colorful.Hex(gridHex)
	if err != nil {
		return Style{}, fmt.Errorf("invalid grid color %q: %w", gridHex, err)
	}
	return Style{Marker: marker, Grid: grid, Quality: DefaultJPEGQuality}, nil
}

// DefaultStyle returns the built-in overlay colors
func DefaultStyle() Style {
	style, _ := ParseStyle(DefaultMarkerColor, DefaultGridColor)
	return style
}

// Annotator draws analysis results onto canvases
type Annotator struct {
	style Style
}

// New creates an annotator with style
func New(style Style) *Annotator {
	if style.Quality <= 0 || style.Quality > 100 {
		style.Quality = DefaultJPEGQuality
	}
	return &Annotator{style: style}
}

// DisplayName renders a room category or label for humans ("master bedroom" -> "Master Bedroom").
// A cases.Caser keeps state between calls, so each call builds its own.
func (a *Annotator) DisplayName(name string) string {
	return cases.Title(language.English).String(name)
}

// Render returns a copy of canvas with the compass cross, compass letters,
// a box around each feature and a "Name (Direction)" tag above it.
func (a *Annotator) Render(canvas image.Image, features []analyzer.Feature) *image.NRGBA {
	out := imaging.Clone(canvas)
	bounds := out.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return out
	}

	thickness := w / 600
	if thickness < 1 {
		thickness = 1
	}

	grid := a.style.Grid.Clamped()
	fillRect(out, image.Rect(w/2-thickness/2, 0, w/2-thickness/2+thickness, h), grid)
	fillRect(out, image.Rect(0, h/2-thickness/2, w, h/2-thickness/2+thickness), grid)
	a.drawCompass(out, w, h, grid)

	marker := a.style.Marker.Clamped()
	for _, f := range features {
		box := image.Rect(
			int(f.X-f.Width/2), int(f.Y-f.Height/2),
			int(f.X+f.Width/2), int(f.Y+f.Height/2),
		)
		strokeRect(out, box, thickness, marker)

		tag := fmt.Sprintf("%s (%s)", a.DisplayName(f.Label), f.Direction)
		tagBox := image.Rect(
			box.Min.X, box.Min.Y-glyphHeight-2*labelPad,
			box.Min.X+len(tag)*glyphWidth+2*labelPad, box.Min.Y,
		)
		if tagBox.Min.Y < 0 {
			tagBox = tagBox.Add(image.Pt(0, box.Dy()+tagBox.Dy()))
		}
		fillRect(out, tagBox, marker)
		drawText(out, tagBox.Min.X+labelPad, tagBox.Max.Y-labelPad-2, tag, color.Black)
	}
	return out
}

// drawCompass writes the eight compass abbreviations around the border
func (a *Annotator) drawCompass(img *image.NRGBA, w, h int, c color.Color) {
	margin := 4
	right := w - margin - 2*glyphWidth
	bottom := h - margin
	top := margin + glyphHeight
	midX := w/2 + margin
	midY := h/2 - margin

	positions := map[analyzer.Direction]image.Point{
		analyzer.North:     {midX, top},
		analyzer.Northeast: {right, top},
		analyzer.East:      {right, midY},
		analyzer.Southeast: {right, bottom},
		analyzer.South:     {midX, bottom},
		analyzer.Southwest: {margin, bottom},
		analyzer.West:      {margin, midY},
		analyzer.Northwest: {margin, top},
	}
	for _, d := range analyzer.Directions() {
		p := positions[d]
		drawText(img, p.X, p.Y, d.Abbreviation(), c)
	}
}

// DataURL encodes img as a JPEG data URL
func (a *Annotator) DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(a.style.Quality)); err != nil {
		return "", fmt.Errorf("failed to encode annotated image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.NRGBA, r image.Rectangle, thickness int, c color.Color) {
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), c)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), c)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), c)
	fillRect(img, image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// drawText draws text with its baseline at y
func drawText(img draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
