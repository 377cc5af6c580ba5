package analyzer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	apperrors "go-vastu-inspector/internal/errors"
)

const (
	// inkThreshold separates drawn lines from paper when cropping to the plan
	inkThreshold = 240
	cropPadding  = 20
)

// Canvas is the working image handed to the text recognizer
type Canvas struct {
	Image      *image.NRGBA
	Size       Size
	SourceSize Size
	// Crop is the region of the source image the canvas was built from
	Crop image.Rectangle
	// Legibility is measured on the cropped source before scaling
	Legibility Legibility
}

// DecodeImage decodes an encoded raster image. EXIF orientation is applied.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperrors.NewDecodeError("empty image payload", nil)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to decode image", err)
	}
	return img, nil
}

// Ingest builds the working canvas from a source image: optional crop to
// the drawn plan, upscale by opts.CanvasScale and optional binarization.
// The source image is never modified.
func Ingest(src image.Image, opts AnalysisOptions) (*Canvas, error) {
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, apperrors.NewGeometryError(
			fmt.Sprintf("image has degenerate size %dx%d", bounds.Dx(), bounds.Dy()), nil)
	}

	crop := bounds
	if opts.CropToPlan {
		crop = planBounds(src)
	}
	working := imaging.Crop(src, crop)
	legibility := MeasureLegibility(working)

	scale := opts.CanvasScale
	if scale <= 0 {
		scale = 1
	}
	width := int(math.Round(float64(crop.Dx()) * scale))
	height := int(math.Round(float64(crop.Dy()) * scale))
	if width <= 0 || height <= 0 {
		return nil, apperrors.NewGeometryError(
			fmt.Sprintf("scaled canvas has degenerate size %dx%d", width, height), nil)
	}
	if width != crop.Dx() || height != crop.Dy() {
		working = imaging.Resize(working, width, height, imaging.Lanczos)
	}

	if opts.Binarize {
		working = Binarize(working, opts.LuminanceThreshold)
	}

	return &Canvas{
		Image:      working,
		Size:       Size{Width: width, Height: height},
		SourceSize: Size{Width: bounds.Dx(), Height: bounds.Dy()},
		Crop:       crop,
		Legibility: legibility,
	}, nil
}

// Binarize returns a black and white copy of img. Pixels brighter than
// threshold become white, all others black. Transparent pixels are treated
// as if drawn on white paper.
func Binarize(img image.Image, threshold uint8) *image.NRGBA {
	black := color.NRGBA{0, 0, 0, 255}
	white := color.NRGBA{255, 255, 255, 255}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		if luminance(c) > float64(threshold) {
			return white
		}
		return black
	})
}

// luminance returns Rec. 601 luma of c composited over white
func luminance(c color.NRGBA) float64 {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	alpha := float64(c.A) / 255
	return luma*alpha + 255*(1-alpha)
}

// planBounds finds the bounding box of all ink pixels, padded and clamped
// to the image. Images without ink keep their full bounds.
func planBounds(img image.Image) image.Rectangle {
	bounds := img.Bounds()
	gray := imaging.Clone(img)

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			if luminance(gray.NRGBAAt(x, y)) >= inkThreshold {
				continue
			}
			px, py := x+bounds.Min.X, y+bounds.Min.Y
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if py < minY {
				minY = py
			}
			if py > maxY {
				maxY = py
			}
		}
	}
	if maxX < minX || maxY < minY {
		return bounds
	}

	return image.Rect(minX-cropPadding, minY-cropPadding, maxX+1+cropPadding, maxY+1+cropPadding).Intersect(bounds)
}
