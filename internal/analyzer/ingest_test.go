package analyzer

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "go-vastu-inspector/internal/errors"
)

// createTestImage creates a solid image for testing purposes
func createTestImage(width, height int, fill color.Color) *image.NRGBA {
	return imaging.New(width, height, fill)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	data := encodePNG(t, createTestImage(40, 30, color.White))

	img, err := DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestDecodeImage_Invalid(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("definitely not an image"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeImage(data)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDecode))
		})
	}
}

func TestIngest_ScalesAndBinarizes(t *testing.T) {
	src := createTestImage(100, 50, color.NRGBA{200, 200, 200, 255})
	src = imaging.Paste(src, createTestImage(20, 10, color.Black), image.Pt(10, 10))

	canvas, err := Ingest(src, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, Size{Width: 200, Height: 100}, canvas.Size)
	assert.Equal(t, Size{Width: 100, Height: 50}, canvas.SourceSize)
	assert.Equal(t, canvas.Size.Width, canvas.Image.Bounds().Dx())

	for y := 0; y < canvas.Size.Height; y++ {
		for x := 0; x < canvas.Size.Width; x++ {
			c := canvas.Image.NRGBAAt(x, y)
			if c.R != 0 && c.R != 255 {
				t.Fatalf("pixel (%d,%d) = %v is not black or white", x, y, c)
			}
		}
	}
	assert.Equal(t, uint8(0), canvas.Image.NRGBAAt(40, 30).R)
	assert.Equal(t, uint8(255), canvas.Image.NRGBAAt(150, 80).R)
}

func TestIngest_DoesNotModifySource(t *testing.T) {
	src := createTestImage(20, 20, color.NRGBA{100, 100, 100, 255})

	_, err := Ingest(src, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{100, 100, 100, 255}, src.NRGBAAt(5, 5))
}

func TestIngest_NoScaleNoBinarize(t *testing.T) {
	src := createTestImage(30, 20, color.NRGBA{100, 150, 200, 255})
	opts := DefaultOptions().WithScale(1).WithoutBinarization()

	canvas, err := Ingest(src, opts)
	require.NoError(t, err)

	assert.Equal(t, Size{Width: 30, Height: 20}, canvas.Size)
	assert.Equal(t, color.NRGBA{100, 150, 200, 255}, canvas.Image.NRGBAAt(3, 3))
}

func TestIngest_CropToPlan(t *testing.T) {
	src := createTestImage(300, 300, color.White)
	src = imaging.Paste(src, createTestImage(50, 50, color.Black), image.Pt(100, 100))
	opts := DefaultOptions().WithScale(1).WithCropToPlan()

	canvas, err := Ingest(src, opts)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(80, 80, 170, 170), canvas.Crop)
	assert.Equal(t, Size{Width: 90, Height: 90}, canvas.Size)
	assert.InDelta(t, 2500.0/8100.0, canvas.Legibility.InkRatio, 1e-9, "legibility is measured on the crop")
}

func TestIngest_CropWithoutInkKeepsBounds(t *testing.T) {
	src := createTestImage(50, 40, color.White)

	canvas, err := Ingest(src, DefaultOptions().WithScale(1).WithCropToPlan())
	require.NoError(t, err)

	assert.Equal(t, src.Bounds(), canvas.Crop)
}

func TestIngest_DegenerateImage(t *testing.T) {
	_, err := Ingest(image.NewNRGBA(image.Rect(0, 0, 0, 0)), DefaultOptions())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGeometry))
}

func TestBinarize(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		want uint8
	}{
		{"above threshold", color.NRGBA{120, 120, 120, 255}, 255},
		{"below threshold", color.NRGBA{110, 110, 110, 255}, 0},
		{"black", color.NRGBA{0, 0, 0, 255}, 0},
		{"transparent is paper", color.NRGBA{0, 0, 0, 0}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Binarize(createTestImage(2, 2, tt.in), 115)
			assert.Equal(t, tt.want, out.NRGBAAt(0, 0).R)
		})
	}
}
