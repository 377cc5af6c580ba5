package analyzer

import (
	"image"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"
)

// Legibility summarizes how readable a plan image is for text recognition
type Legibility struct {
	// Sharpness is the variance of the Laplacian of the gray image
	Sharpness float64 `json:"sharpness"`
	// Brightness is the mean gray level (0-255)
	Brightness float64 `json:"brightness"`
	// InkRatio is the share of pixels darker than the ink threshold
	InkRatio float64 `json:"ink_ratio"`
}

// MeasureLegibility computes sharpness, brightness and ink coverage of img.
// Transparent pixels count as white paper. Rows are streamed in horizontal
// strips, so memory stays proportional to the image width.
func MeasureLegibility(img image.Image) Legibility {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return Legibility{}
	}

	src, ok := img.(*image.NRGBA)
	if !ok || src.Rect.Min != (image.Point{}) {
		src = imaging.Clone(img)
	}

	numWorkers := runtime.NumCPU()
	if height < numWorkers {
		numWorkers = height
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers // ceil division

	results := make(chan stripStats, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := i * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > height {
			endY = height
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			results <- measureStrip(src, width, height, startY, endY)
		}(startY, endY)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var total stripStats
	for r := range results {
		total.sum += r.sum
		total.ink += r.ink
		total.laplacian = total.laplacian.merge(r.laplacian)
	}
	pixels := float64(width * height)
	return Legibility{
		Sharpness:  total.laplacian.variance(),
		Brightness: total.sum / pixels,
		InkRatio:   float64(total.ink) / pixels,
	}
}

type stripStats struct {
	sum       float64
	ink       int
	laplacian moments
}

// moments holds count, mean and sum of squared deviations of a sample
type moments struct {
	n, mean, m2 float64
}

// merge combines two partial samples (Chan et al.)
func (a moments) merge(b moments) moments {
	if a.n == 0 {
		return b
	}
	if b.n == 0 {
		return a
	}
	n := a.n + b.n
	delta := b.mean - a.mean
	return moments{
		n:    n,
		mean: a.mean + delta*b.n/n,
		m2:   a.m2 + b.m2 + delta*delta*a.n*b.n/n,
	}
}

// variance is the unbiased sample variance, matching stat.Variance
func (a moments) variance() float64 {
	if a.n < 2 {
		return 0
	}
	return a.m2 / (a.n - 1)
}

// measureStrip accumulates rows [startY, endY) of src. The Laplacian uses
// the [0 1 0; 1 -4 1; 0 1 0] kernel on inner pixels only, reading one row
// above and below the strip.
func measureStrip(src *image.NRGBA, width, height, startY, endY int) stripStats {
	var st stripStats
	prev, cur, next := make([]float64, width), make([]float64, width), make([]float64, width)
	response := make([]float64, 0, width)

	if startY > 0 {
		grayRow(src, startY-1, prev)
	}
	grayRow(src, startY, cur)

	for y := startY; y < endY; y++ {
		for _, v := range cur {
			st.sum += v
			if v < inkThreshold {
				st.ink++
			}
		}
		if y+1 < height {
			grayRow(src, y+1, next)
		}

		if y > 0 && y < height-1 && width >= 3 {
			response = response[:0]
			for x := 1; x < width-1; x++ {
				response = append(response, -4*cur[x]+prev[x]+next[x]+cur[x-1]+cur[x+1])
			}
			row := moments{n: float64(len(response)), mean: response[0]}
			if len(response) > 1 {
				mean, variance := stat.MeanVariance(response, nil)
				row.mean, row.m2 = mean, variance*(row.n-1)
			}
			st.laplacian = st.laplacian.merge(row)
		}

		prev, cur, next = cur, next, prev
	}
	return st
}

func grayRow(src *image.NRGBA, y int, row []float64) {
	for x := range row {
		row[x] = luminance(src.NRGBAAt(x, y))
	}
}
