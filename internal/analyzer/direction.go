package analyzer

import (
	"fmt"
	"math"

	apperrors "go-vastu-inspector/internal/errors"
)

// Direction is one of the eight compass points
type Direction string

const (
	East      Direction = "East"
	Northeast Direction = "Northeast"
	North     Direction = "North"
	Northwest Direction = "Northwest"
	West      Direction = "West"
	Southwest Direction = "Southwest"
	South     Direction = "South"
	Southeast Direction = "Southeast"
)

// octants are ordered counter-clockwise from East, matching atan2 angles
var octants = [8]Direction{East, Northeast, North, Northwest, West, Southwest, South, Southeast}

// Directions returns all compass points in octant order
func Directions() []Direction {
	out := make([]Direction, len(octants))
	copy(out, octants[:])
	return out
}

// Abbreviation returns the short form used on annotated images (E, NE, ...)
func (d Direction) Abbreviation() string {
	switch d {
	case East:
		return "E"
	case Northeast:
		return "NE"
	case North:
		return "N"
	case Northwest:
		return "NW"
	case West:
		return "W"
	case Southwest:
		return "SW"
	case South:
		return "S"
	case Southeast:
		return "SE"
	}
	return string(d)
}

// AngleFromCenter returns the compass angle in degrees, in [0, 360), of the
// point (x, y) seen from the center of a width x height canvas.
// Screen y grows downward, so north is up.
func AngleFromCenter(x, y float64, width, height int) (float64, error) {
	if width <= 0 || height <= 0 {
		return 0, apperrors.NewGeometryError(
			fmt.Sprintf("canvas %dx%d has no center", width, height), nil)
	}
	cx := float64(width) / 2
	cy := float64(height) / 2
	dx := x - cx
	dy := cy - y

	angle := math.Atan2(dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle -= 360
	}
	return angle, nil
}

// DirectionFromCenter buckets a position into one of eight 45 degree
// sectors centered on the compass points. East covers [-22.5, 22.5).
func DirectionFromCenter(x, y float64, width, height int) (Direction, error) {
	angle, err := AngleFromCenter(x, y, width, height)
	if err != nil {
		return "", err
	}
	return directionForAngle(angle), nil
}

func directionForAngle(angle float64) Direction {
	sector := int(math.Floor((angle+22.5)/45)) % len(octants)
	return octants[sector]
}
