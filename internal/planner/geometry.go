package planner

import (
	"math"
	"strconv"
)

// aspectTolerance is how close source and target aspect ratios must be to be
// treated as equal.
const aspectTolerance = 0.01

// FitGeometry returns the filters that fit a source frame of
// sourceWidth x sourceHeight with display aspect ratio aspect into a
// width x height target frame without distortion.
//
// When the aspects match within tolerance the frame is scaled (or left
// alone if the sizes already match). A wider target gets a pillarbox, a
// narrower one a letterbox: the picture is scaled to fit and padded with
// black, offsets rounded down so odd remainders go to the right or bottom.
// An unknown aspect (<= 0) falls back to the storage aspect; with no usable
// source size either, the frame is left alone.
func FitGeometry(width, height, sourceWidth, sourceHeight int, aspect float64) []Filter {
	if aspect <= 0 {
		if sourceWidth <= 0 || sourceHeight <= 0 {
			return nil
		}
		aspect = float64(sourceWidth) / float64(sourceHeight)
	}
	target := float64(width) / float64(height)

	if math.Abs(target-aspect) < aspectTolerance {
		if sourceWidth == width && sourceHeight == height {
			return nil
		}
		return []Filter{scaleFilter(width, height)}
	}

	var pw, ph, pl, pt int
	if target > aspect {
		// Pillarbox: bars left and right.
		pw = int(math.Round(float64(height) * aspect))
		ph = height
		pl = (width - pw) / 2
	} else {
		// Letterbox: bars top and bottom.
		pw = width
		ph = int(math.Round(float64(width) / aspect))
		pt = (height - ph) / 2
	}

	return []Filter{
		scaleFilter(pw, ph),
		{Name: "pad", Args: []string{itoa(width), itoa(height), itoa(pl), itoa(pt), "black"}},
	}
}

func scaleFilter(w, h int) Filter {
	return Filter{Name: "scale", Args: []string{itoa(w), itoa(h)}}
}

func itoa(n int) string { return strconv.Itoa(n) }
