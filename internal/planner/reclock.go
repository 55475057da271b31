package planner

import "strconv"

// maxReclockStep is the largest frame-rate increase that is retimed. Larger
// jumps, and any decrease, are left to the encoder's frame duplication.
const maxReclockStep = 3

// ReclockRatio returns targetFPS/sourceFPS when the target frame rate is
// higher than the source by at most maxReclockStep, so 24 fps film plays at
// 25 fps without repeated frames. ok is false when no retiming applies.
func ReclockRatio(sourceFPS, targetFPS float64) (ratio float64, ok bool) {
	if sourceFPS <= 0 {
		return 0, false
	}
	diff := targetFPS - sourceFPS
	if diff <= 0 || diff > maxReclockStep {
		return 0, false
	}
	return targetFPS / sourceFPS, true
}

// formatNumber renders a float in the shortest form that round-trips, the
// notation ffmpeg option parsers accept ("0.96", "25", "1.0416666666666667").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
