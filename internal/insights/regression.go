package insights

import "math"

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// FitLine returns the ordinary least-squares line through (xs[i], ys[i]).
// It needs at least two points with distinct x values; otherwise ok is false.
func FitLine(xs, ys []float64) (Line, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return Line{}, false
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 || math.IsNaN(sxx) {
		return Line{}, false
	}

	slope := sxy / sxx
	return Line{Slope: slope, Intercept: meanY - slope*meanX}, true
}
