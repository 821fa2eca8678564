package hmm

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinStdDev is the smallest standard deviation used when evaluating a state.
// A state whose samples are all identical has a zero deviation; it is floored
// to this value instead of producing NaN or infinite densities.
const MinStdDev = 1e-4

// MeanStd returns the mean and population standard deviation of values.
func MeanStd(values []float64) (mean, std float64, err error) {
	if len(values) == 0 {
		return 0, 0, ErrEmptySequence
	}
	mean, std = stat.PopMeanStdDev(values, nil)
	return mean, std, nil
}

// FloorStdDev clamps std to MinStdDev. NaN and negative inputs are clamped too.
func FloorStdDev(std float64) float64 {
	if std >= MinStdDev {
		return std
	}
	return MinStdDev
}

// Density evaluates the normal probability density with the given mean and
// standard deviation at x. The deviation is floored with FloorStdDev.
func Density(x, mean, std float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: FloorStdDev(std)}.Prob(x)
}

// LogDensity is the natural logarithm of Density. It stays finite for finite
// inputs where Density would overflow or underflow.
func LogDensity(x, mean, std float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: FloorStdDev(std)}.LogProb(x)
}

// distance is the absolute z-score of x under g.
func distance(x float64, g Gaussian) float64 {
	return math.Abs(stat.StdScore(x, g.Mean, FloorStdDev(g.StdDev)))
}
