package hmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanStd_IdenticalValues(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		values := make([]float64, n)
		for i := range values {
			values[i] = 2.5
		}

		mean, std, err := MeanStd(values)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, mean, 1e-12)
		assert.InDelta(t, 0, std, 1e-12)
	}
}

func TestMeanStd_PopulationDeviation(t *testing.T) {
	mean, std, err := MeanStd([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 3, mean, 1e-12)
	assert.InDelta(t, math.Sqrt2, std, 1e-4)
}

func TestMeanStd_Empty(t *testing.T) {
	_, _, err := MeanStd(nil)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestDensity_PeakAtMean(t *testing.T) {
	const mean, std = 2.0, 0.75
	peak := Density(mean, mean, std)
	assert.InDelta(t, 1/(std*math.Sqrt(2*math.Pi)), peak, 1e-12)

	for _, d := range []float64{0.01, 0.5, 1, 3, 10} {
		assert.Less(t, Density(mean+d, mean, std), peak)
		assert.Less(t, Density(mean-d, mean, std), peak)
	}
}

func TestDensity_Symmetric(t *testing.T) {
	const mean, std = 2.0, 1.25
	for _, d := range []float64{0.25, 0.5, 1.5, 4} {
		assert.InDelta(t, Density(mean+d, mean, std), Density(mean-d, mean, std), 1e-15)
	}
}

func TestDensity_DegenerateDeviation(t *testing.T) {
	for _, std := range []float64{0, -1, math.NaN()} {
		atMean := Density(3, 3, std)
		away := Density(4, 3, std)

		assert.False(t, math.IsNaN(atMean) || math.IsInf(atMean, 0), "std %v at mean gave %v", std, atMean)
		assert.InDelta(t, Density(3, 3, MinStdDev), atMean, 1e-9)
		assert.Equal(t, 0.0, away)
	}
}

func TestFloorStdDev(t *testing.T) {
	assert.Equal(t, MinStdDev, FloorStdDev(0))
	assert.Equal(t, MinStdDev, FloorStdDev(math.NaN()))
	assert.Equal(t, 0.5, FloorStdDev(0.5))
}

func TestLogDensity_FiniteWhereDensityIsNot(t *testing.T) {
	assert.InDelta(t, math.Log(Density(1.5, 1, 2)), LogDensity(1.5, 1, 2), 1e-12)

	// Far in the tail the density underflows to zero but its log does not.
	assert.Equal(t, 0.0, Density(1e3, 0, 0))
	got := LogDensity(1e3, 0, 0)
	assert.False(t, math.IsInf(got, 0) || math.IsNaN(got))
	assert.Less(t, got, -1e9)
}
