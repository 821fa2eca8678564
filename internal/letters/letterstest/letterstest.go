// Package letterstest provides gesture fixtures for tests that need trained
// letters.
package letterstest

import (
	"testing"

	"github.com/ayusman/kalam/internal/letters"
)

// Velocity pairs for two easily separated gestures: "L" moves right then up,
// "V" moves down then up.
var (
	LX = []float64{1, 1.1, 0.9, 1, 0.1, 0, 0.05, -0.1, 0, 0}
	LY = []float64{0, 0.1, -0.1, 0, 1, 1.2, 0.9, 1.1, 1, 1}
	VX = []float64{0.5, 0.6, 0.4, 0.5, 0.5, 0.6, 0.5, 0.4, 0.5, 0.5}
	VY = []float64{-1, -1.1, -0.9, -1, -1, 1, 1.1, 0.9, 1, 1}
)

// Jitter returns a copy of seq with a small deterministic perturbation.
func Jitter(seq []float64, seed int) []float64 {
	out := make([]float64, len(seq))
	for i, v := range seq {
		out[i] = v + 0.03*float64((i+seed)%3-1)
	}
	return out
}

// Manager returns a manager holding "L" and "V", each trained from n examples.
func Manager(t testing.TB, n int) *letters.Manager {
	t.Helper()

	m := letters.NewManager()
	for i := 0; i < n; i++ {
		if _, err := m.AddExample("L", Jitter(LX, i), Jitter(LY, i)); err != nil {
			t.Fatalf("train L: %v", err)
		}
		if _, err := m.AddExample("V", Jitter(VX, i), Jitter(VY, i)); err != nil {
			t.Fatalf("train V: %v", err)
		}
	}
	return m
}
