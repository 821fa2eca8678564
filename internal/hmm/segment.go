package hmm

import "fmt"

// Segmentation partitions one example into contiguous per-state ranges.
// It holds States+1 cut offsets; state i owns example[s[i]:s[i+1]].
type Segmentation []int

// initialSegmentation splits length samples into states chunks of
// length/states samples. The first length%states chunks take one extra sample.
func initialSegmentation(length, states int) Segmentation {
	s := make(Segmentation, states+1)
	size, extra := length/states, length%states
	for i := 0; i < states; i++ {
		n := size
		if i < extra {
			n++
		}
		s[i+1] = s[i] + n
	}
	return s
}

// States returns the number of states covered by s.
func (s Segmentation) States() int {
	return len(s) - 1
}

// Bounds returns the half-open sample range owned by state.
func (s Segmentation) Bounds(state int) (start, end int) {
	return s[state], s[state+1]
}

// Len returns the number of samples owned by state.
func (s Segmentation) Len(state int) int {
	return s[state+1] - s[state]
}

// Split returns the per-state sub-slices of example. The sub-slices share
// example's backing array.
func (s Segmentation) Split(example []float64) [][]float64 {
	parts := make([][]float64, s.States())
	for i := range parts {
		parts[i] = example[s[i]:s[i+1]]
	}
	return parts
}

func (s Segmentation) check(length, states int) error {
	if len(s) != states+1 {
		return fmt.Errorf("segmentation has %d cuts, want %d", len(s), states+1)
	}
	if s[0] != 0 || s[states] != length {
		return fmt.Errorf("segmentation spans [%d,%d), want [0,%d)", s[0], s[states], length)
	}
	for i := 0; i < states; i++ {
		if s[i+1] < s[i] {
			return fmt.Errorf("segmentation cut %d precedes cut %d", i+1, i)
		}
	}
	return nil
}
