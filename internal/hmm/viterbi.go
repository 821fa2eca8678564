package hmm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Score returns the probability of the single most likely left-to-right state
// path through m that explains evidence.
//
// Every state may start the path. After that a state is reached either from
// itself or from its left neighbour. The result is an unnormalized joint
// likelihood and is only comparable with other scores of the same evidence.
// Empty evidence scores 0. A likelihood too large for a float64 returns
// ErrScoreRange; use LogScore to compare long gestures.
func Score(evidence []float64, m *AxisModel) (float64, error) {
	if len(evidence) == 0 {
		if !m.Trained() {
			return 0, fmt.Errorf("%w: model is not trained", ErrInvalidModel)
		}
		return 0, nil
	}
	logScore, err := LogScore(evidence, m)
	if err != nil {
		return 0, err
	}
	score := math.Exp(logScore)
	if math.IsInf(score, 1) {
		return 0, fmt.Errorf("%w: log score %v", ErrScoreRange, logScore)
	}
	return score, nil
}

// LogScore is the natural logarithm of Score, computed without leaving log
// space so long or sharply peaked gestures stay finite. Evidence that no
// left-to-right path can produce scores -Inf.
func LogScore(evidence []float64, m *AxisModel) (float64, error) {
	if !m.Trained() {
		return 0, fmt.Errorf("%w: model is not trained", ErrInvalidModel)
	}
	if len(evidence) == 0 {
		return 0, ErrEmptySequence
	}
	return viterbi(evidence, m.Emissions, m.Transitions), nil
}

func viterbi(evidence []float64, emissions []Gaussian, transitions []Transition) float64 {
	selfLoop := make([]float64, len(transitions))
	advance := make([]float64, len(transitions))
	for i, t := range transitions {
		selfLoop[i] = logProb(t.SelfLoop)
		advance[i] = logProb(t.Advance)
	}

	prev := make([]float64, len(emissions))
	cur := make([]float64, len(emissions))
	for i, g := range emissions {
		prev[i] = g.LogDensity(evidence[0])
	}

	for _, x := range evidence[1:] {
		for i, g := range emissions {
			best := prev[i] + selfLoop[i]
			// State 0 has no predecessor.
			if i > 0 {
				if entered := prev[i-1] + advance[i-1]; entered > best {
					best = entered
				}
			}
			cur[i] = best + g.LogDensity(x)
		}
		prev, cur = cur, prev
	}

	return floats.Max(prev)
}

// logProb is log(p) with non-positive probabilities mapped to -Inf.
func logProb(p float64) float64 {
	if p <= 0 {
		return math.Inf(-1)
	}
	return math.Log(p)
}
