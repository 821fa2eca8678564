// Package hmm implements the single-axis gesture model used by kalam: a
// left-to-right chain of Gaussian states trained by iterative boundary
// segmentation and scored with a Viterbi decoder.
package hmm

import (
	"fmt"
	"math"
)

// Gaussian holds the emission parameters of one state.
type Gaussian struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std" yaml:"std"`
}

// Density evaluates x under g.
func (g Gaussian) Density(x float64) float64 {
	return Density(x, g.Mean, g.StdDev)
}

// LogDensity evaluates log-density of x under g.
func (g Gaussian) LogDensity(x float64) float64 {
	return LogDensity(x, g.Mean, g.StdDev)
}

// Transition holds the outgoing probabilities of one state.
// Advance + SelfLoop is always 1.
type Transition struct {
	Advance  float64 `json:"advance" yaml:"advance"`
	SelfLoop float64 `json:"self_loop" yaml:"self_loop"`
}

// AxisModel is a trained model for one velocity axis of one letter.
//
// Examples only ever grows. Segments, Emissions and Transitions are derived
// from Examples and are recomputed from scratch on every retrain.
type AxisModel struct {
	States      int            `json:"states" yaml:"states"`
	Examples    [][]float64    `json:"examples" yaml:"examples"`
	Segments    []Segmentation `json:"segments,omitempty" yaml:"segments,omitempty"`
	Emissions   []Gaussian     `json:"emissions,omitempty" yaml:"emissions,omitempty"`
	Transitions []Transition   `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// NewAxisModel returns an untrained model with the given number of states.
func NewAxisModel(states int) (*AxisModel, error) {
	if states < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStateCount, states)
	}
	return &AxisModel{States: states}, nil
}

// Trained reports whether the model carries emission and transition parameters.
func (m *AxisModel) Trained() bool {
	return m.States > 0 && len(m.Emissions) == m.States && len(m.Transitions) == m.States
}

// Clone returns a deep copy of m.
func (m *AxisModel) Clone() *AxisModel {
	c := &AxisModel{
		States:      m.States,
		Examples:    make([][]float64, len(m.Examples)),
		Emissions:   append([]Gaussian(nil), m.Emissions...),
		Transitions: append([]Transition(nil), m.Transitions...),
	}
	for i, ex := range m.Examples {
		c.Examples[i] = append([]float64(nil), ex...)
	}
	if m.Segments != nil {
		c.Segments = make([]Segmentation, len(m.Segments))
		for i, s := range m.Segments {
			c.Segments[i] = append(Segmentation(nil), s...)
		}
	}
	return c
}

// Extend returns a copy of m with example appended and all parameters
// retrained over the full example set. m is left untouched.
func (m *AxisModel) Extend(example []float64, cycles int) (*AxisModel, error) {
	next := m.Clone()
	next.Examples = append(next.Examples, append([]float64(nil), example...))
	return next.Retrain(cycles)
}

// Retrain returns a copy of m whose derived parameters are recomputed from its
// examples with the given number of refinement cycles.
func (m *AxisModel) Retrain(cycles int) (*AxisModel, error) {
	trained, err := Train(m.Examples, WithStates(m.States), WithCycles(cycles))
	if err != nil {
		return nil, err
	}
	next := m.Clone()
	next.Segments = trained.Segments
	next.Emissions = trained.Emissions
	next.Transitions = trained.Transitions
	return next, nil
}

// Validate checks that a model, typically one restored from storage, is
// internally consistent. Untrained models only need a valid state count.
func (m *AxisModel) Validate() error {
	if m.States < 1 {
		return fmt.Errorf("%w: %d states", ErrInvalidModel, m.States)
	}
	if len(m.Emissions) == 0 && len(m.Transitions) == 0 {
		return nil
	}
	if !m.Trained() {
		return fmt.Errorf("%w: have %d emissions and %d transitions for %d states",
			ErrInvalidModel, len(m.Emissions), len(m.Transitions), m.States)
	}
	for i, g := range m.Emissions {
		if !finite(g.Mean) || !finite(g.StdDev) || g.StdDev < 0 {
			return fmt.Errorf("%w: state %d emission (%v, %v)", ErrInvalidModel, i, g.Mean, g.StdDev)
		}
	}
	for i, t := range m.Transitions {
		if !finite(t.Advance) || t.Advance < 0 || t.Advance > 1 || math.Abs(t.Advance+t.SelfLoop-1) > 1e-9 {
			return fmt.Errorf("%w: state %d transition (%v, %v)", ErrInvalidModel, i, t.Advance, t.SelfLoop)
		}
	}
	if m.Segments == nil {
		return nil
	}
	if len(m.Segments) != len(m.Examples) {
		return fmt.Errorf("%w: %d segmentations for %d examples", ErrInvalidModel, len(m.Segments), len(m.Examples))
	}
	for j, s := range m.Segments {
		if err := s.check(len(m.Examples[j]), m.States); err != nil {
			return fmt.Errorf("%w: example %d: %v", ErrInvalidModel, j, err)
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
