package hmm

import "fmt"

// Training defaults.
const (
	// DefaultStates is the number of states given to a new axis model.
	DefaultStates = 3
	// DefaultCycles is the number of boundary refinement passes.
	DefaultCycles = 10
)

type trainConfig struct {
	states int
	cycles int
}

// TrainOption configures Train.
type TrainOption func(*trainConfig)

// WithStates sets the number of left-to-right states.
func WithStates(n int) TrainOption {
	return func(c *trainConfig) { c.states = n }
}

// WithCycles sets the number of refinement passes. Zero keeps the initial split.
func WithCycles(n int) TrainOption {
	return func(c *trainConfig) { c.cycles = n }
}

// Trained holds the parameters derived from a set of examples.
type Trained struct {
	Segments    []Segmentation
	Emissions   []Gaussian
	Transitions []Transition
}

// Train segments every example into contiguous per-state runs and estimates a
// Gaussian and a transition pair per state.
//
// Each example starts from an even split. Every refinement cycle estimates the
// state Gaussians once, then walks every example and lets each state hand its
// edge samples to the neighbouring state when the neighbour explains them with
// a smaller z-score. The Gaussians stay fixed for the whole cycle. After the
// last cycle the Gaussians are estimated again from the final segmentation.
//
// The relabeling only looks at segment edges, so it can settle in a local
// partition. examples is never modified.
func Train(examples [][]float64, opts ...TrainOption) (*Trained, error) {
	cfg := trainConfig{states: DefaultStates, cycles: DefaultCycles}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.states < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStateCount, cfg.states)
	}
	if cfg.cycles < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCycles, cfg.cycles)
	}
	if len(examples) == 0 {
		return nil, ErrNoExamples
	}

	segments := make([]Segmentation, len(examples))
	for j, ex := range examples {
		if len(ex) < cfg.states {
			return nil, fmt.Errorf("%w: example %d has %d samples for %d states",
				ErrSequenceTooShort, j, len(ex), cfg.states)
		}
		segments[j] = initialSegmentation(len(ex), cfg.states)
	}

	for cycle := 0; cycle < cfg.cycles; cycle++ {
		emissions, err := estimateEmissions(examples, segments, cfg.states)
		if err != nil {
			return nil, err
		}
		for j, ex := range examples {
			refine(ex, segments[j], emissions)
		}
	}

	emissions, err := estimateEmissions(examples, segments, cfg.states)
	if err != nil {
		return nil, err
	}
	transitions, err := estimateTransitions(segments, cfg.states)
	if err != nil {
		return nil, err
	}

	return &Trained{
		Segments:    segments,
		Emissions:   emissions,
		Transitions: transitions,
	}, nil
}

// estimateEmissions pools every example's samples per state and fits a Gaussian.
func estimateEmissions(examples [][]float64, segments []Segmentation, states int) ([]Gaussian, error) {
	emissions := make([]Gaussian, states)
	var pooled []float64
	for i := 0; i < states; i++ {
		pooled = pooled[:0]
		for j, ex := range examples {
			start, end := segments[j].Bounds(i)
			pooled = append(pooled, ex[start:end]...)
		}
		mean, std, err := MeanStd(pooled)
		if err != nil {
			return nil, fmt.Errorf("%w: state %d", ErrEmptyState, i)
		}
		emissions[i] = Gaussian{Mean: mean, StdDev: std}
	}
	return emissions, nil
}

// refine moves the boundaries of one example, state by state from first to
// last. A state never gives away its last sample.
func refine(example []float64, seg Segmentation, emissions []Gaussian) {
	last := len(emissions) - 1
	for i := range emissions {
		if i > 0 {
			// head of state i back to state i-1
			for seg.Len(i) > 1 {
				x := example[seg[i]]
				if distance(x, emissions[i]) <= distance(x, emissions[i-1]) {
					break
				}
				seg[i]++
			}
		}
		if i < last {
			// tail of state i forward to state i+1
			for seg.Len(i) > 1 {
				x := example[seg[i+1]-1]
				if distance(x, emissions[i]) <= distance(x, emissions[i+1]) {
					break
				}
				seg[i+1]--
			}
		}
	}
}

// estimateTransitions derives the advance probability of each state from its
// mean segment length: a state visited for n samples on average is left with
// probability 1/n.
func estimateTransitions(segments []Segmentation, states int) ([]Transition, error) {
	transitions := make([]Transition, states)
	for i := 0; i < states; i++ {
		total := 0
		for _, s := range segments {
			total += s.Len(i)
		}
		if total == 0 {
			return nil, fmt.Errorf("%w: state %d", ErrEmptyState, i)
		}
		advance := float64(len(segments)) / float64(total)
		transitions[i] = Transition{Advance: advance, SelfLoop: 1 - advance}
	}
	return transitions, nil
}
