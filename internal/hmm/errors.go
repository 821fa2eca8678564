package hmm

import "errors"

var (
	// ErrEmptySequence is returned when a computation needs at least one sample.
	ErrEmptySequence = errors.New("empty sequence")
	// ErrNoExamples is returned when training is requested without examples.
	ErrNoExamples = errors.New("no training examples")
	// ErrInvalidStateCount is returned for state counts below one.
	ErrInvalidStateCount = errors.New("invalid state count")
	// ErrInvalidCycles is returned for a negative refinement cycle count.
	ErrInvalidCycles = errors.New("invalid cycle count")
	// ErrSequenceTooShort is returned when an example has fewer samples than states.
	ErrSequenceTooShort = errors.New("sequence shorter than state count")
	// ErrEmptyState is returned when a state owns no samples in any example.
	ErrEmptyState = errors.New("state has no samples")
	// ErrInvalidModel is returned when model parameters are missing or inconsistent.
	ErrInvalidModel = errors.New("invalid model")
	// ErrScoreRange is returned when a linear-space score overflows a float64.
	ErrScoreRange = errors.New("score out of range")
)
