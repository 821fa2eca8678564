package hmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAxisModel(t *testing.T) {
	m, err := NewAxisModel(3)
	require.NoError(t, err)
	assert.Equal(t, 3, m.States)
	assert.False(t, m.Trained())

	_, err = NewAxisModel(0)
	assert.ErrorIs(t, err, ErrInvalidStateCount)
}

func TestAxisModel_ExtendRetrainsOnAllExamples(t *testing.T) {
	m, err := NewAxisModel(2)
	require.NoError(t, err)

	first, err := m.Extend([]float64{0, 0, 0, 10, 10, 10}, DefaultCycles)
	require.NoError(t, err)
	assert.Empty(t, m.Examples, "Extend must not modify the receiver")
	require.True(t, first.Trained())
	assert.InDelta(t, 1.0/3, first.Transitions[0].Advance, 1e-12)

	second, err := first.Extend([]float64{0, 0, 10, 10}, DefaultCycles)
	require.NoError(t, err)
	assert.Len(t, first.Examples, 1)
	assert.Len(t, second.Examples, 2)
	assert.Len(t, second.Segments, 2)
	assert.InDelta(t, 1/2.5, second.Transitions[0].Advance, 1e-12)
	assert.NotEqual(t, first.Transitions, second.Transitions)
}

func TestAxisModel_ExtendFailureKeepsModel(t *testing.T) {
	m, err := NewAxisModel(3)
	require.NoError(t, err)
	m, err = m.Extend([]float64{1, 2, 3, 4, 5, 6}, DefaultCycles)
	require.NoError(t, err)

	_, err = m.Extend([]float64{1, 2}, DefaultCycles)
	assert.ErrorIs(t, err, ErrSequenceTooShort)
	assert.Len(t, m.Examples, 1)
	assert.True(t, m.Trained())
}

func TestAxisModel_CloneIsDeep(t *testing.T) {
	m := &AxisModel{
		States:      1,
		Examples:    [][]float64{{1, 2}},
		Segments:    []Segmentation{{0, 2}},
		Emissions:   []Gaussian{{Mean: 1.5, StdDev: 0.5}},
		Transitions: []Transition{{Advance: 0.5, SelfLoop: 0.5}},
	}
	c := m.Clone()
	c.Examples[0][0] = 99
	c.Segments[0][1] = 1
	c.Emissions[0].Mean = 99

	assert.Equal(t, 1.0, m.Examples[0][0])
	assert.Equal(t, 2, m.Segments[0][1])
	assert.Equal(t, 1.5, m.Emissions[0].Mean)
}

func TestAxisModel_Validate(t *testing.T) {
	valid := func() *AxisModel {
		return &AxisModel{
			States:      2,
			Examples:    [][]float64{{0, 0, 1, 1}},
			Segments:    []Segmentation{{0, 2, 4}},
			Emissions:   []Gaussian{{Mean: 0, StdDev: 0}, {Mean: 1, StdDev: 0}},
			Transitions: []Transition{{Advance: 0.5, SelfLoop: 0.5}, {Advance: 0.5, SelfLoop: 0.5}},
		}
	}
	require.NoError(t, valid().Validate())
	require.NoError(t, (&AxisModel{States: 3, Examples: [][]float64{{1, 2, 3}}}).Validate())

	tests := []struct {
		name   string
		mutate func(m *AxisModel)
	}{
		{name: "no states", mutate: func(m *AxisModel) { m.States = 0 }},
		{name: "missing emission", mutate: func(m *AxisModel) { m.Emissions = m.Emissions[:1] }},
		{name: "nan mean", mutate: func(m *AxisModel) { m.Emissions[0].Mean = math.NaN() }},
		{name: "negative std", mutate: func(m *AxisModel) { m.Emissions[1].StdDev = -1 }},
		{name: "transition does not sum to one", mutate: func(m *AxisModel) { m.Transitions[0].SelfLoop = 0.2 }},
		{name: "segment count", mutate: func(m *AxisModel) { m.Segments = append(m.Segments, Segmentation{0, 1, 2}) }},
		{name: "segment span", mutate: func(m *AxisModel) { m.Segments[0] = Segmentation{0, 2, 3} }},
		{name: "segment order", mutate: func(m *AxisModel) { m.Segments[0] = Segmentation{0, 5, 4} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)
			assert.ErrorIs(t, m.Validate(), ErrInvalidModel)
		})
	}
}
