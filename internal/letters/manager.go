// Package letters keeps one two-axis gesture model per letter and classifies
// new gestures against every stored letter.
package letters

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/ayusman/kalam/internal/hmm"
)

var (
	// ErrNoModels is returned when classification is requested before any letter was trained.
	ErrNoModels = errors.New("no letter models")
	// ErrInvalidLabel is returned for blank labels.
	ErrInvalidLabel = errors.New("invalid label")
	// ErrUnknownLetter is returned when a lookup names a letter that does not exist.
	ErrUnknownLetter = errors.New("unknown letter")
)

// Letter is the pair of axis models learned for one label.
type Letter struct {
	Label string
	X     *hmm.AxisModel
	Y     *hmm.AxisModel
}

// Examples returns the number of gestures the letter was trained on.
func (l *Letter) Examples() int {
	return len(l.X.Examples)
}

func (l *Letter) clone() *Letter {
	return &Letter{Label: l.Label, X: l.X.Clone(), Y: l.Y.Clone()}
}

// ImpossibleScore is the score of a letter none of whose left-to-right paths
// can produce the gesture. It ranks below every other score.
const ImpossibleScore = -math.MaxFloat64

// Candidate is the score of one letter for a gesture. Scores are natural log
// likelihoods and are only comparable for the same gesture.
type Candidate struct {
	Label  string  `json:"letter"`
	Score  float64 `json:"score"`
	ScoreX float64 `json:"score_x"`
	ScoreY float64 `json:"score_y"`
}

// Manager owns the letter models. It is safe for concurrent use: training
// holds the write lock, scoring and snapshots hold the read lock.
type Manager struct {
	mu      sync.RWMutex
	states  int
	cycles  int
	order   []string
	letters map[string]*Letter
}

// Option configures a Manager.
type Option func(*Manager)

// WithStates sets the number of states given to each axis of a new letter.
func WithStates(n int) Option {
	return func(m *Manager) { m.states = n }
}

// WithCycles sets the number of refinement cycles used for training.
func WithCycles(n int) Option {
	return func(m *Manager) { m.cycles = n }
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		states:  hmm.DefaultStates,
		cycles:  hmm.DefaultCycles,
		letters: make(map[string]*Letter),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddExample appends one gesture to label's examples and retrains both of its
// axes over all of its examples. A new label creates a new letter. Other
// letters are not touched. If training fails the stored letter is unchanged.
func (m *Manager) AddExample(label string, x, y []float64) (*Letter, error) {
	if strings.TrimSpace(label) == "" {
		return nil, ErrInvalidLabel
	}
	if len(x) == 0 || len(y) == 0 {
		return nil, fmt.Errorf("letter %q: %w", label, hmm.ErrEmptySequence)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.letters[label]
	if !exists {
		var err error
		if current, err = m.newLetter(label); err != nil {
			return nil, err
		}
	}

	nextX, err := current.X.Extend(x, m.cycles)
	if err != nil {
		return nil, fmt.Errorf("letter %q x axis: %w", label, err)
	}
	nextY, err := current.Y.Extend(y, m.cycles)
	if err != nil {
		return nil, fmt.Errorf("letter %q y axis: %w", label, err)
	}

	next := &Letter{Label: label, X: nextX, Y: nextY}
	if !exists {
		m.order = append(m.order, label)
	}
	m.letters[label] = next

	return next.clone(), nil
}

func (m *Manager) newLetter(label string) (*Letter, error) {
	x, err := hmm.NewAxisModel(m.states)
	if err != nil {
		return nil, err
	}
	y, err := hmm.NewAxisModel(m.states)
	if err != nil {
		return nil, err
	}
	return &Letter{Label: label, X: x, Y: y}, nil
}

// Classify returns the letter whose models give the gesture the highest score.
// Ties go to the letter that was created first.
func (m *Manager) Classify(x, y []float64) (Candidate, error) {
	ranked, err := m.Rank(x, y)
	if err != nil {
		return Candidate{}, err
	}
	return ranked[0], nil
}

// Rank scores the gesture against every letter and returns the candidates
// best first. The two axes are treated as independent, so a letter's score is
// the sum of its axis log scores.
func (m *Manager) Rank(x, y []float64) ([]Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.order) == 0 {
		return nil, ErrNoModels
	}
	if len(x) == 0 || len(y) == 0 {
		return nil, hmm.ErrEmptySequence
	}

	candidates := make([]Candidate, 0, len(m.order))
	for _, label := range m.order {
		l := m.letters[label]
		sx, err := hmm.LogScore(x, l.X)
		if err != nil {
			return nil, fmt.Errorf("letter %q x axis: %w", label, err)
		}
		sy, err := hmm.LogScore(y, l.Y)
		if err != nil {
			return nil, fmt.Errorf("letter %q y axis: %w", label, err)
		}
		candidates = append(candidates, Candidate{
			Label:  label,
			Score:  clampScore(sx + sy),
			ScoreX: clampScore(sx),
			ScoreY: clampScore(sy),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// clampScore maps the -Inf of an unexplainable gesture to ImpossibleScore.
func clampScore(s float64) float64 {
	if math.IsInf(s, -1) {
		return ImpossibleScore
	}
	return s
}

// Letter returns a copy of the named letter.
func (m *Manager) Letter(label string) (*Letter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.letters[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLetter, label)
	}
	return l.clone(), nil
}

// Letters returns copies of all letters in creation order.
func (m *Manager) Letters() []*Letter {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Letter, 0, len(m.order))
	for _, label := range m.order {
		out = append(out, m.letters[label].clone())
	}
	return out
}

// Len returns the number of letters.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// TotalExamples returns the number of gestures stored across all letters.
func (m *Manager) TotalExamples() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, l := range m.letters {
		n += l.Examples()
	}
	return n
}

// Remove deletes one letter.
func (m *Manager) Remove(label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.letters[label]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLetter, label)
	}
	delete(m.letters, label)
	for i, l := range m.order {
		if l == label {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear deletes every letter.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.order = nil
	m.letters = make(map[string]*Letter)
}
