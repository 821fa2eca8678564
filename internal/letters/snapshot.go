package letters

import (
	"errors"
	"fmt"

	"github.com/ayusman/kalam/internal/hmm"
)

// SnapshotVersion is written into every snapshot.
const SnapshotVersion = 1

// ErrInvalidSnapshot is returned when a snapshot cannot be restored.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is a plain-data copy of every letter, suitable for JSON or YAML.
type Snapshot struct {
	Version int              `json:"version" yaml:"version"`
	Letters []LetterSnapshot `json:"letters" yaml:"letters"`
}

// LetterSnapshot is the stored form of one letter. A letter stored with raw
// examples only is retrained when restored.
type LetterSnapshot struct {
	Label string        `json:"letter" yaml:"letter"`
	X     hmm.AxisModel `json:"x" yaml:"x"`
	Y     hmm.AxisModel `json:"y" yaml:"y"`
}

// SnapshotOf returns the stored form of l.
func SnapshotOf(l *Letter) LetterSnapshot {
	return LetterSnapshot{Label: l.Label, X: *l.X.Clone(), Y: *l.Y.Clone()}
}

// Snapshot returns a copy of every letter in creation order.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Version: SnapshotVersion,
		Letters: make([]LetterSnapshot, 0, len(m.order)),
	}
	for _, label := range m.order {
		s.Letters = append(s.Letters, SnapshotOf(m.letters[label]))
	}
	return s
}

// Restore builds a Manager from a snapshot. Letters keep the snapshot order.
func Restore(s Snapshot, opts ...Option) (*Manager, error) {
	m := NewManager(opts...)

	for i, ls := range s.Letters {
		if ls.Label == "" {
			return nil, fmt.Errorf("%w: letter %d has no label", ErrInvalidSnapshot, i)
		}
		if _, dup := m.letters[ls.Label]; dup {
			return nil, fmt.Errorf("%w: duplicate letter %q", ErrInvalidSnapshot, ls.Label)
		}
		if len(ls.X.Examples) != len(ls.Y.Examples) {
			return nil, fmt.Errorf("%w: letter %q has %d x and %d y examples",
				ErrInvalidSnapshot, ls.Label, len(ls.X.Examples), len(ls.Y.Examples))
		}

		x, err := m.restoreAxis(ls.X)
		if err != nil {
			return nil, fmt.Errorf("letter %q x axis: %w", ls.Label, err)
		}
		y, err := m.restoreAxis(ls.Y)
		if err != nil {
			return nil, fmt.Errorf("letter %q y axis: %w", ls.Label, err)
		}

		m.letters[ls.Label] = &Letter{Label: ls.Label, X: x, Y: y}
		m.order = append(m.order, ls.Label)
	}

	return m, nil
}

func (m *Manager) restoreAxis(a hmm.AxisModel) (*hmm.AxisModel, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Trained() {
		return a.Clone(), nil
	}
	if len(a.Examples) == 0 {
		return nil, fmt.Errorf("%w: no examples to train from", ErrInvalidSnapshot)
	}
	return a.Retrain(m.cycles)
}
