package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ayusman/kalam/internal/hmm"
	"github.com/ayusman/kalam/internal/letters"
)

// SaveLetter writes the header, examples and trained model of one letter in a
// single transaction, replacing whatever was stored for the label.
func (s *Store) SaveLetter(ctx context.Context, ls letters.LetterSnapshot) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveLetter(tx, ls)
	})
}

func saveLetter(tx *sql.Tx, ls letters.LetterSnapshot) error {
	l := &Letter{Label: ls.Label, StatesX: ls.X.States, StatesY: ls.Y.States}
	if err := (&LetterRepository{db: tx}).Upsert(l); err != nil {
		return fmt.Errorf("save letter %q: %w", ls.Label, err)
	}

	if err := (&ExampleRepository{db: tx}).Replace(l.ID, ls.X.Examples, ls.Y.Examples); err != nil {
		return fmt.Errorf("save letter %q examples: %w", ls.Label, err)
	}

	models := &ModelRepository{db: tx}
	if !ls.X.Trained() || !ls.Y.Trained() {
		return models.DeleteByLetterID(l.ID)
	}
	m := &Model{LetterID: l.ID, X: ParamsOf(&ls.X), Y: ParamsOf(&ls.Y)}
	if err := models.Put(m); err != nil {
		return fmt.Errorf("save letter %q model: %w", ls.Label, err)
	}
	return nil
}

// LoadSnapshot reads every stored letter in creation order. Letters without a
// stored model come back untrained and are retrained by letters.Restore.
func (s *Store) LoadSnapshot(ctx context.Context) (letters.Snapshot, error) {
	snap := letters.Snapshot{Version: letters.SnapshotVersion}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := (&LetterRepository{db: tx}).List()
		if err != nil {
			return err
		}

		examples := &ExampleRepository{db: tx}
		models := &ModelRepository{db: tx}
		for _, l := range rows {
			ex, err := examples.GetByLetterID(l.ID)
			if err != nil {
				return fmt.Errorf("load letter %q examples: %w", l.Label, err)
			}
			m, err := models.GetByLetterID(l.ID)
			if err != nil {
				return fmt.Errorf("load letter %q model: %w", l.Label, err)
			}

			ls := letters.LetterSnapshot{
				Label: l.Label,
				X:     hmm.AxisModel{States: l.StatesX},
				Y:     hmm.AxisModel{States: l.StatesY},
			}
			for _, e := range ex {
				ls.X.Examples = append(ls.X.Examples, e.X)
				ls.Y.Examples = append(ls.Y.Examples, e.Y)
			}
			if m != nil {
				applyParams(&ls.X, m.X)
				applyParams(&ls.Y, m.Y)
			}
			snap.Letters = append(snap.Letters, ls)
		}
		return nil
	})
	if err != nil {
		return letters.Snapshot{}, err
	}
	return snap, nil
}

// SaveSnapshot replaces every stored letter with the contents of snap in a
// single transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap letters.Snapshot) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := (&LetterRepository{db: tx}).DeleteAll(); err != nil {
			return err
		}
		for _, ls := range snap.Letters {
			if err := saveLetter(tx, ls); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteLetter removes one letter. A missing label is not an error.
func (s *Store) DeleteLetter(_ context.Context, label string) error {
	err := s.Letters().DeleteByLabel(label)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Clear removes every letter, its examples and its model. Actions and
// settings are kept.
func (s *Store) Clear(_ context.Context) error {
	return s.Letters().DeleteAll()
}

func applyParams(a *hmm.AxisModel, p Params) {
	a.Segments = p.Segments
	a.Emissions = p.Emissions
	a.Transitions = p.Transitions
}
