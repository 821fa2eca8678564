package store

import (
	"errors"
	"path/filepath"
	"testing"
)

// newTestStore creates a new Store backed by a temporary database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestLetterRepository_Upsert(t *testing.T) {
	s := newTestStore(t)
	repo := s.Letters()

	l := &Letter{Label: "a", StatesX: 3, StatesY: 3}
	if err := repo.Upsert(l); err != nil {
		t.Fatalf("failed to upsert letter: %v", err)
	}

	if l.ID == "" {
		t.Fatal("ID should be set after upsert")
	}
	if l.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after upsert")
	}

	firstID := l.ID

	// Upserting the same label keeps the id and updates the state counts
	again := &Letter{Label: "a", StatesX: 4, StatesY: 5}
	if err := repo.Upsert(again); err != nil {
		t.Fatalf("failed to upsert letter again: %v", err)
	}
	if again.ID != firstID {
		t.Errorf("ID changed on upsert: got %q, want %q", again.ID, firstID)
	}

	got, err := repo.GetByLabel("a")
	if err != nil {
		t.Fatalf("failed to get letter by label: %v", err)
	}
	if got.StatesX != 4 || got.StatesY != 5 {
		t.Errorf("states mismatch: got (%d, %d), want (4, 5)", got.StatesX, got.StatesY)
	}

	byID, err := repo.GetByID(firstID)
	if err != nil {
		t.Fatalf("failed to get letter by ID: %v", err)
	}
	if byID.Label != "a" {
		t.Errorf("GetByID returned wrong letter: got %q, want %q", byID.Label, "a")
	}
}

func TestLetterRepository_GetByLabel_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Letters().GetByLabel("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLetterRepository_List_CreationOrder(t *testing.T) {
	s := newTestStore(t)
	repo := s.Letters()

	for _, label := range []string{"c", "a", "b"} {
		if err := repo.Upsert(&Letter{Label: label, StatesX: 3, StatesY: 3}); err != nil {
			t.Fatalf("failed to upsert %q: %v", label, err)
		}
	}
	// Re-upserting must not move "c" to the end
	if err := repo.Upsert(&Letter{Label: "c", StatesX: 3, StatesY: 3}); err != nil {
		t.Fatalf("failed to re-upsert: %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("failed to list letters: %v", err)
	}

	want := []string{"c", "a", "b"}
	if len(list) != len(want) {
		t.Fatalf("expected %d letters, got %d", len(want), len(list))
	}
	for i, l := range list {
		if l.Label != want[i] {
			t.Errorf("letter %d: got %q, want %q", i, l.Label, want[i])
		}
	}
}

func TestLetterRepository_DeleteByLabel(t *testing.T) {
	s := newTestStore(t)
	repo := s.Letters()

	l := &Letter{Label: "a", StatesX: 3, StatesY: 3}
	if err := repo.Upsert(l); err != nil {
		t.Fatalf("failed to upsert letter: %v", err)
	}
	if err := s.Examples().Replace(l.ID, [][]float64{{1, 2, 3}}, [][]float64{{4, 5, 6}}); err != nil {
		t.Fatalf("failed to store examples: %v", err)
	}

	if err := repo.DeleteByLabel("a"); err != nil {
		t.Fatalf("failed to delete letter: %v", err)
	}

	// Examples are removed through the foreign key cascade
	n, err := s.Examples().Count()
	if err != nil {
		t.Fatalf("failed to count examples: %v", err)
	}
	if n != 0 {
		t.Errorf("expected examples to cascade, %d left", n)
	}

	if err := repo.DeleteByLabel("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestExampleRepository_Replace(t *testing.T) {
	s := newTestStore(t)

	l := &Letter{Label: "a", StatesX: 3, StatesY: 3}
	if err := s.Letters().Upsert(l); err != nil {
		t.Fatalf("failed to upsert letter: %v", err)
	}

	xs := [][]float64{{1, 2, 3}, {4, 5, 6, 7}}
	ys := [][]float64{{-1, -2, -3}, {-4, -5, -6, -7}}
	if err := s.Examples().Replace(l.ID, xs, ys); err != nil {
		t.Fatalf("failed to replace examples: %v", err)
	}

	got, err := s.Examples().GetByLetterID(l.ID)
	if err != nil {
		t.Fatalf("failed to get examples: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(got))
	}
	if got[1].SampleIndex != 1 || len(got[1].X) != 4 || got[1].Y[3] != -7 {
		t.Errorf("second example mismatch: %+v", got[1])
	}

	// Replacing again overwrites instead of appending
	if err := s.Examples().Replace(l.ID, xs[:1], ys[:1]); err != nil {
		t.Fatalf("failed to replace examples: %v", err)
	}
	n, err := s.Examples().Count()
	if err != nil {
		t.Fatalf("failed to count examples: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 example after replace, got %d", n)
	}

	if err := s.Examples().Replace(l.ID, xs, ys[:1]); err == nil {
		t.Error("expected error for mismatched example counts")
	}
}

func TestExampleRepository_Replace_UnknownLetter(t *testing.T) {
	s := newTestStore(t)

	err := s.Examples().Replace("no-such-letter", [][]float64{{1}}, [][]float64{{1}})
	if err == nil {
		t.Error("expected foreign key error for unknown letter")
	}
}
