package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Letter is the stored header of one trained label.
type Letter struct {
	ID        string
	Label     string
	StatesX   int
	StatesY   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LetterRepository provides CRUD operations for letters.
type LetterRepository struct {
	db querier
}

// Letters returns the letter repository for this store.
func (s *Store) Letters() *LetterRepository {
	return &LetterRepository{db: s.db}
}

// Upsert inserts l, or updates the state counts of the existing row with the
// same label. l.ID is set to the stored id either way.
func (r *LetterRepository) Upsert(l *Letter) error {
	now := time.Now()
	if l.ID == "" {
		l.ID = uuid.New().String()
	}

	_, err := r.db.Exec(
		`INSERT INTO letters (id, label, states_x, states_y, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(label) DO UPDATE SET
		   states_x = excluded.states_x,
		   states_y = excluded.states_y,
		   updated_at = excluded.updated_at`,
		l.ID, l.Label, l.StatesX, l.StatesY, now, now,
	)
	if err != nil {
		return err
	}

	stored, err := r.GetByLabel(l.Label)
	if err != nil {
		return err
	}
	*l = *stored
	return nil
}

// GetByID retrieves a letter by its ID.
func (r *LetterRepository) GetByID(id string) (*Letter, error) {
	return r.scanOne(
		`SELECT id, label, states_x, states_y, created_at, updated_at
		 FROM letters WHERE id = ?`, id)
}

// GetByLabel retrieves a letter by its label.
func (r *LetterRepository) GetByLabel(label string) (*Letter, error) {
	return r.scanOne(
		`SELECT id, label, states_x, states_y, created_at, updated_at
		 FROM letters WHERE label = ?`, label)
}

func (r *LetterRepository) scanOne(query string, arg any) (*Letter, error) {
	l := &Letter{}
	err := r.db.QueryRow(query, arg).
		Scan(&l.ID, &l.Label, &l.StatesX, &l.StatesY, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// List retrieves all letters in creation order.
func (r *LetterRepository) List() ([]*Letter, error) {
	// rowid survives the upsert, so it is the creation order.
	rows, err := r.db.Query(
		`SELECT id, label, states_x, states_y, created_at, updated_at
		 FROM letters ORDER BY rowid`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var letters []*Letter
	for rows.Next() {
		l := &Letter{}
		if err := rows.Scan(&l.ID, &l.Label, &l.StatesX, &l.StatesY, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		letters = append(letters, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return letters, nil
}

// DeleteByLabel removes a letter and, through cascades, its examples and model.
func (r *LetterRepository) DeleteByLabel(label string) error {
	result, err := r.db.Exec(`DELETE FROM letters WHERE label = ?`, label)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAll removes every letter.
func (r *LetterRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM letters`)
	return err
}
