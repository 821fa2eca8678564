package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Example is one stored training example: a pair of velocity sequences.
type Example struct {
	ID          int64     `json:"id"`
	LetterID    string    `json:"letter_id"`
	SampleIndex int       `json:"sample_index"`
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExampleRepository provides operations on training examples.
type ExampleRepository struct {
	db querier
}

// Examples returns the example repository for this store.
func (s *Store) Examples() *ExampleRepository {
	return &ExampleRepository{db: s.db}
}

// Replace overwrites every example of a letter with xs and ys, which must
// have the same length.
func (r *ExampleRepository) Replace(letterID string, xs, ys [][]float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("example count mismatch: %d x, %d y", len(xs), len(ys))
	}

	if err := r.DeleteByLetterID(letterID); err != nil {
		return err
	}

	now := time.Now()
	for i := range xs {
		xData, err := json.Marshal(xs[i])
		if err != nil {
			return err
		}
		yData, err := json.Marshal(ys[i])
		if err != nil {
			return err
		}
		if _, err := r.db.Exec(
			`INSERT INTO letter_examples (letter_id, sample_index, x_data, y_data, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			letterID, i, string(xData), string(yData), now,
		); err != nil {
			return err
		}
	}

	return nil
}

// GetByLetterID retrieves all examples for a letter in training order.
func (r *ExampleRepository) GetByLetterID(letterID string) ([]Example, error) {
	rows, err := r.db.Query(
		`SELECT id, letter_id, sample_index, x_data, y_data, created_at
		 FROM letter_examples
		 WHERE letter_id = ?
		 ORDER BY sample_index`,
		letterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var examples []Example
	for rows.Next() {
		var e Example
		var xData, yData string
		if err := rows.Scan(&e.ID, &e.LetterID, &e.SampleIndex, &xData, &yData, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(xData), &e.X); err != nil {
			return nil, fmt.Errorf("example %d x data: %w", e.ID, err)
		}
		if err := json.Unmarshal([]byte(yData), &e.Y); err != nil {
			return nil, fmt.Errorf("example %d y data: %w", e.ID, err)
		}
		examples = append(examples, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return examples, nil
}

// Count returns the number of stored examples across all letters.
func (r *ExampleRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM letter_examples`).Scan(&n)
	return n, err
}

// DeleteByLetterID removes all examples for a letter.
func (r *ExampleRepository) DeleteByLetterID(letterID string) error {
	_, err := r.db.Exec(`DELETE FROM letter_examples WHERE letter_id = ?`, letterID)
	return err
}
