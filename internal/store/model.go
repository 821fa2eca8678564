package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ayusman/kalam/internal/hmm"
)

// Params are the derived parameters of one trained axis.
type Params struct {
	Segments    []hmm.Segmentation `json:"segments"`
	Emissions   []hmm.Gaussian     `json:"emissions"`
	Transitions []hmm.Transition   `json:"transitions"`
}

// ParamsOf extracts the trained parameters of m.
func ParamsOf(m *hmm.AxisModel) Params {
	return Params{Segments: m.Segments, Emissions: m.Emissions, Transitions: m.Transitions}
}

// Model is the stored trained model of a letter.
type Model struct {
	LetterID  string
	X         Params
	Y         Params
	TrainedAt time.Time
}

// ModelRepository provides operations on trained letter models.
type ModelRepository struct {
	db querier
}

// Models returns the model repository for this store.
func (s *Store) Models() *ModelRepository {
	return &ModelRepository{db: s.db}
}

// Put stores or replaces the model of a letter.
func (r *ModelRepository) Put(m *Model) error {
	m.TrainedAt = time.Now()

	xData, err := json.Marshal(m.X)
	if err != nil {
		return err
	}
	yData, err := json.Marshal(m.Y)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO letter_models (letter_id, x_params, y_params, trained_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(letter_id) DO UPDATE SET
		   x_params = excluded.x_params,
		   y_params = excluded.y_params,
		   trained_at = excluded.trained_at`,
		m.LetterID, string(xData), string(yData), m.TrainedAt,
	)
	return err
}

// GetByLetterID retrieves the model of a letter.
// Returns nil, nil if the letter has no trained model.
func (r *ModelRepository) GetByLetterID(letterID string) (*Model, error) {
	m := &Model{}
	var xData, yData string

	err := r.db.QueryRow(
		`SELECT letter_id, x_params, y_params, trained_at
		 FROM letter_models WHERE letter_id = ?`,
		letterID,
	).Scan(&m.LetterID, &xData, &yData, &m.TrainedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(xData), &m.X); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(yData), &m.Y); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteByLetterID removes the model of a letter.
func (r *ModelRepository) DeleteByLetterID(letterID string) error {
	_, err := r.db.Exec(`DELETE FROM letter_models WHERE letter_id = ?`, letterID)
	return err
}
