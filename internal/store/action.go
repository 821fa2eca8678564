package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Action binds a recognised label to a plugin action.
type Action struct {
	ID         string          `json:"id"`
	Label      string          `json:"letter"`
	PluginName string          `json:"plugin"`
	ActionName string          `json:"action"`
	Config     json.RawMessage `json:"config,omitempty"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ActionRepository provides CRUD operations for actions.
type ActionRepository struct {
	db querier
}

// Actions returns the action repository for this store.
func (s *Store) Actions() *ActionRepository {
	return &ActionRepository{db: s.db}
}

// Create inserts a new action. An empty ID is filled with a new uuid.
func (r *ActionRepository) Create(a *Action) error {
	a.CreatedAt = time.Now()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	_, err := r.db.Exec(
		`INSERT INTO actions (id, label, plugin_name, action_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Label, a.PluginName, a.ActionName, string(configOrEmpty(a.Config)), a.Enabled, a.CreatedAt,
	)
	return err
}

// GetByID retrieves an action by its ID.
func (r *ActionRepository) GetByID(id string) (*Action, error) {
	a, err := r.scanOne(
		`SELECT id, label, plugin_name, action_name, config, enabled, created_at
		 FROM actions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// GetByLabel retrieves the action bound to a label.
// Returns nil, nil if no action is bound.
func (r *ActionRepository) GetByLabel(label string) (*Action, error) {
	a, err := r.scanOne(
		`SELECT id, label, plugin_name, action_name, config, enabled, created_at
		 FROM actions WHERE label = ?`, label)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *ActionRepository) scanOne(query string, arg any) (*Action, error) {
	a := &Action{}
	var config string
	var enabled int

	err := r.db.QueryRow(query, arg).
		Scan(&a.ID, &a.Label, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}

// List retrieves all actions from the database.
func (r *ActionRepository) List() ([]*Action, error) {
	rows, err := r.db.Query(
		`SELECT id, label, plugin_name, action_name, config, enabled, created_at
		 FROM actions ORDER BY label`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a := &Action{}
		var config string
		var enabled int

		if err := rows.Scan(&a.ID, &a.Label, &a.PluginName, &a.ActionName, &config, &enabled, &a.CreatedAt); err != nil {
			return nil, err
		}

		a.Config = json.RawMessage(config)
		a.Enabled = enabled != 0
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return actions, nil
}

// Update updates an existing action in the database.
func (r *ActionRepository) Update(a *Action) error {
	enabled := 0
	if a.Enabled {
		enabled = 1
	}

	result, err := r.db.Exec(
		`UPDATE actions SET label = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		a.Label, a.PluginName, a.ActionName, string(configOrEmpty(a.Config)), enabled, a.ID,
	)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// Delete removes an action from the database by its ID.
func (r *ActionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM actions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

func configOrEmpty(c json.RawMessage) json.RawMessage {
	if len(c) == 0 {
		return json.RawMessage("{}")
	}
	return c
}

func expectOne(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
