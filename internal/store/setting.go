package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
)

// Setting keys.
const (
	SettingTraining = "training"
)

// SettingRepository reads and writes key/value settings.
type SettingRepository struct {
	db querier
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingRepository {
	return &SettingRepository{db: s.db}
}

// Get returns the value stored under key, or ErrNotFound.
func (r *SettingRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

// Set stores value under key.
func (r *SettingRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetBool returns the boolean stored under key, or def when it is unset.
func (r *SettingRepository) GetBool(key string, def bool) (bool, error) {
	v, err := r.Get(key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return strconv.ParseBool(v)
}

// SetBool stores a boolean under key.
func (r *SettingRepository) SetBool(key string, value bool) error {
	return r.Set(key, strconv.FormatBool(value))
}

// TrainingMode returns the persisted training toggle, or def when none was stored.
func (s *Store) TrainingMode(_ context.Context, def bool) (bool, error) {
	return s.Settings().GetBool(SettingTraining, def)
}

// SetTrainingMode persists the training toggle.
func (s *Store) SetTrainingMode(_ context.Context, on bool) error {
	return s.Settings().SetBool(SettingTraining, on)
}
