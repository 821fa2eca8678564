package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Letters table - one row per trained label
		`CREATE TABLE IF NOT EXISTS letters (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL UNIQUE,
			states_x INTEGER NOT NULL,
			states_y INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Letter examples table - raw velocity sequences, one row per training example
		`CREATE TABLE IF NOT EXISTS letter_examples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			letter_id TEXT NOT NULL REFERENCES letters(id) ON DELETE CASCADE,
			sample_index INTEGER NOT NULL,
			x_data TEXT NOT NULL,
			y_data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Letter models table - trained parameters for both axes
		`CREATE TABLE IF NOT EXISTS letter_models (
			letter_id TEXT PRIMARY KEY REFERENCES letters(id) ON DELETE CASCADE,
			x_params TEXT NOT NULL,
			y_params TEXT NOT NULL,
			trained_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Actions table - plugin to run when a label is recognised
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL UNIQUE,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_letter_examples_letter_id ON letter_examples(letter_id, sample_index)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_label ON actions(label)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
