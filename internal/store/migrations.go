package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Profiles table - named threshold presets for the analyzer
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			target_count INTEGER NOT NULL DEFAULT 0,
			visibility_threshold REAL NOT NULL,
			elbow_up_threshold REAL NOT NULL,
			elbow_down_threshold REAL NOT NULL,
			hip_min REAL NOT NULL,
			hip_max REAL NOT NULL,
			knee_min REAL NOT NULL,
			knee_max REAL NOT NULL,
			ready_elbow_min REAL NOT NULL,
			ready_elbow_max REAL NOT NULL,
			ready_hip_min REAL NOT NULL,
			ready_hip_max REAL NOT NULL,
			ready_knee_min REAL NOT NULL,
			ready_knee_max REAL NOT NULL,
			too_fast_ms INTEGER NOT NULL,
			elbow_not_up_enough REAL NOT NULL,
			elbow_not_down_enough REAL NOT NULL,
			hip_too_low REAL NOT NULL,
			knee_bent_too_much REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_profiles_name ON profiles(name)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
