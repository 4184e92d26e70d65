package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the recognition loop
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			device INTEGER NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		)`,

		// Recognitions table - one row per recognized sign change
		`CREATE TABLE IF NOT EXISTS recognitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			frame_seq INTEGER NOT NULL,
			handedness TEXT NOT NULL,
			finger_states TEXT NOT NULL CHECK(length(finger_states) = 5),
			label TEXT NOT NULL,
			fingers_up INTEGER NOT NULL,
			box_min_x INTEGER NOT NULL,
			box_min_y INTEGER NOT NULL,
			box_max_x INTEGER NOT NULL,
			box_max_y INTEGER NOT NULL,
			index_x INTEGER NOT NULL,
			index_y INTEGER NOT NULL,
			recognized_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recognitions_session_id ON recognitions(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recognitions_label ON recognitions(label)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
