package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Label→command mappings, one row per label per pipeline.
		`CREATE TABLE IF NOT EXISTS mappings (
			pipeline TEXT NOT NULL CHECK(pipeline IN ('voice', 'gesture')),
			label TEXT NOT NULL,
			actuator TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			emergency INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (pipeline, label)
		)`,

		// Command history - every wire-bound outcome for the monitor.
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			at DATETIME NOT NULL,
			producer TEXT NOT NULL,
			status TEXT NOT NULL,
			wire TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_history_at ON history(at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}
