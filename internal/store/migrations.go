package store

import (
	"fmt"

	"go.uber.org/zap"
)

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		db.log.Debug("schema migrated", zap.Int("from", version), zap.Int("to", currentSchemaVersion))
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			description       TEXT,
			priority          TEXT NOT NULL DEFAULT 'medium',
			category          TEXT NOT NULL DEFAULT 'today',
			due_date          TEXT,
			estimated_minutes INTEGER,
			completed         BOOLEAN NOT NULL DEFAULT false,
			sort_order        INTEGER NOT NULL DEFAULT 0,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS focus_sessions (
			id               TEXT PRIMARY KEY,
			duration_minutes INTEGER NOT NULL,
			session_type     TEXT NOT NULL DEFAULT 'pomodoro',
			completed        BOOLEAN NOT NULL DEFAULT false,
			started_at       TEXT NOT NULL,
			completed_at     TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS dopamine_logs (
			id                  TEXT PRIMARY KEY,
			log_date            TEXT NOT NULL UNIQUE,
			time_spent_minutes  INTEGER NOT NULL DEFAULT 0,
			daily_limit_minutes INTEGER NOT NULL DEFAULT 60,
			notes               TEXT,
			created_at          TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS health_logs (
			id                 TEXT PRIMARY KEY,
			log_date           TEXT NOT NULL UNIQUE,
			water_glasses      INTEGER NOT NULL DEFAULT 0,
			stretching_minutes INTEGER NOT NULL DEFAULT 0,
			exercise_minutes   INTEGER NOT NULL DEFAULT 0,
			exercise_type      TEXT,
			notes              TEXT,
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS books (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			total_pages      INTEGER NOT NULL,
			current_page     INTEGER NOT NULL DEFAULT 0,
			daily_goal_pages INTEGER NOT NULL DEFAULT 0,
			completed        BOOLEAN NOT NULL DEFAULT false,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS finances (
			id               TEXT PRIMARY KEY,
			amount           REAL NOT NULL,
			transaction_type TEXT NOT NULL,
			category         TEXT,
			description      TEXT,
			transaction_date TEXT NOT NULL,
			created_at       TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS gamification (
			id               INTEGER PRIMARY KEY CHECK (id = 1),
			xp               INTEGER NOT NULL DEFAULT 0,
			level            INTEGER NOT NULL DEFAULT 1,
			streak_days      INTEGER NOT NULL DEFAULT 0,
			last_active_date TEXT,
			updated_at       TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category)`,
		`CREATE INDEX IF NOT EXISTS idx_focus_started ON focus_sessions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_finances_date ON finances(transaction_date)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
