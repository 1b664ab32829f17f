package database

import (
	"fmt"

	"go.uber.org/zap"
)

// Migration represents one schema migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Append only; never edit an
// applied migration.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_users",
		SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				role TEXT NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_courses",
		SQL: `
			CREATE TABLE IF NOT EXISTS courses (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				code TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				lecturer_id INTEGER NOT NULL REFERENCES users(id),
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_courses_lecturer ON courses(lecturer_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_timesheets",
		SQL: `
			CREATE TABLE IF NOT EXISTS timesheets (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				tutor_id INTEGER NOT NULL REFERENCES users(id),
				course_id INTEGER NOT NULL REFERENCES courses(id),
				week_start DATETIME NOT NULL,
				hours REAL NOT NULL,
				hourly_rate REAL NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'DRAFT',
				version INTEGER NOT NULL DEFAULT 1,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(tutor_id, course_id, week_start)
			);
			CREATE INDEX IF NOT EXISTS idx_timesheets_status ON timesheets(status);
			CREATE INDEX IF NOT EXISTS idx_timesheets_tutor ON timesheets(tutor_id);
			CREATE INDEX IF NOT EXISTS idx_timesheets_course ON timesheets(course_id);
		`,
	},
	{
		Version: 4,
		Name:    "create_approvals",
		SQL: `
			CREATE TABLE IF NOT EXISTS approvals (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				timesheet_id INTEGER NOT NULL REFERENCES timesheets(id),
				approver_id INTEGER NOT NULL REFERENCES users(id),
				action TEXT NOT NULL,
				previous_status TEXT NOT NULL,
				new_status TEXT NOT NULL,
				comment TEXT,
				timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_approvals_timesheet ON approvals(timesheet_id);
		`,
	},
}

// Migrator applies pending migrations
type Migrator struct {
	db     *DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// Run applies all pending migrations in version order, each in its own
// transaction.
func (m *Migrator) Run() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		m.logger.Info("Applying migration",
			zap.Int("version", migration.Version),
			zap.String("name", migration.Name))

		tx, err := m.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if _, err := tx.Exec(migration.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := m.db.Exec(query)
	return err
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
