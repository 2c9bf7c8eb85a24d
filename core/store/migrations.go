package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"crimedesk/core/utils"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS stations (
		station_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		acp_id INTEGER
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		station_id INTEGER,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(station_id) REFERENCES stations(station_id) ON DELETE SET NULL
	);`,
	`CREATE TABLE IF NOT EXISTS crime_types (
		crime_type_id INTEGER PRIMARY KEY AUTOINCREMENT,
		heading TEXT NOT NULL,
		type TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS crimes (
		crime_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'MINOR',
		status TEXT NOT NULL DEFAULT 'Pending',
		station_id INTEGER NOT NULL,
		assigned_to_id INTEGER NOT NULL,
		crime_type_ids TEXT NOT NULL DEFAULT '[]',
		complainant_name TEXT NOT NULL DEFAULT '',
		complainant_phone TEXT NOT NULL DEFAULT '',
		complainant_address TEXT NOT NULL DEFAULT '',
		incident_date TIMESTAMP,
		incident_location TEXT NOT NULL DEFAULT '',
		evidence_details TEXT NOT NULL DEFAULT '',
		witness_details TEXT NOT NULL DEFAULT '',
		suspect_details TEXT NOT NULL DEFAULT '',
		case_priority TEXT NOT NULL DEFAULT 'Medium',
		resolution_days INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY(station_id) REFERENCES stations(station_id),
		FOREIGN KEY(assigned_to_id) REFERENCES users(user_id)
	);`,
	`CREATE TABLE IF NOT EXISTS escalations (
		escalation_id INTEGER PRIMARY KEY AUTOINCREMENT,
		crime_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pending',
		raised_by_id INTEGER NOT NULL,
		raised_to_id INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		raised_at TIMESTAMP NOT NULL,
		FOREIGN KEY(crime_id) REFERENCES crimes(crime_id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS reminders (
		reminder_id INTEGER PRIMARY KEY AUTOINCREMENT,
		crime_id INTEGER NOT NULL,
		reminder_type TEXT NOT NULL,
		reminder_date TIMESTAMP NOT NULL,
		FOREIGN KEY(crime_id) REFERENCES crimes(crime_id) ON DELETE CASCADE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_crimes_station ON crimes(station_id);`,
	`CREATE INDEX IF NOT EXISTS idx_crimes_status ON crimes(status);`,
	`CREATE INDEX IF NOT EXISTS idx_crimes_created ON crimes(created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_stations_acp ON stations(acp_id);`,
	`CREATE INDEX IF NOT EXISTS idx_escalations_crime ON escalations(crime_id);`,
	`CREATE INDEX IF NOT EXISTS idx_escalations_raised ON escalations(raised_at);`,
	`CREATE INDEX IF NOT EXISTS idx_reminders_crime_type ON reminders(crime_id, reminder_type);`,
}

// ApplyMigrations brings the schema up to date. Postgres goes through
// goose with the embedded migration files; sqlite applies the inline
// statement list, which is idempotent.
func ApplyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	isPG, err := isPostgresDB(ctx, db)
	if err != nil {
		return err
	}
	if isPG {
		return applyGooseMigrations(ctx, db, logger)
	}
	return applySQLiteMigrations(ctx, db, logger)
}

func applyGooseMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	logger.Printf("postgres migrations applied")
	return nil
}

func applySQLiteMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	for i, stmt := range sqliteMigrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migration #%d failed: %w", i+1, err)
		}
	}
	logger.Printf("sqlite migrations applied")
	return nil
}

func isPostgresDB(ctx context.Context, db *sql.DB) (bool, error) {
	var version string
	if err := db.QueryRowContext(ctx, `SELECT sqlite_version()`).Scan(&version); err == nil {
		return false, nil
	}
	if err := db.QueryRowContext(ctx, `SELECT version()`).Scan(&version); err != nil {
		return false, err
	}
	return true, nil
}
