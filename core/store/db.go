package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crimedesk/config"
	"crimedesk/core/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// NewDB opens the configured database. The default deployment runs on
// sqlite; postgres is selected with db_driver=postgres and a db_url.
func NewDB(cfg *config.AppConfig, logger *utils.Logger) (*sql.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch driver {
	case "postgres", "pgx":
		if strings.TrimSpace(cfg.DBURL) == "" {
			return nil, fmt.Errorf("db_url is required for postgres")
		}
		logger.Printf("opening postgres database")
		db, err := sql.Open("pgx", cfg.DBURL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	case "", "sqlite", "sqlite3":
		path := strings.TrimSpace(cfg.DBPath)
		if path == "" {
			path = "data/crimedesk.db"
		}
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		logger.Printf("opening sqlite database at %s", path)
		db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
		if err != nil {
			return nil, err
		}
		// modernc sqlite misbehaves with concurrent writers on one file.
		db.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}
