// Package migrations embeds and applies the authz schema. Migration
// files live under sql/ named NN_description.sql and run in version
// order inside one transaction each, recorded in schema_migrations.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migration is one versioned schema step.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

const createSchemaTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// Load reads the embedded SQL files sorted by version.
func Load() ([]Migration, error) {
	entries, err := sqlFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version, description, err := parseFilename(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		content, err := sqlFiles.ReadFile(filepath.Join("sql", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		out = append(out, Migration{
			Version:     version,
			Description: description,
			SQL:         string(content),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })

	seen := make(map[int]string, len(out))
	for _, m := range out {
		if prior, ok := seen[m.Version]; ok {
			return nil, fmt.Errorf("duplicate version %d: %s and %s", m.Version, prior, m.Description)
		}
		seen[m.Version] = m.Description
	}
	return out, nil
}

// parseFilename splits "NN_description.sql" into its parts.
func parseFilename(name string) (int, string, error) {
	name = strings.TrimSuffix(name, ".sql")
	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid format, expected NN_description.sql")
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number: %w", err)
	}
	return version, parts[1], nil
}

// Run applies every migration newer than the recorded version.
func Run(db *sql.DB) error {
	all, err := Load()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}

	if _, err := db.Exec(createSchemaTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	current, err := CurrentVersion(db)
	if err != nil {
		return err
	}

	for _, m := range all {
		if m.Version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return fmt.Errorf("migration %02d_%s: %w", m.Version, m.Description, err)
		}
	}
	return nil
}

func apply(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.Exec(m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
		m.Version, m.Description,
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// CurrentVersion returns the highest applied version, 0 when none ran.
func CurrentVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(createSchemaTable); err != nil {
		return 0, err
	}
	var version sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("get current version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
