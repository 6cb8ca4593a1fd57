package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = `CREATE TABLE IF NOT EXISTS migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Migration is one versioned schema file, e.g. 001_reference_tables.sql
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationManager applies the embedded schema files to the reference database
type MigrationManager struct {
	db     *sql.DB
	files  fs.FS
	logger logrus.FieldLogger
}

// NewMigrationManager creates a migration manager over the embedded schema files
func NewMigrationManager(db *sql.DB, logger logrus.FieldLogger) *MigrationManager {
	sub, _ := fs.Sub(migrationFiles, "migrations")
	return &MigrationManager{db: db, files: sub, logger: logger}
}

// Pending returns the migrations not yet recorded, lowest version first
func (m *MigrationManager) Pending() ([]Migration, error) {
	if _, err := m.db.Exec(migrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]struct{})
	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := fs.Glob(m.files, "*.sql")
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, name := range names {
		base := strings.TrimSuffix(path.Base(name), ".sql")
		prefix, _, _ := strings.Cut(base, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil {
			m.logger.WithField("file", name).Warn("Skipping migration file with invalid name")
			continue
		}
		if _, ok := applied[version]; ok {
			continue
		}
		body, err := fs.ReadFile(m.files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		pending = append(pending, Migration{Version: version, Name: base, SQL: string(body)})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Version < pending[j].Version })
	return pending, nil
}

// RunMigrations applies every pending migration, each in its own transaction
func (m *MigrationManager) RunMigrations() error {
	pending, err := m.Pending()
	if err != nil {
		return err
	}
	for _, mg := range pending {
		err := Transaction(m.db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(mg.SQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mg.Version, err)
			}
			_, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", mg.Version, mg.Name)
			return err
		})
		if err != nil {
			return err
		}
		m.logger.WithFields(logrus.Fields{"version": mg.Version, "name": mg.Name}).Info("Applied migration")
	}
	return nil
}

// Migrate applies every pending embedded migration
func Migrate(db *sql.DB, logger logrus.FieldLogger) error {
	return NewMigrationManager(db, logger).RunMigrations()
}
