// Package database applies the embedded SQL migrations.
package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const trackingTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

type Migrator struct {
	pool *pgxpool.Pool
	fsys fs.FS
	dir  string
	log  *zap.Logger
}

// NewMigratorWithFS reads .sql files from dir inside fsys
func NewMigratorWithFS(pool *pgxpool.Pool, fsys fs.FS, dir string, log *zap.Logger) *Migrator {
	return &Migrator{pool: pool, fsys: fsys, dir: dir, log: log.Named("migrator")}
}

// RunMigrations applies every file not yet recorded in schema_migrations,
// in file name order. Each file and its record commit together, so a
// failed file leaves no trace and is retried on the next start.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	if _, err := m.pool.Exec(ctx, trackingTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	files, err := Files(m.fsys, m.dir)
	if err != nil {
		return err
	}

	ran := 0
	for _, name := range files {
		if applied[name] {
			continue
		}
		if err := m.apply(ctx, name); err != nil {
			return err
		}
		ran++
	}

	if ran > 0 {
		m.log.Info("migrations applied", zap.Int("count", ran))
	} else {
		m.log.Info("database is up to date")
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, name string) error {
	sql, err := fs.ReadFile(m.fsys, path.Join(m.dir, name))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}

	m.log.Info("running migration", zap.String("file", name))
	err = pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("migration %s: %w", name, err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(names))
	for _, n := range names {
		applied[n] = true
	}
	return applied, nil
}

// Files lists the .sql files of dir in the order they are applied.
// Reset scripts are never applied automatically.
func Files(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") || strings.Contains(name, "reset") {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}
