// Package sqlite implementa el almacén de credenciales sobre SQLite (mattn/go-sqlite3).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open abre (o crea) la base SQLite y aplica las migraciones pendientes.
//
// Las transacciones se abren con _txlock=immediate: el seed toma el lock de
// escritura antes de contar filas, así dos arranques simultáneos no se intercalan.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "prueba.db"
	}
	d, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	if strings.Contains(path, "mode=memory") {
		// Con cache compartida las conexiones concurrentes se bloquean entre sí (SQLITE_LOCKED).
		d.SetMaxOpenConns(1)
	}
	if err := d.PingContext(ctx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// journal_mode no aplica en memoria; se ignora el error.
	_, _ = d.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	if err := Migrate(ctx, d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func dsn(path string) string {
	params := "_txlock=immediate&_busy_timeout=5000&_foreign_keys=1"
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// Migrate aplica en orden los .sql embebidos que aún no figuran en schema_migrations.
func Migrate(ctx context.Context, d *sql.DB) error {
	if _, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
	)`); err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		if err := applyMigration(ctx, d, name); err != nil {
			return err
		}
	}
	return nil
}

// applyMigration consulta y aplica dentro de la misma transacción immediate: con el
// lock de escritura tomado, un segundo proceso espera y ve la migración ya registrada.
func applyMigration(ctx context.Context, d *sql.DB, name string) error {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migración %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	var applied int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name).Scan(&applied); err != nil {
		return fmt.Errorf("consultar migración %s: %w", name, err)
	}
	if applied > 0 {
		return nil
	}
	text, err := migrationsFS.ReadFile(name)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, string(text)); err != nil {
		return fmt.Errorf("migración %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("registrar migración %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migración %s: %w", name, err)
	}
	return nil
}
