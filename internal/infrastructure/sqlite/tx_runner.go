package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/usuarios-rbac/internal/application/provisioning"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
)

var _ provisioning.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite (immediate).
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con la conexión.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunSeed inicia una transacción, ejecuta fn con un writer atado a la tx y hace Commit o Rollback.
func (r *TxRunner) RunSeed(ctx context.Context, fn func(w repository.UsuarioWriter) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewUsuarioRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
