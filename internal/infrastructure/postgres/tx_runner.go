package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/usuarios-rbac/internal/application/provisioning"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
)

var _ provisioning.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSeed inicia una transacción con la tabla usuarios bloqueada en modo EXCLUSIVE
// (las lecturas siguen, otro seed espera), ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) RunSeed(ctx context.Context, fn func(w repository.UsuarioWriter) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `LOCK TABLE usuarios IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock usuarios: %w", err)
	}
	if err := fn(NewUsuarioRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
