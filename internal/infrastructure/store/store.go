// Package store abre el almacén de credenciales según DB_DRIVER y aplica las migraciones.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/usuarios-rbac/internal/application/provisioning"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/postgres"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/sqlite"
	"github.com/jhoicas/usuarios-rbac/pkg/config"
)

// Store lectura de usuarios + transacción de aprovisionamiento sobre el mismo backend.
type Store struct {
	Driver   string
	Usuarios repository.UsuarioRepository
	Tx       provisioning.TxRunner
	close    func()
}

// Close libera la conexión o el pool.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open conecta con el driver configurado y deja el esquema migrado.
func Open(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Driver:   cfg.Driver,
			Usuarios: postgres.NewUsuarioRepository(pool),
			Tx:       postgres.NewTxRunner(pool),
			close:    pool.Close,
		}, nil
	case config.DriverSQLite, "":
		d, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:   config.DriverSQLite,
			Usuarios: sqlite.NewUsuarioRepository(d),
			Tx:       sqlite.NewTxRunner(d),
			close:    func() { _ = d.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("store: driver %q no soportado", cfg.Driver)
	}
}
