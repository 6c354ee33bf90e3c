// Package provisioning crea las cuentas iniciales a partir de los registros semilla.
package provisioning

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
	"github.com/jhoicas/usuarios-rbac/pkg/logger"
)

// Seeder puebla la tabla usuarios una sola vez, asignando username y clave inicial.
type Seeder struct {
	tx              TxRunner
	hasher          PasswordHasher
	defaultPassword string
	log             *logger.Logger
}

// NewSeeder construye el seeder. defaultPassword es la clave en texto plano que
// reciben todas las cuentas; cada una se hashea con su propio salt.
func NewSeeder(tx TxRunner, hasher PasswordHasher, defaultPassword string, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{tx: tx, hasher: hasher, defaultPassword: defaultPassword, log: log.Component("seeder")}
}

// SeedIfEmpty inserta todos los registros si la tabla está vacía y devuelve cuántos
// insertó. Si ya hay al menos un registro no hace nada (devuelve 0).
// Es todo o nada: ante cualquier error la tabla queda vacía.
func (s *Seeder) SeedIfEmpty(ctx context.Context, records []entity.SeedRecord) (int, error) {
	inserted := 0
	err := s.tx.RunSeed(ctx, func(w repository.UsuarioWriter) error {
		count, err := w.Count(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		if count > 0 {
			s.log.Debug().Int("existentes", count).Msg("tabla usuarios ya poblada, seed omitido")
			return nil
		}
		inserted, err = s.insertAll(ctx, w, records)
		return err
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.log.Info().Int("insertados", inserted).Msg("DB poblada")
	}
	return inserted, nil
}

// Reseed borra todos los registros y vuelve a poblar en la misma transacción
// (regenera credenciales). Pensado para entornos de prueba.
func (s *Seeder) Reseed(ctx context.Context, records []entity.SeedRecord) (int, error) {
	inserted := 0
	err := s.tx.RunSeed(ctx, func(w repository.UsuarioWriter) error {
		if err := w.DeleteAll(ctx); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		var err error
		inserted, err = s.insertAll(ctx, w, records)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Warn().Int("insertados", inserted).Msg("DB re-poblada, credenciales regeneradas")
	return inserted, nil
}

func (s *Seeder) insertAll(ctx context.Context, w repository.UsuarioWriter, records []entity.SeedRecord) (int, error) {
	if err := validateRecords(records); err != nil {
		return 0, err
	}
	for _, rec := range records {
		hash, err := s.hasher.Hash(s.defaultPassword)
		if err != nil {
			return 0, err
		}
		u := &entity.Usuario{
			ID:           rec.ID,
			Nombre:       rec.Nombre,
			Rol:          rec.Rol,
			RentaMensual: rec.RentaMensual,
			Username:     usuario.DeriveUsername(rec.Nombre, rec.ID),
			PasswordHash: hash,
		}
		if err := w.Insert(ctx, u); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}

// validateRecords rechaza el lote completo antes de escribir nada.
func validateRecords(records []entity.SeedRecord) error {
	seen := make(map[int64]struct{}, len(records))
	for i, rec := range records {
		switch {
		case rec.ID <= 0:
			return fmt.Errorf("%w: registro %d: id debe ser positivo", domain.ErrInvalidInput, i)
		case strings.TrimSpace(rec.Nombre) == "":
			return fmt.Errorf("%w: registro %d: nombre vacío", domain.ErrInvalidInput, i)
		case !rec.Rol.Valid():
			return fmt.Errorf("%w: registro %d: rol %q desconocido", domain.ErrInvalidInput, i, rec.Rol)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: id %d repetido", domain.ErrSeedConflict, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return nil
}
