package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
)

var (
	_ repository.UsuarioRepository = (*UsuarioRepo)(nil)
	_ repository.UsuarioWriter     = (*UsuarioRepo)(nil)
)

// UsuarioRepo implementación de los puertos de usuarios sobre PostgreSQL (usable con pool o tx).
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

// FindByUsername obtiene el registro completo (con hash) por username.
func (r *UsuarioRepo) FindByUsername(ctx context.Context, username string) (*entity.Usuario, error) {
	query := `
		SELECT id, nombre, rol, renta_mensual, username, password_hash
		FROM usuarios WHERE username = $1`
	var u entity.Usuario
	err := r.q.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Nombre, &u.Rol, &u.RentaMensual, &u.Username, &u.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by username: %w", err)
	}
	return &u, nil
}

// FindByID obtiene el resumen público por id.
func (r *UsuarioRepo) FindByID(ctx context.Context, id int64) (*entity.UsuarioPublico, error) {
	query := `SELECT id, nombre, rol, renta_mensual FROM usuarios WHERE id = $1`
	var u entity.UsuarioPublico
	err := r.q.QueryRow(ctx, query, id).Scan(&u.ID, &u.Nombre, &u.Rol, &u.RentaMensual)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by id: %w", err)
	}
	return &u, nil
}

// ListVisible filtra según el alcance, ordenado por id. Nunca devuelve nil.
func (r *UsuarioRepo) ListVisible(ctx context.Context, scope usuario.Scope) ([]entity.UsuarioPublico, error) {
	list := []entity.UsuarioPublico{}
	if scope.Empty() {
		return list, nil
	}

	var (
		rows pgx.Rows
		err  error
	)
	switch scope.Kind {
	case usuario.ScopeAll:
		rows, err = r.q.Query(ctx, `
			SELECT id, nombre, rol, renta_mensual FROM usuarios ORDER BY id`)
	case usuario.ScopeRoles:
		rows, err = r.q.Query(ctx, `
			SELECT id, nombre, rol, renta_mensual FROM usuarios
			WHERE rol = ANY($1) ORDER BY id`, scope.RoleStrings())
	case usuario.ScopeSelf:
		rows, err = r.q.Query(ctx, `
			SELECT id, nombre, rol, renta_mensual FROM usuarios
			WHERE id = $1`, scope.SelfID)
	default:
		return list, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u entity.UsuarioPublico
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Rol, &u.RentaMensual); err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Count número de registros.
func (r *UsuarioRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count usuarios: %w", err)
	}
	return n, nil
}

// Insert persiste un registro completo. id o username repetidos son domain.ErrSeedConflict.
func (r *UsuarioRepo) Insert(ctx context.Context, u *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (id, nombre, rol, renta_mensual, username, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Nombre, string(u.Rol), u.RentaMensual, u.Username, u.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: usuario %d (%s)", domain.ErrSeedConflict, u.ID, u.Username)
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// DeleteAll vacía la tabla (solo para re-seed).
func (r *UsuarioRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM usuarios`); err != nil {
		return fmt.Errorf("delete usuarios: %w", err)
	}
	return nil
}
