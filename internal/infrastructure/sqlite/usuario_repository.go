package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
)

var (
	_ repository.UsuarioRepository = (*UsuarioRepo)(nil)
	_ repository.UsuarioWriter     = (*UsuarioRepo)(nil)
)

// Querier lo cumplen *sql.DB y *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UsuarioRepo adaptador de la tabla usuarios (usable con db o tx).
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository construye el adaptador. Pasar db o tx.
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

const selectPublico = `SELECT id, nombre, rol, renta_mensual FROM usuarios`

// FindByUsername devuelve el registro completo (con hash) o nil si no existe.
func (r *UsuarioRepo) FindByUsername(ctx context.Context, username string) (*entity.Usuario, error) {
	query := `
		SELECT id, nombre, rol, renta_mensual, username, password_hash
		FROM usuarios WHERE username = ?`
	var u entity.Usuario
	err := r.q.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Nombre, &u.Rol, &u.RentaMensual, &u.Username, &u.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by username: %w", err)
	}
	return &u, nil
}

// FindByID devuelve el resumen público o nil si no existe.
func (r *UsuarioRepo) FindByID(ctx context.Context, id int64) (*entity.UsuarioPublico, error) {
	var u entity.UsuarioPublico
	err := r.q.QueryRowContext(ctx, selectPublico+` WHERE id = ?`, id).Scan(
		&u.ID, &u.Nombre, &u.Rol, &u.RentaMensual,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by id: %w", err)
	}
	return &u, nil
}

// ListVisible filtra en SQL según el alcance. Nunca devuelve nil.
func (r *UsuarioRepo) ListVisible(ctx context.Context, scope usuario.Scope) ([]entity.UsuarioPublico, error) {
	list := []entity.UsuarioPublico{}
	if scope.Empty() {
		return list, nil
	}

	query := selectPublico
	var args []any
	switch scope.Kind {
	case usuario.ScopeAll:
	case usuario.ScopeRoles:
		placeholders := make([]string, len(scope.Roles))
		for i, rol := range scope.RoleStrings() {
			placeholders[i] = "?"
			args = append(args, rol)
		}
		query += ` WHERE rol IN (` + strings.Join(placeholders, ", ") + `)`
	case usuario.ScopeSelf:
		query += ` WHERE id = ?`
		args = append(args, scope.SelfID)
	default:
		return list, nil
	}
	query += ` ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, args...)
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
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count usuarios: %w", err)
	}
	return n, nil
}

// Insert persiste un registro completo. Un id o username repetido es domain.ErrSeedConflict.
func (r *UsuarioRepo) Insert(ctx context.Context, u *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (id, nombre, rol, renta_mensual, username, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)`
	renta, _ := u.RentaMensual.Float64()
	_, err := r.q.ExecContext(ctx, query,
		u.ID, u.Nombre, string(u.Rol), renta, u.Username, u.PasswordHash,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: usuario %d (%s)", domain.ErrSeedConflict, u.ID, u.Username)
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// DeleteAll vacía la tabla (solo para re-seed).
func (r *UsuarioRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM usuarios`); err != nil {
		return fmt.Errorf("delete usuarios: %w", err)
	}
	return nil
}

// isConstraintViolation verifica si el error es un UNIQUE/PRIMARY KEY de SQLite.
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
