package repository

import (
	"context"

	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
)

// UsuarioRepository define el puerto de lectura sobre la tabla usuarios (DIP).
// Las búsquedas devuelven (nil, nil) si el registro no existe.
type UsuarioRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Usuario, error)
	FindByID(ctx context.Context, id int64) (*entity.UsuarioPublico, error)
	// ListVisible devuelve los registros dentro del alcance, ordenados por id.
	ListVisible(ctx context.Context, scope usuario.Scope) ([]entity.UsuarioPublico, error)
}

// UsuarioWriter operaciones de escritura; solo se obtiene dentro de una transacción de seed.
type UsuarioWriter interface {
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, u *entity.Usuario) error
	DeleteAll(ctx context.Context) error
}
