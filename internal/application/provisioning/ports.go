package provisioning

import (
	"context"

	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, con un writer atado a ella.
// Si fn devuelve error la transacción se revierte y la tabla queda como estaba.
type TxRunner interface {
	RunSeed(ctx context.Context, fn func(w repository.UsuarioWriter) error) error
}

// PasswordHasher genera un hash salado e independiente en cada llamada.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}
