package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/usuarios-rbac/internal/application/dto"
	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
)

// UsuarioUseCase aplica la política de visibilidad sobre el listado de usuarios.
type UsuarioUseCase struct {
	repo repository.UsuarioRepository
}

// NewUsuarioUseCase construye el caso de uso con el puerto de persistencia.
func NewUsuarioUseCase(repo repository.UsuarioRepository) *UsuarioUseCase {
	return &UsuarioUseCase{repo: repo}
}

// ListVisible devuelve los usuarios que el rol del llamador puede ver, ordenados por id.
// Un rol desconocido no es error: devuelve una lista vacía sin consultar el store.
func (uc *UsuarioUseCase) ListVisible(ctx context.Context, caller entity.Caller) ([]dto.UsuarioResponse, error) {
	scope := usuario.ScopeFor(caller)
	out := []dto.UsuarioResponse{}
	if scope.Empty() {
		return out, nil
	}
	list, err := uc.repo.ListVisible(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	for _, u := range list {
		out = append(out, dto.ToUsuarioResponse(u))
	}
	return out, nil
}
