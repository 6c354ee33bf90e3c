package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/usuarios-rbac/internal/application/dto"
	"github.com/jhoicas/usuarios-rbac/internal/application/usecase"
	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
	"github.com/jhoicas/usuarios-rbac/internal/testutil"
)

func ids(list []dto.UsuarioResponse) []int64 {
	out := []int64{}
	for _, u := range list {
		out = append(out, u.ID)
	}
	return out
}

func TestListVisible_ParticionExacta(t *testing.T) {
	uc := usecase.NewUsuarioUseCase(testutil.SeedSQLite(t, testutil.OpenSQLite(t)))
	ctx := context.Background()

	admin, err := uc.ListVisible(ctx, entity.Caller{ID: 1, Rol: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(admin))

	sup, err := uc.ListVisible(ctx, entity.Caller{ID: 2, Rol: entity.RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, ids(sup))

	usr, err := uc.ListVisible(ctx, entity.Caller{ID: 3, Rol: entity.RoleUsuario})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(usr))

	ghost, err := uc.ListVisible(ctx, entity.Caller{ID: 99, Rol: "ghost-role"})
	require.NoError(t, err)
	assert.NotNil(t, ghost)
	assert.Empty(t, ghost)
}

// Ningún objeto devuelto lleva username ni hash.
func TestListVisible_SinSecretos(t *testing.T) {
	uc := usecase.NewUsuarioUseCase(testutil.SeedSQLite(t, testutil.OpenSQLite(t)))

	list, err := uc.ListVisible(context.Background(), entity.Caller{ID: 1, Rol: entity.RoleAdmin})
	require.NoError(t, err)

	raw, err := json.Marshal(list)
	require.NoError(t, err)
	var objs []map[string]any
	require.NoError(t, json.Unmarshal(raw, &objs))
	require.Len(t, objs, 4)
	for _, o := range objs {
		assert.NotContains(t, o, "password_hash")
		assert.NotContains(t, o, "username")
		assert.ElementsMatch(t, []string{"id", "nombre", "rol", "renta_mensual"}, keys(o))
	}
}

// Rol desconocido: lista vacía sin tocar el store.
func TestListVisible_RolDesconocidoNoConsulta(t *testing.T) {
	repo := &countingRepo{}
	uc := usecase.NewUsuarioUseCase(repo)

	out, err := uc.ListVisible(context.Background(), entity.Caller{ID: 1, Rol: ""})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, repo.calls)
}

func TestListVisible_FalloDeStore(t *testing.T) {
	repo := &countingRepo{err: errors.New("disco lleno")}
	uc := usecase.NewUsuarioUseCase(repo)

	_, err := uc.ListVisible(context.Background(), entity.Caller{ID: 1, Rol: entity.RoleAdmin})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 1, repo.calls)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

type countingRepo struct {
	calls int
	err   error
}

func (r *countingRepo) FindByUsername(context.Context, string) (*entity.Usuario, error) {
	return nil, nil
}

func (r *countingRepo) FindByID(context.Context, int64) (*entity.UsuarioPublico, error) {
	return nil, nil
}

func (r *countingRepo) ListVisible(context.Context, usuario.Scope) ([]entity.UsuarioPublico, error) {
	r.calls++
	return nil, r.err
}
