package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/usuarios-rbac/internal/application/auth"
	"github.com/jhoicas/usuarios-rbac/internal/application/dto"
	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
	"github.com/jhoicas/usuarios-rbac/internal/testutil"
)

var testSession = auth.SessionConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "test"}

func newAuthUC(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	repo := testutil.SeedSQLite(t, testutil.OpenSQLite(t))
	uc, err := auth.NewAuthUseCase(repo, testSession, bcrypt.MinCost, nil)
	require.NoError(t, err)
	return uc
}

// ──────────────────────────────────────────────────────────────────────────────
// Authenticate
// ──────────────────────────────────────────────────────────────────────────────

// Todos los usuarios recién aprovisionados entran con la clave por defecto.
func TestAuthenticate_ClavePorDefecto(t *testing.T) {
	uc := newAuthUC(t)
	ctx := context.Background()

	for _, rec := range testutil.Poblacion() {
		username := usuario.DeriveUsername(rec.Nombre, rec.ID)
		u, err := uc.Authenticate(ctx, username, testutil.DefaultPassword)
		require.NoError(t, err, "username=%s", username)
		assert.Equal(t, rec.ID, u.ID)
		assert.Equal(t, rec.Rol, u.Rol)
	}
}

// Username inexistente y clave incorrecta producen exactamente el mismo error.
func TestAuthenticate_MismoErrorParaUsuarioYClave(t *testing.T) {
	uc := newAuthUC(t)
	ctx := context.Background()

	_, errClave := uc.Authenticate(ctx, "jhon_doe_1", "mala")
	_, errUsuario := uc.Authenticate(ctx, "no-such-user", "mala")

	require.Error(t, errClave)
	require.Error(t, errUsuario)
	assert.True(t, errors.Is(errClave, domain.ErrInvalidCredentials))
	assert.True(t, errors.Is(errUsuario, domain.ErrInvalidCredentials))
	assert.Equal(t, errClave.Error(), errUsuario.Error())
}

func TestAuthenticate_RecortaUsernameYRechazaVacios(t *testing.T) {
	uc := newAuthUC(t)
	ctx := context.Background()

	u, err := uc.Authenticate(ctx, "  jhon_doe_1 ", testutil.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = uc.Authenticate(ctx, "", testutil.DefaultPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Authenticate(ctx, "jhon_doe_1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// Un fallo del store no se disfraza de credenciales inválidas.
func TestAuthenticate_FalloDeStore(t *testing.T) {
	uc, err := auth.NewAuthUseCase(&brokenRepo{}, testSession, bcrypt.MinCost, nil)
	require.NoError(t, err)

	_, err = uc.Authenticate(context.Background(), "jhon_doe_1", "password")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.False(t, errors.Is(err, domain.ErrInvalidCredentials))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_EmiteSesionResoluble(t *testing.T) {
	uc := newAuthUC(t)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "luis_gil_3", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "Login OK", out.Message)
	assert.Equal(t, int64(3), out.User.ID)
	assert.Equal(t, "usuario", out.User.Rol)
	require.NotEmpty(t, out.Token)

	caller, err := uc.ResolveSession(out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.Caller{ID: 3, Rol: entity.RoleUsuario}, caller)
}

func TestLogin_Fallido(t *testing.T) {
	uc := newAuthUC(t)
	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "luis_gil_3", Password: "otra"})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolveSession_TokenInvalido(t *testing.T) {
	uc := newAuthUC(t)
	_, err := uc.ResolveSession("token.invalido.aqui")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	uc := newAuthUC(t)
	ctx := context.Background()

	me, err := uc.Me(ctx, entity.Caller{ID: 2, Rol: entity.RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, "Sofía Ramírez", me.Nombre)

	_, err = uc.Me(ctx, entity.Caller{ID: 404, Rol: entity.RoleUsuario})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

type brokenRepo struct{}

func (brokenRepo) FindByUsername(context.Context, string) (*entity.Usuario, error) {
	return nil, errors.New("conexión rechazada")
}

func (brokenRepo) FindByID(context.Context, int64) (*entity.UsuarioPublico, error) {
	return nil, errors.New("conexión rechazada")
}

func (brokenRepo) ListVisible(context.Context, usuario.Scope) ([]entity.UsuarioPublico, error) {
	return nil, errors.New("conexión rechazada")
}
