package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/usuarios-rbac/internal/application/provisioning"
	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/usuario"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/sqlite"
	"github.com/jhoicas/usuarios-rbac/internal/testutil"
)

func ids(list []entity.UsuarioPublico) []int64 {
	out := []int64{}
	for _, u := range list {
		out = append(out, u.ID)
	}
	return out
}

func TestUsuarioRepo_ListVisiblePorRol(t *testing.T) {
	repo := testutil.SeedSQLite(t, testutil.OpenSQLite(t))
	ctx := context.Background()

	casos := []struct {
		caller entity.Caller
		want   []int64
	}{
		{entity.Caller{ID: 1, Rol: entity.RoleAdmin}, []int64{1, 2, 3, 4}},
		{entity.Caller{ID: 2, Rol: entity.RoleSupervisor}, []int64{2, 3, 4}},
		{entity.Caller{ID: 3, Rol: entity.RoleUsuario}, []int64{3}},
		{entity.Caller{ID: 99, Rol: "ghost-role"}, []int64{}},
		{entity.Caller{ID: 42, Rol: entity.RoleUsuario}, []int64{}},
	}
	for _, c := range casos {
		list, err := repo.ListVisible(ctx, usuario.ScopeFor(c.caller))
		require.NoError(t, err)
		require.NotNil(t, list)
		assert.Equal(t, c.want, ids(list), "caller=%+v", c.caller)
	}
}

func TestUsuarioRepo_FindByUsername(t *testing.T) {
	repo := testutil.SeedSQLite(t, testutil.OpenSQLite(t))
	ctx := context.Background()

	u, err := repo.FindByUsername(ctx, "sofia_ramirez_2")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(2), u.ID)
	assert.Equal(t, entity.RoleSupervisor, u.Rol)
	assert.NotEmpty(t, u.PasswordHash)
	assert.True(t, decimal.RequireFromString("3100").Equal(u.RentaMensual))

	missing, err := repo.FindByUsername(ctx, "no-such-user")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUsuarioRepo_FindByID(t *testing.T) {
	repo := testutil.SeedSQLite(t, testutil.OpenSQLite(t))
	ctx := context.Background()

	u, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Luis Gil", u.Nombre)

	missing, err := repo.FindByID(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// La unicidad de username e id la impone el esquema.
func TestUsuarioRepo_InsertConflicto(t *testing.T) {
	repo := sqlite.NewUsuarioRepository(testutil.OpenSQLite(t))
	ctx := context.Background()

	u := &entity.Usuario{ID: 1, Nombre: "A", Rol: entity.RoleAdmin, Username: "a_1", PasswordHash: "x"}
	require.NoError(t, repo.Insert(ctx, u))

	otroID := &entity.Usuario{ID: 2, Nombre: "A", Rol: entity.RoleAdmin, Username: "a_1", PasswordHash: "x"}
	err := repo.Insert(ctx, otroID)
	assert.True(t, errors.Is(err, domain.ErrSeedConflict), "username repetido: %v", err)

	mismoID := &entity.Usuario{ID: 1, Nombre: "B", Rol: entity.RoleAdmin, Username: "b_1", PasswordHash: "x"}
	err = repo.Insert(ctx, mismoID)
	assert.True(t, errors.Is(err, domain.ErrSeedConflict), "id repetido: %v", err)
}

// Varios arranques simultáneos sobre un archivo nuevo: todos abren y migran,
// y entre todos producen un único seed limpio.
func TestSeedIfEmpty_ArranquesConcurrentes(t *testing.T) {
	const arranques = 6
	path := filepath.Join(t.TempDir(), "usuarios.db")
	ctx := context.Background()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
		errs  []error
		dbs   []*sql.DB
	)
	for i := 0; i < arranques; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := sqlite.Open(ctx, path)
			n := 0
			if err == nil {
				seeder := provisioning.NewSeeder(sqlite.NewTxRunner(d), testutil.FastHasher, testutil.DefaultPassword, nil)
				n, err = seeder.SeedIfEmpty(ctx, testutil.Poblacion())
			}
			mu.Lock()
			defer mu.Unlock()
			if d != nil {
				dbs = append(dbs, d)
			}
			total += n
			if err != nil {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()
	t.Cleanup(func() {
		for _, d := range dbs {
			_ = d.Close()
		}
	})

	require.Empty(t, errs)
	require.Len(t, dbs, arranques)
	assert.Equal(t, 4, total, "solo un arranque inserta")

	count, err := sqlite.NewUsuarioRepository(dbs[0]).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	var migraciones int
	require.NoError(t, dbs[0].QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&migraciones))
	assert.Equal(t, 1, migraciones)
}

func TestOpen_MigracionesIdempotentes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usuarios.db")
	ctx := context.Background()

	d, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, d))
	require.NoError(t, d.Close())

	d, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer d.Close()

	var n int
	require.NoError(t, d.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}
