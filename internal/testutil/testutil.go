// Package testutil ayudas compartidas por los tests: SQLite en memoria y población de ejemplo.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/usuarios-rbac/internal/application/provisioning"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/infrastructure/sqlite"
)

// DefaultPassword clave con la que se aprovisionan los usuarios de prueba.
const DefaultPassword = "password"

// FastHasher bcrypt con costo mínimo para que los tests no tarden.
var FastHasher = provisioning.BcryptHasher{Cost: bcrypt.MinCost}

// OpenSQLite abre una base SQLite en memoria, única por llamada, con migraciones aplicadas.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sqlite.Open(context.Background(), "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// Poblacion 1 admin (id=1), 1 supervisor (id=2) y 2 usuarios (id=3, id=4).
func Poblacion() []entity.SeedRecord {
	return []entity.SeedRecord{
		{ID: 1, Nombre: "Jhon Doe", Rol: entity.RoleAdmin, RentaMensual: decimal.RequireFromString("5200.50")},
		{ID: 2, Nombre: "Sofía Ramírez", Rol: entity.RoleSupervisor, RentaMensual: decimal.RequireFromString("3100")},
		{ID: 3, Nombre: "Luis Gil", Rol: entity.RoleUsuario, RentaMensual: decimal.RequireFromString("1200.75")},
		{ID: 4, Nombre: "Ana María Peña", Rol: entity.RoleUsuario, RentaMensual: decimal.RequireFromString("980")},
	}
}

// SeedSQLite aprovisiona Poblacion() en d y devuelve el repositorio de lectura.
func SeedSQLite(t *testing.T, d *sql.DB) *sqlite.UsuarioRepo {
	t.Helper()
	seeder := provisioning.NewSeeder(sqlite.NewTxRunner(d), FastHasher, DefaultPassword, nil)
	n, err := seeder.SeedIfEmpty(context.Background(), Poblacion())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(Poblacion()) {
		t.Fatalf("seed: insertados %d, esperados %d", n, len(Poblacion()))
	}
	return sqlite.NewUsuarioRepository(d)
}
