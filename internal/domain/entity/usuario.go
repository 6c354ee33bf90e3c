package entity

import "github.com/shopspring/decimal"

// Role rol de un usuario; determina qué registros puede ver.
type Role string

// Roles válidos para Usuario.
const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleUsuario    Role = "usuario"
)

// Valid informa si el rol es uno de los tres roles fijos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleUsuario:
		return true
	}
	return false
}

// Usuario registro completo tal como se persiste, incluido el hash de la clave.
// Nunca sale del núcleo: para exponerlo se proyecta con Public.
type Usuario struct {
	ID           int64
	Nombre       string
	Rol          Role
	RentaMensual decimal.Decimal
	Username     string
	PasswordHash string // bcrypt, nunca texto plano
}

// Public devuelve la proyección sin credenciales.
func (u *Usuario) Public() *UsuarioPublico {
	if u == nil {
		return nil
	}
	return &UsuarioPublico{
		ID:           u.ID,
		Nombre:       u.Nombre,
		Rol:          u.Rol,
		RentaMensual: u.RentaMensual,
	}
}

// UsuarioPublico resumen seguro para exponer (sin username ni hash).
type UsuarioPublico struct {
	ID           int64
	Nombre       string
	Rol          Role
	RentaMensual decimal.Decimal
}

// SeedRecord datos iniciales de un usuario, todavía sin credenciales.
type SeedRecord struct {
	ID           int64
	Nombre       string
	Rol          Role
	RentaMensual decimal.Decimal
}

// Caller identidad de quien hace la petición, resuelta desde la sesión.
type Caller struct {
	ID  int64
	Rol Role
}
