package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
)

// UsuarioResponse salida pública de un usuario (sin username ni hash).
type UsuarioResponse struct {
	ID           int64           `json:"id"`
	Nombre       string          `json:"nombre"`
	Rol          string          `json:"rol"`
	RentaMensual decimal.Decimal `json:"renta_mensual"`
}

// MarshalJSON emite renta_mensual como número JSON, no como string.
func (r UsuarioResponse) MarshalJSON() ([]byte, error) {
	type alias UsuarioResponse
	return json.Marshal(struct {
		alias
		RentaMensual json.Number `json:"renta_mensual"`
	}{
		alias:        alias(r),
		RentaMensual: json.Number(r.RentaMensual.String()),
	})
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse salida del login: usuario autenticado y token de sesión.
// El token no se serializa; el handler lo entrega en una cookie HTTP-only.
type LoginResponse struct {
	Message string          `json:"message"`
	User    UsuarioResponse `json:"user"`
	Token   string          `json:"-"`
}

// SeedUsuario formato de cada registro del archivo semilla (JSON o YAML).
type SeedUsuario struct {
	ID           int64           `json:"id" yaml:"id"`
	Nombre       string          `json:"nombre" yaml:"nombre"`
	Rol          string          `json:"rol" yaml:"rol"`
	RentaMensual decimal.Decimal `json:"renta_mensual" yaml:"renta_mensual"`
}

// ToEntity convierte al registro semilla del dominio.
func (s SeedUsuario) ToEntity() entity.SeedRecord {
	return entity.SeedRecord{
		ID:           s.ID,
		Nombre:       s.Nombre,
		Rol:          entity.Role(s.Rol),
		RentaMensual: s.RentaMensual,
	}
}

// ToUsuarioResponse proyecta un resumen del dominio a la salida HTTP.
func ToUsuarioResponse(u entity.UsuarioPublico) UsuarioResponse {
	return UsuarioResponse{
		ID:           u.ID,
		Nombre:       u.Nombre,
		Rol:          string(u.Rol),
		RentaMensual: u.RentaMensual,
	}
}
