package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrSeedConflict       = errors.New("conflicto al poblar usuarios")
	ErrStorage            = errors.New("fallo de almacenamiento")
)
