package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usuarios-rbac/internal/application/auth"
	"github.com/jhoicas/usuarios-rbac/internal/application/usecase"
	"github.com/jhoicas/usuarios-rbac/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	UsuarioUC *usecase.UsuarioUseCase
	Cookie    CookieConfig
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, deps.Logger)
	usuarioHandler := NewUsuarioHandler(deps.UsuarioUC, deps.Logger)
	session := SessionMiddleware(deps.AuthUC, deps.Cookie.Name)

	// Auth (público salvo /me)
	authGroup := app.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", session, authHandler.Me)

	// Usuarios (requiere sesión)
	app.Get("/usuarios", session, usuarioHandler.List)
}
