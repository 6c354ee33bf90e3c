package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/usuarios-rbac/internal/application/dto"
	"github.com/jhoicas/usuarios-rbac/internal/application/usecase"
	"github.com/jhoicas/usuarios-rbac/pkg/logger"
)

// UsuarioHandler expone el listado de usuarios filtrado por rol (protegido).
type UsuarioHandler struct {
	uc  *usecase.UsuarioUseCase
	log *logger.Logger
}

// NewUsuarioHandler construye el handler.
func NewUsuarioHandler(uc *usecase.UsuarioUseCase, log *logger.Logger) *UsuarioHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UsuarioHandler{uc: uc, log: log.Component("http.usuarios")}
}

// List godoc
// @Summary      Listar usuarios visibles según el rol de la sesión
// @Tags         usuarios
// @Produce      json
// @Success      200  {array}   dto.UsuarioResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /usuarios [get]
func (h *UsuarioHandler) List(c *fiber.Ctx) error {
	caller, ok := GetCaller(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NOT_AUTHENTICATED", Message: "no autenticado"})
	}
	out, err := h.uc.ListVisible(c.UserContext(), caller)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", caller.ID).Msg("listar usuarios")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	return c.JSON(out)
}
