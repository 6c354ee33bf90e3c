package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/usuarios-rbac/internal/application/dto"
	"github.com/jhoicas/usuarios-rbac/internal/domain"
	"github.com/jhoicas/usuarios-rbac/internal/domain/entity"
	"github.com/jhoicas/usuarios-rbac/internal/domain/repository"
	"github.com/jhoicas/usuarios-rbac/pkg/jwt"
	"github.com/jhoicas/usuarios-rbac/pkg/logger"
)

// SessionConfig configuración para la emisión del token de sesión.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	repo      repository.UsuarioRepository
	session   SessionConfig
	log       *logger.Logger
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth. bcryptCost debe coincidir con el
// usado al aprovisionar para que un username inexistente tarde lo mismo que una clave mala.
func NewAuthUseCase(repo repository.UsuarioRepository, session SessionConfig, bcryptCost int, log *logger.Logger) (*AuthUseCase, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("usuario-inexistente"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash de referencia: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{repo: repo, session: session, log: log.Component("auth"), dummyHash: dummy}, nil
}

// Authenticate valida username y clave. Username inexistente y clave incorrecta
// devuelven el mismo domain.ErrInvalidCredentials. Solo por aquí un Usuario
// completo se convierte en su proyección pública.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*entity.UsuarioPublico, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			// Hash corrupto en la DB: para el cliente sigue siendo un login fallido.
			uc.log.Error().Err(err).Int64("user_id", user.ID).Msg("hash almacenado ilegible")
		}
		return nil, domain.ErrInvalidCredentials
	}
	return user.Public(), nil
}

// Login autentica y emite el token de sesión con (id, rol).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.Authenticate(ctx, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			uc.log.Info().Msg("login rechazado")
		}
		return nil, err
	}
	token, err := jwt.Generate(uc.session.Secret, user.ID, string(user.Rol), uc.session.Issuer, uc.session.TTL)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("rol", string(user.Rol)).Msg("login OK")
	return &dto.LoginResponse{
		Message: "Login OK",
		User:    dto.ToUsuarioResponse(*user),
		Token:   token,
	}, nil
}

// ResolveSession valida el token y devuelve la identidad del llamador.
func (uc *AuthUseCase) ResolveSession(token string) (entity.Caller, error) {
	id, role, err := jwt.Parse(uc.session.Secret, token)
	if err != nil {
		return entity.Caller{}, domain.ErrUnauthorized
	}
	return entity.Caller{ID: id, Rol: entity.Role(role)}, nil
}

// Me devuelve el perfil público del llamador. domain.ErrUserNotFound si su registro ya no existe.
func (uc *AuthUseCase) Me(ctx context.Context, caller entity.Caller) (*dto.UsuarioResponse, error) {
	user, err := uc.repo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	out := dto.ToUsuarioResponse(*user)
	return &out, nil
}
