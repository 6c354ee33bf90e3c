package usuario

import "github.com/jhoicas/usuarios-rbac/internal/domain/entity"

// ScopeKind tipo de alcance de visibilidad.
type ScopeKind int

const (
	// ScopeNone no ve nada (deny-by-default).
	ScopeNone ScopeKind = iota
	// ScopeAll ve todos los registros.
	ScopeAll
	// ScopeRoles ve los registros cuyo rol esté en Roles.
	ScopeRoles
	// ScopeSelf ve únicamente el registro con id SelfID.
	ScopeSelf
)

// Scope alcance de visibilidad calculado para un Caller. Los stores lo traducen a SQL.
type Scope struct {
	Kind   ScopeKind
	Roles  []entity.Role
	SelfID int64
}

// ScopeFor aplica las reglas de visibilidad por rol. Es total: cualquier rol,
// incluido vacío o desconocido, produce un Scope válido.
//
//   - admin: todos
//   - supervisor: supervisores y usuarios, nunca admins
//   - usuario: solo su propio registro
//   - otro: ninguno
func ScopeFor(caller entity.Caller) Scope {
	switch caller.Rol {
	case entity.RoleAdmin:
		return Scope{Kind: ScopeAll}
	case entity.RoleSupervisor:
		return Scope{Kind: ScopeRoles, Roles: []entity.Role{entity.RoleSupervisor, entity.RoleUsuario}}
	case entity.RoleUsuario:
		return Scope{Kind: ScopeSelf, SelfID: caller.ID}
	default:
		return Scope{Kind: ScopeNone}
	}
}

// Allows es la forma en memoria del mismo filtro.
func (s Scope) Allows(u entity.UsuarioPublico) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeRoles:
		for _, r := range s.Roles {
			if u.Rol == r {
				return true
			}
		}
		return false
	case ScopeSelf:
		return u.ID == s.SelfID
	default:
		return false
	}
}

// Empty informa si el alcance no puede devolver registros.
func (s Scope) Empty() bool {
	return s.Kind == ScopeNone || (s.Kind == ScopeRoles && len(s.Roles) == 0)
}

// RoleStrings devuelve los roles del alcance como []string (para parámetros SQL).
func (s Scope) RoleStrings() []string {
	out := make([]string, len(s.Roles))
	for i, r := range s.Roles {
		out[i] = string(r)
	}
	return out
}
