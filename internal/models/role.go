package models

// Role identifies the caller's access level within the system.
type Role string

const (
	RoleAdminGeral Role = "admin_geral"
	RoleGestor     Role = "gestor"
	RolePontoFocal Role = "ponto_focal"
	RoleUsuario    Role = "usuario"
)

// ParseRole maps a config/claims string to a Role. Unknown values fall back
// to the least privileged role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdminGeral, RoleGestor, RolePontoFocal, RoleUsuario:
		return Role(s)
	default:
		return RoleUsuario
	}
}

// CanViewConfidential reports whether the role may see confidential person
// records and their media. This is the single capability predicate used by
// both the search visibility filter and single-record access checks.
func (r Role) CanViewConfidential() bool {
	switch r {
	case RoleAdminGeral, RoleGestor, RolePontoFocal:
		return true
	default:
		return false
	}
}
