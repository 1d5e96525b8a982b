package entities

// Role representa o papel de um usuário no sistema
type Role string

const (
	RoleUser       Role = "user"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// DefaultRole é atribuído quando o cadastro não informa um papel
const DefaultRole = RoleUser

// Roles lista a enumeração fechada de papéis, na ordem usada em mensagens
var Roles = []Role{RoleUser, RoleSuperAdmin, RoleAdmin, RoleStaff}

// Permission representa uma permissão específica
type Permission string

const (
	PermissionUserRead          Permission = "users.read"
	PermissionUserWrite         Permission = "users.write"
	PermissionUserDelete        Permission = "users.delete"
	PermissionUserRoleWrite     Permission = "users.roles.write"
	PermissionUserPasswordReset Permission = "users.password.reset"
)

// RolePermissions mapeia roles para suas permissões
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionUserRead,
		PermissionUserWrite,
		PermissionUserDelete,
		PermissionUserRoleWrite,
		PermissionUserPasswordReset,
	},
	RoleAdmin: {
		PermissionUserRead,
		PermissionUserWrite,
		PermissionUserDelete,
		PermissionUserRoleWrite,
		PermissionUserPasswordReset,
	},
	RoleStaff: {
		PermissionUserRead,
		PermissionUserWrite,
	},
	RoleUser: {
		PermissionUserRead,
	},
}

// ParseRole converte uma string em Role, recusando valores fora da enumeração
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if !r.IsValid() {
		return "", false
	}
	return r, true
}

// IsValid verifica se o role pertence à enumeração fechada
func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

// HasPermission verifica se role tem permissão
func (r Role) HasPermission(permission Permission) bool {
	for _, p := range RolePermissions[r] {
		if p == permission {
			return true
		}
	}
	return false
}

// String implementa fmt.Stringer
func (r Role) String() string {
	return string(r)
}
