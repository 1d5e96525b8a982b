package entities

import (
	"time"
)

// LifecycleState é o estado de um registro de identidade
type LifecycleState int

const (
	StateActive LifecycleState = iota
	StateDeleted
)

// Lifecycle representa o ciclo de vida {Active, Deleted(at)} de um usuário.
// A coluna nullable deleted_at é traduzida para este tipo na borda do repositório.
type Lifecycle struct {
	State     LifecycleState
	DeletedAt time.Time
}

// Active retorna o ciclo de vida de um registro ativo
func Active() Lifecycle {
	return Lifecycle{State: StateActive}
}

// Deleted retorna o ciclo de vida de um registro removido (soft delete) em at
func Deleted(at time.Time) Lifecycle {
	return Lifecycle{State: StateDeleted, DeletedAt: at}
}

// User representa um usuário do sistema
type User struct {
	ID           string
	Username     string
	Email        *string
	FullName     *string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lifecycle    Lifecycle
}

// IsDeleted verifica se o usuário foi deletado (soft delete)
func (u *User) IsDeleted() bool {
	return u.Lifecycle.State == StateDeleted
}

// Principal é a identidade extraída de um token verificado
type Principal struct {
	UserID string
	Role   Role
}

// Can verifica se o principal tem a permissão informada
func (p *Principal) Can(permission Permission) bool {
	if p == nil {
		return false
	}
	return p.Role.HasPermission(permission)
}
