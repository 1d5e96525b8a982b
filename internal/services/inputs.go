package services

import (
	"github.com/rafabene/accounts-api/internal/domain/entities"
	"github.com/rafabene/accounts-api/internal/domain/ports"
)

// RegisterInput representa os dados de cadastro
type RegisterInput struct {
	Username string
	Password string
	Email    *string
	FullName *string
	Role     *string
}

// LoginInput representa as credenciais de login
type LoginInput struct {
	Username string
	Password string
}

// ResetPasswordInput representa a troca de senha por username
type ResetPasswordInput struct {
	Username    string
	NewPassword string
}

// OptionalString distingue campo ausente (Set=false) de campo limpo (Set=true, Value=nil)
type OptionalString struct {
	Set   bool
	Value *string
}

// UpdateUserInput representa uma atualização parcial
type UpdateUserInput struct {
	Username *string
	Password *string
	Email    OptionalString
	FullName OptionalString
	Role     *string
}

// ListUsersInput representa a paginação solicitada
type ListUsersInput struct {
	Page  int
	Limit int
}

// AuthResult é o resultado de cadastro/login
type AuthResult struct {
	User  *entities.User
	Token *ports.IssuedToken
}

// UserPage é uma página da listagem de usuários
type UserPage struct {
	Users []*entities.User
	Total int64
	Page  int
	Limit int
}
