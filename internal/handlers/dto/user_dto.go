package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	"github.com/rafabene/accounts-api/internal/services"
)

// RegisterRequest representa a requisição de cadastro (também usada em POST /users).
// As regras de validação variam por geração e são aplicadas pelo serviço.
type RegisterRequest struct {
	Username string  `json:"username" example:"alice"`
	Password string  `json:"password" example:"secret123"`
	Email    *string `json:"email,omitempty" example:"alice@example.com"`
	FullName *string `json:"fullname,omitempty" example:"Alice Doe"`
	Role     *string `json:"role,omitempty" example:"user"`
}

// ToInput converte para o input do serviço
func (r RegisterRequest) ToInput() services.RegisterInput {
	return services.RegisterInput{
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
		FullName: r.FullName,
		Role:     r.Role,
	}
}

// LoginRequest representa as credenciais de login
type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret123"`
}

// ResetPasswordRequest representa a troca de senha
type ResetPasswordRequest struct {
	Username    string `json:"username" example:"alice"`
	NewPassword string `json:"newPassword" example:"newsecret"`
}

// NullableString distingue campo ausente de campo enviado como null
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON só é chamado quando o campo está presente no corpo
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// UpdateUserRequest representa a requisição de atualização parcial
type UpdateUserRequest struct {
	Username *string        `json:"username,omitempty"`
	Password *string        `json:"password,omitempty"`
	Email    NullableString `json:"email" swaggertype:"string"`
	FullName NullableString `json:"fullname" swaggertype:"string"`
	Role     *string        `json:"role,omitempty"`
}

// ToInput converte para o input do serviço
func (r UpdateUserRequest) ToInput() services.UpdateUserInput {
	return services.UpdateUserInput{
		Username: r.Username,
		Password: r.Password,
		Email:    services.OptionalString{Set: r.Email.Set, Value: r.Email.Value},
		FullName: services.OptionalString{Set: r.FullName.Set, Value: r.FullName.Value},
		Role:     r.Role,
	}
}

// UserResponse representa a resposta de um usuário. Nunca inclui senha ou hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	FullName  *string   `json:"fullname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse é a resposta de cadastro e login
type AuthResponse struct {
	Message   string        `json:"message"`
	Token     string        `json:"token,omitempty"`
	ExpiresAt *time.Time    `json:"expiresAt,omitempty"`
	UserID    string        `json:"userId"`
	User      *UserResponse `json:"user,omitempty"`
}

// UserEnvelope é a resposta de leitura/criação/atualização de um usuário
type UserEnvelope struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user,omitempty"`
	UserID  string        `json:"userId,omitempty"`
	Version string        `json:"version,omitempty"`
}

// UserListResponse é uma página da listagem
type UserListResponse struct {
	Message string         `json:"message"`
	Users   []UserResponse `json:"users"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
}

// MessageResponse é uma resposta apenas com mensagem
type MessageResponse struct {
	Message string `json:"message"`
}

// NewAuthResponse monta a resposta de autenticação
func NewAuthResponse(message string, result *services.AuthResult, includeUser bool) AuthResponse {
	resp := AuthResponse{
		Message: message,
		UserID:  result.User.ID,
	}
	if includeUser {
		user := ToUserResponse(result.User)
		resp.User = &user
	}
	if result.Token != nil {
		expiresAt := result.Token.ExpiresAt
		resp.Token = result.Token.Value
		resp.ExpiresAt = &expiresAt
	}
	return resp
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}
