package services

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	"github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/domain/ports"
	"github.com/rafabene/accounts-api/internal/domain/repositories"
	"github.com/rafabene/accounts-api/internal/domain/validators"
)

// IdentityService orquestra cadastro, autenticação e CRUD de usuários para uma
// geração da API. Não guarda estado próprio; o comportamento vem da Policy.
// Toda validação de formato acontece antes de qualquer acesso ao store.
type IdentityService struct {
	policy  Policy
	store   *IdentityStore
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	metrics ports.AuthMetrics
	logger  ports.Logger

	// decoy é verificado quando o username não existe, com o mesmo custo do hash real
	decoy func() string
}

// NewIdentityService cria um IdentityService para a política informada
func NewIdentityService(
	policy Policy,
	store *IdentityStore,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	metrics ports.AuthMetrics,
	logger ports.Logger,
) *IdentityService {
	if metrics == nil {
		metrics = ports.NoopAuthMetrics{}
	}
	return &IdentityService{
		policy:  policy,
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger.With("api_version", string(policy.Version)),
		decoy: sync.OnceValue(func() string {
			hash, _ := hasher.Hash("decoy-password")
			return hash
		}),
	}
}

// Policy retorna a política da geração
func (s *IdentityService) Policy() Policy {
	return s.policy
}

// Register cadastra um usuário; na v2 também emite um token
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	user, err := s.create(ctx, input, s.policy.AllowRoleOnRegister)
	if err != nil {
		return nil, err
	}
	s.metrics.Registered(string(s.policy.Version))

	result := &AuthResult{User: user}
	if s.policy.IssueTokenOnRegister {
		token, err := s.tokens.Issue(user.ID, user.Role, s.policy.TokenTTL)
		if err != nil {
			return nil, err
		}
		result.Token = &token
	}

	return result, nil
}

// Login valida as credenciais e emite um token com o TTL da geração.
// Usuário inexistente e senha errada produzem o mesmo ErrInvalidCredentials.
func (s *IdentityService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	var c validators.Checker
	c.Required("username", input.Username)
	c.Required("password", input.Password)
	if err := c.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.FindByUsername(ctx, input.Username)
	if err != nil {
		if stderrors.Is(err, errors.ErrUserNotFound) {
			s.hasher.Verify(input.Password, s.decoy())
			s.metrics.LoginAttempt(string(s.policy.Version), ports.LoginFailed)
			return nil, errors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		s.metrics.LoginAttempt(string(s.policy.Version), ports.LoginFailed)
		s.logger.Warn("login failed", "user_id", user.ID)
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role, s.policy.TokenTTL)
	if err != nil {
		return nil, err
	}
	s.metrics.LoginAttempt(string(s.policy.Version), ports.LoginSucceeded)

	return &AuthResult{User: user, Token: &token}, nil
}

// ResetPassword troca a senha do usuário identificado por username.
// Exige um principal: o próprio usuário ou um papel com users.password.reset.
func (s *IdentityService) ResetPassword(ctx context.Context, actor *entities.Principal, input ResetPasswordInput) error {
	var c validators.Checker
	c.Required("username", input.Username)
	c.Password("newPassword", input.NewPassword, s.policy.Rules)
	if err := c.Err(); err != nil {
		return err
	}

	if actor == nil {
		return errors.ErrUnauthorized
	}

	user, err := s.store.FindByUsername(ctx, input.Username)
	if err != nil {
		return err
	}

	if actor.UserID != user.ID && !actor.Can(entities.PermissionUserPasswordReset) {
		s.logger.Warn("password reset denied", "actor_id", actor.UserID, "user_id", user.ID)
		return errors.ErrForbidden
	}

	_, err = s.store.Update(ctx, user.ID, UserPatch{Password: &input.NewPassword})
	return err
}

// GetUser busca um usuário ativo por id
func (s *IdentityService) GetUser(ctx context.Context, actor *entities.Principal, id string) (*entities.User, error) {
	var c validators.Checker
	c.Identifier("id", id)
	if err := c.Err(); err != nil {
		return nil, err
	}

	if err := s.authorize(actor, entities.PermissionUserRead); err != nil {
		return nil, err
	}

	return s.store.FindByID(ctx, id)
}

// CreateUser cadastra um usuário pela rota de CRUD; o papel informado é aceito se válido
func (s *IdentityService) CreateUser(ctx context.Context, actor *entities.Principal, input RegisterInput) (*entities.User, error) {
	if s.policy.RequireAuth {
		if err := s.authorize(actor, entities.PermissionUserWrite); err != nil {
			return nil, err
		}
	}
	return s.create(ctx, input, true)
}

// UpdateUser aplica uma atualização parcial restrita aos campos da política.
// Campos fora de UpdatableFields são ignorados.
func (s *IdentityService) UpdateUser(ctx context.Context, actor *entities.Principal, id string, input UpdateUserInput) (*entities.User, error) {
	rules := s.policy.Rules

	var c validators.Checker
	c.Identifier("id", id)

	var patch UserPatch
	if input.Username != nil && s.policy.allows(FieldUsername) {
		c.Username("username", *input.Username, rules)
		patch.Username = input.Username
	}
	if input.Password != nil && s.policy.allows(FieldPassword) {
		c.Password("password", *input.Password, rules)
		patch.Password = input.Password
	}
	if input.Email.Set && s.policy.allows(FieldEmail) {
		c.OptionalEmail("email", input.Email.Value, rules)
		patch.Email = input.Email
	}
	if input.FullName.Set && s.policy.allows(FieldFullName) {
		patch.FullName = input.FullName
	}
	if input.Role != nil && s.policy.AllowRoleInUpdate() {
		c.Role("role", *input.Role)
		role := entities.Role(*input.Role)
		patch.Role = &role
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	if s.policy.RequireAuth && actor == nil {
		return nil, errors.ErrUnauthorized
	}
	if actor != nil {
		if actor.UserID != id && !actor.Can(entities.PermissionUserWrite) {
			return nil, errors.ErrForbidden
		}
		if patch.Role != nil && !actor.Can(entities.PermissionUserRoleWrite) {
			return nil, errors.ErrForbidden
		}
	}

	return s.store.Update(ctx, id, patch)
}

// DeleteUser remove (soft delete) um usuário
func (s *IdentityService) DeleteUser(ctx context.Context, actor *entities.Principal, id string) error {
	var c validators.Checker
	c.Identifier("id", id)
	if err := c.Err(); err != nil {
		return err
	}

	if s.policy.RequireAuth {
		if err := s.authorize(actor, entities.PermissionUserDelete); err != nil {
			return err
		}
	}

	return s.store.SoftDelete(ctx, id)
}

// ListUsers lista usuários ativos paginados; limit acima do máximo é limitado
func (s *IdentityService) ListUsers(ctx context.Context, actor *entities.Principal, input ListUsersInput) (*UserPage, error) {
	filters := repositories.UserFilters{Page: input.Page, PageSize: input.Limit}.Normalize()

	var c validators.Checker
	c.Positive("page", input.Page)
	c.Positive("limit", input.Limit)
	c.AtMost("page", input.Page, filters.MaxPage())
	if err := c.Err(); err != nil {
		return nil, err
	}

	if err := s.authorize(actor, entities.PermissionUserRead); err != nil {
		return nil, err
	}

	users, total, err := s.store.List(ctx, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users: users,
		Total: total,
		Page:  filters.Page,
		Limit: filters.PageSize,
	}, nil
}

func (s *IdentityService) create(ctx context.Context, input RegisterInput, allowRole bool) (*entities.User, error) {
	rules := s.policy.Rules

	var c validators.Checker
	c.Username("username", input.Username, rules)
	c.Password("password", input.Password, rules)
	c.OptionalEmail("email", input.Email, rules)

	role := entities.DefaultRole
	if allowRole && input.Role != nil && *input.Role != "" {
		c.Role("role", *input.Role)
		role = entities.Role(*input.Role)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, CreateUserParams{
		Username: input.Username,
		Password: input.Password,
		Email:    input.Email,
		FullName: input.FullName,
		Role:     role,
	})
}

// authorize só exige principal quando a política pede autenticação
func (s *IdentityService) authorize(actor *entities.Principal, permission entities.Permission) error {
	if !s.policy.RequireAuth {
		return nil
	}
	if actor == nil {
		return errors.ErrUnauthorized
	}
	if !actor.Can(permission) {
		return errors.ErrForbidden
	}
	return nil
}
