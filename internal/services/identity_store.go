package services

import (
	"context"
	"strings"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	"github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/domain/ports"
	"github.com/rafabene/accounts-api/internal/domain/repositories"
	"github.com/rafabene/accounts-api/internal/domain/validators"
	"github.com/rafabene/accounts-api/internal/domain/valueobjects"
)

// CreateUserParams são os campos de um novo registro; Password em texto puro
type CreateUserParams struct {
	Username string
	Password string
	Email    *string
	FullName *string
	Role     entities.Role
}

// UserPatch é uma atualização parcial já filtrada pela política da versão
type UserPatch struct {
	Username *string
	Password *string
	Email    OptionalString
	FullName OptionalString
	Role     *entities.Role
}

// IdentityStore é dono dos registros de identidade e de suas transições de ciclo de vida.
//
// A verificação de unicidade feita aqui é consultiva (mensagem clara e falha rápida).
// O árbitro definitivo é a constraint única do banco, traduzida pelo repositório
// para o mesmo *errors.ConflictError.
type IdentityStore struct {
	repo   repositories.UserRepository
	uow    ports.UnitOfWork
	hasher ports.PasswordHasher
	logger ports.Logger
}

// NewIdentityStore cria um novo IdentityStore
func NewIdentityStore(
	repo repositories.UserRepository,
	uow ports.UnitOfWork,
	hasher ports.PasswordHasher,
	logger ports.Logger,
) *IdentityStore {
	return &IdentityStore{
		repo:   repo,
		uow:    uow,
		hasher: hasher,
		logger: logger,
	}
}

// Create cadastra um usuário ativo
func (s *IdentityStore) Create(ctx context.Context, params CreateUserParams) (*entities.User, error) {
	role := params.Role
	if role == "" {
		role = entities.DefaultRole
	}
	if !role.IsValid() {
		return nil, errors.NewValidation("role", validators.RuleRole)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     strings.TrimSpace(params.Username),
		Email:        normalizeEmail(params.Email),
		FullName:     params.FullName,
		PasswordHash: hash,
		Role:         role,
		Lifecycle:    entities.Active(),
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureAvailable(txCtx, "", user.Username, user.Email); err != nil {
			return err
		}
		return s.repo.Create(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// FindByID retorna o usuário ativo ou errors.ErrUserNotFound
func (s *IdentityStore) FindByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// FindByUsername retorna o usuário ativo ou errors.ErrUserNotFound
func (s *IdentityStore) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// Update aplica patch ao usuário ativo. O hash só é recalculado se Password vier preenchido.
func (s *IdentityStore) Update(ctx context.Context, id string, patch UserPatch) (*entities.User, error) {
	if patch.Role != nil && !patch.Role.IsValid() {
		return nil, errors.NewValidation("role", validators.RuleRole)
	}

	var newHash string
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		newHash = hash
	}

	var updated *entities.User
	err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		var checkUsername string
		if patch.Username != nil {
			username := strings.TrimSpace(*patch.Username)
			if username != user.Username {
				checkUsername = username
			}
			user.Username = username
		}

		var checkEmail *string
		if patch.Email.Set {
			email := normalizeEmail(patch.Email.Value)
			if email != nil && (user.Email == nil || *email != *user.Email) {
				checkEmail = email
			}
			user.Email = email
		}

		if err := s.ensureAvailable(txCtx, user.ID, checkUsername, checkEmail); err != nil {
			return err
		}

		if patch.FullName.Set {
			user.FullName = patch.FullName.Value
		}
		if patch.Role != nil {
			user.Role = *patch.Role
		}
		if newHash != "" {
			user.PasswordHash = newHash
		}

		if err := s.repo.Update(txCtx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "password_changed", newHash != "")
	return updated, nil
}

// SoftDelete marca o usuário como removido; a segunda chamada retorna errors.ErrUserNotFound
func (s *IdentityStore) SoftDelete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user soft deleted", "user_id", id)
	return nil
}

// List retorna uma página de usuários ativos e o total.
// page e pageSize devem ser positivos; pageSize acima do máximo é limitado.
func (s *IdentityStore) List(ctx context.Context, page, pageSize int) ([]*entities.User, int64, error) {
	var c validators.Checker
	c.Positive("page", page)
	c.Positive("limit", pageSize)
	if err := c.Err(); err != nil {
		return nil, 0, err
	}

	return s.repo.List(ctx, repositories.UserFilters{Page: page, PageSize: pageSize})
}

// ensureAvailable verifica se username/email estão livres entre os registros ativos,
// ignorando o próprio registro (selfID). Valores vazios não são verificados.
func (s *IdentityStore) ensureAvailable(ctx context.Context, selfID, username string, email *string) error {
	if username != "" {
		existing, err := s.repo.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return errors.NewConflict(errors.FieldUsername)
		}
	}

	if email != nil {
		existing, err := s.repo.FindByEmail(ctx, *email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return errors.NewConflict(errors.FieldEmail)
		}
	}

	return nil
}

// normalizeEmail aplica trim/lower-case; vazio vira nil
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := valueobjects.NormalizeEmail(*email)
	if normalized == "" {
		return nil
	}
	return &normalized
}
