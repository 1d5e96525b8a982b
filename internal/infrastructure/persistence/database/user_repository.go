package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	domainerrors "github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/domain/repositories"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	model := r.toModel(user)

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return translateError(err)
	}

	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// findOne busca um registro ativo; gorm.DeletedAt aplica "deleted_at IS NULL"
func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	var model UserModel

	db := r.getDB(ctx)
	if err := db.Where(query, arg).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model), nil
}

// Update grava os campos mutáveis do usuário ativo com o id informado
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	now := time.Now().UTC()

	db := r.getDB(ctx)
	result := db.Model(&UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"username":   user.Username,
			"email":      user.Email,
			"fullname":   user.FullName,
			"password":   user.PasswordHash,
			"role":       string(user.Role),
			"updated_at": now,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}

	user.UpdatedAt = now
	return nil
}

// SoftDelete preenche deleted_at; a linha permanece na tabela
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	db := r.getDB(ctx)
	result := db.Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, int64, error) {
	filters = filters.Normalize()

	// Aplicar filtros
	filtered := func(db *gorm.DB) *gorm.DB {
		if filters.Role != nil {
			db = db.Where("role = ?", string(*filters.Role))
		}
		return db
	}

	db := r.getDB(ctx)

	var total int64
	if err := db.Model(&UserModel{}).Scopes(filtered).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []*UserModel
	if err := db.Model(&UserModel{}).
		Scopes(filtered).
		Order("created_at ASC").
		Order("id ASC").
		Limit(filters.PageSize).
		Offset(filters.Offset()).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	return r.toEntities(models), total, nil
}

// getDB extrai DB do contexto (para suportar transações)
func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	var deletedAt gorm.DeletedAt
	if user.IsDeleted() {
		deletedAt = gorm.DeletedAt{Time: user.Lifecycle.DeletedAt, Valid: true}
	}

	return &UserModel{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		DeletedAt:    deletedAt,
	}
}

func (r *UserRepository) toEntity(model *UserModel) *entities.User {
	lifecycle := entities.Active()
	if model.DeletedAt.Valid {
		lifecycle = entities.Deleted(model.DeletedAt.Time)
	}

	return &entities.User{
		ID:           model.ID,
		Username:     model.Username,
		Email:        model.Email,
		FullName:     model.FullName,
		PasswordHash: model.PasswordHash,
		Role:         entities.Role(model.Role),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		Lifecycle:    lifecycle,
	}
}

func (r *UserRepository) toEntities(models []*UserModel) []*entities.User {
	users := make([]*entities.User, 0, len(models))
	for _, model := range models {
		users = append(users, r.toEntity(model))
	}
	return users
}
