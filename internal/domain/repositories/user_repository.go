package repositories

import (
	"context"
	"math"

	"github.com/rafabene/accounts-api/internal/domain/entities"
)

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks . UserRepository

// UserRepository define a interface para persistência de usuários.
// Consultas ignoram registros removidos (soft delete). Buscas sem resultado retornam (nil, nil).
// Update e SoftDelete retornam errors.ErrUserNotFound quando não há registro ativo com o id.
// Violações de unicidade são traduzidas para *errors.ConflictError.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, int64, error)
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	Role     *entities.Role
	Page     int // Página (começa em 1)
	PageSize int // Itens por página (default: 10, max: 100)
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize aplica os limites de paginação
func (f UserFilters) Normalize() UserFilters {
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > f.MaxPage() {
		f.Page = f.MaxPage()
	}
	return f
}

// MaxPage é a maior página cujo Offset cabe em um int.
// Espera PageSize já normalizado.
func (f UserFilters) MaxPage() int {
	return math.MaxInt / f.PageSize
}

// Offset retorna o deslocamento da página
func (f UserFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}
