package ports

import "context"

//go:generate mockgen -destination=../../mocks/mock_unit_of_work.go -package=mocks . UnitOfWork

// UnitOfWork define a interface para gerenciamento de transações.
// fn recebe um contexto que carrega a transação; repositórios a extraem dele.
type UnitOfWork interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
