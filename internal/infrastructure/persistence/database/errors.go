package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	domainerrors "github.com/rafabene/accounts-api/internal/domain/errors"
)

// uniqueViolation é o SQLSTATE do PostgreSQL para violação de unicidade
const uniqueViolation = "23505"

// translateError converte violações de unicidade do banco em *errors.ConflictError.
// Este é o árbitro definitivo de conflito; a verificação prévia do serviço é apenas consultiva.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return domainerrors.NewConflict(conflictField(pgErr.ConstraintName + " " + pgErr.Detail))
		}
		return err
	}

	// SQLite: "UNIQUE constraint failed: users.email"
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return domainerrors.NewConflict(conflictField(msg))
	}

	return err
}

func conflictField(hint string) string {
	if strings.Contains(strings.ToLower(hint), "email") {
		return domainerrors.FieldEmail
	}
	return domainerrors.FieldUsername
}
