package errors

import (
	"errors"
	"strings"
)

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound          = errors.New("error.user_not_found")
	ErrUsernameAlreadyExists = errors.New("error.username_already_exists")
	ErrEmailAlreadyExists    = errors.New("error.email_already_exists")
	ErrInvalidCredentials    = errors.New("error.invalid_credentials")
	ErrUnauthorized          = errors.New("error.unauthorized")
	ErrForbidden             = errors.New("error.forbidden")
	ErrInvalidToken          = errors.New("error.invalid_token")
)

// Domain errors
var (
	ErrValidation = errors.New("error.validation")
	ErrConflict   = errors.New("error.conflict")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
)

// Campos com restrição de unicidade entre registros ativos
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

// ConflictError indica violação de unicidade em um campo lógico ("username" ou "email").
// Unwrap expõe tanto ErrConflict quanto o sentinel específico do campo.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.sentinel().Error()
}

func (e *ConflictError) Unwrap() []error {
	return []error{ErrConflict, e.sentinel()}
}

func (e *ConflictError) sentinel() error {
	if e.Field == FieldEmail {
		return ErrEmailAlreadyExists
	}
	return ErrUsernameAlreadyExists
}

// NewConflict cria um ConflictError para o campo
func NewConflict(field string) error {
	return &ConflictError{Field: field}
}

// FieldViolation descreve uma regra de validação violada em um campo
type FieldViolation struct {
	Field string
	Rule  string
	Param string
}

// ValidationError agrupa violações detectadas antes de qualquer acesso ao store
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+":"+v.Rule)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidation cria um ValidationError com uma única violação
func NewValidation(field, rule string) error {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Rule: rule}}}
}

// IsConflict verifica se err é uma violação de unicidade
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation verifica se err é um erro de validação
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
