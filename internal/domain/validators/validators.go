// Package validators contém as verificações puras de formato dos campos de entrada.
// Nenhuma função aqui acessa o store; violações são reportadas antes de qualquer I/O.
package validators

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	domainerrors "github.com/rafabene/accounts-api/internal/domain/errors"
)

// Tags customizadas registradas no validator
const (
	TagRole       = "role"
	TagIdentifier = "identifier"
)

// Regras reportadas em FieldViolation.Rule
const (
	RuleRequired   = "required"
	RuleMin        = "min"
	RuleMax        = "max"
	RuleEmail      = "email"
	RuleRole       = TagRole
	RuleIdentifier = TagIdentifier
	RulePositive   = "positive"
	RuleAtMost     = "lte"
)

// identifierPattern é o formato textual canônico dos ids (UUID 8-4-4-4-12, sem distinção de caixa)
var identifierPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// engine é construído uma única vez e nunca alterado depois
var engine = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(TagRole, func(fl validator.FieldLevel) bool {
		return ValidRole(fl.Field().String())
	})
	_ = v.RegisterValidation(TagIdentifier, func(fl validator.FieldLevel) bool {
		return ValidIdentifier(fl.Field().String())
	})
	return v
})

// RequireFields retorna true sse todos os valores estão presentes e não vazios
func RequireFields(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// ValidEmail verifica o formato local@dominio
func ValidEmail(s string) bool {
	return engine().Var(s, "required,email") == nil
}

// ValidIdentifier verifica o formato canônico de id usado pelo store
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// ValidRole verifica se s pertence à enumeração fechada de papéis
func ValidRole(s string) bool {
	return entities.Role(s).IsValid()
}

// Rules parametriza o rigor da validação por geração da API
type Rules struct {
	MinUsernameLength int
	MinPasswordLength int
	MaxPasswordBytes  int
	RequireEmail      bool
	CheckEmailFormat  bool
}

// bcrypt ignora/recusa senhas acima de 72 bytes
const maxPasswordBytes = 72

// PresenceRules exige apenas presença dos campos obrigatórios
func PresenceRules() Rules {
	return Rules{MaxPasswordBytes: maxPasswordBytes}
}

// StrictRules exige username >= 3, email válido e senha >= 6
func StrictRules() Rules {
	return Rules{
		MinUsernameLength: 3,
		MinPasswordLength: 6,
		MaxPasswordBytes:  maxPasswordBytes,
		RequireEmail:      true,
		CheckEmailFormat:  true,
	}
}

// Checker acumula violações de campo
type Checker struct {
	violations []domainerrors.FieldViolation
}

// Required registra violação se value estiver ausente ou vazio
func (c *Checker) Required(field, value string) bool {
	if !RequireFields(value) {
		c.add(field, RuleRequired, "")
		return false
	}
	return true
}

// MinLength registra violação se value tiver menos de n caracteres
func (c *Checker) MinLength(field, value string, n int) {
	if n <= 0 {
		return
	}
	param := strconv.Itoa(n)
	if engine().Var(value, "min="+param) != nil {
		c.add(field, RuleMin, param)
	}
}

// MaxBytes registra violação se value ocupar mais de n bytes
func (c *Checker) MaxBytes(field, value string, n int) {
	if n > 0 && len(value) > n {
		c.add(field, RuleMax, strconv.Itoa(n))
	}
}

// Email registra violação se value não for um email válido
func (c *Checker) Email(field, value string) {
	if !ValidEmail(value) {
		c.add(field, RuleEmail, "")
	}
}

// Role registra violação se value não pertencer à enumeração
func (c *Checker) Role(field, value string) {
	if engine().Var(value, TagRole) != nil {
		c.add(field, RuleRole, strings.Join(roleNames(), " "))
	}
}

// Identifier registra violação se value não estiver no formato de id
func (c *Checker) Identifier(field, value string) {
	if engine().Var(value, TagIdentifier) != nil {
		c.add(field, RuleIdentifier, "")
	}
}

// Positive registra violação se n <= 0
func (c *Checker) Positive(field string, n int) {
	if n <= 0 {
		c.add(field, RulePositive, "")
	}
}

// AtMost registra violação se n > max
func (c *Checker) AtMost(field string, n, max int) {
	if n > max {
		c.add(field, RuleAtMost, strconv.Itoa(max))
	}
}

// Username aplica as regras de username
func (c *Checker) Username(field, value string, r Rules) {
	if c.Required(field, value) {
		c.MinLength(field, strings.TrimSpace(value), r.MinUsernameLength)
	}
}

// Password aplica as regras de senha
func (c *Checker) Password(field, value string, r Rules) {
	if c.Required(field, value) {
		c.MinLength(field, value, r.MinPasswordLength)
		c.MaxBytes(field, value, r.MaxPasswordBytes)
	}
}

// OptionalEmail aplica as regras de email; nil significa ausente
func (c *Checker) OptionalEmail(field string, value *string, r Rules) {
	if value == nil || strings.TrimSpace(*value) == "" {
		if r.RequireEmail {
			c.add(field, RuleRequired, "")
		}
		return
	}
	if r.CheckEmailFormat {
		c.Email(field, strings.TrimSpace(*value))
	}
}

// Err retorna *errors.ValidationError se houver violações
func (c *Checker) Err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return &domainerrors.ValidationError{Violations: c.violations}
}

func (c *Checker) add(field, rule, param string) {
	c.violations = append(c.violations, domainerrors.FieldViolation{Field: field, Rule: rule, Param: param})
}

func roleNames() []string {
	names := make([]string, len(entities.Roles))
	for i, r := range entities.Roles {
		names[i] = string(r)
	}
	return names
}
