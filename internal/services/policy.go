package services

import (
	"slices"
	"time"

	"github.com/rafabene/accounts-api/internal/domain/validators"
)

// Version identifica uma geração da API
type Version string

const (
	VersionLegacy Version = "legacy"
	VersionV1     Version = "v1"
	VersionV2     Version = "v2"
)

// Field é um campo atualizável de um usuário
type Field string

const (
	FieldUsername Field = "username"
	FieldPassword Field = "password"
	FieldEmail    Field = "email"
	FieldFullName Field = "fullname"
	FieldRole     Field = "role"
)

// TTLs padrão por geração
const (
	DefaultV1TokenTTL = 8 * time.Hour
	DefaultV2TokenTTL = time.Hour
)

// Policy parametriza o IdentityService para uma geração da API
type Policy struct {
	Version              Version
	Rules                validators.Rules
	TokenTTL             time.Duration
	IssueTokenOnRegister bool
	AllowRoleOnRegister  bool
	UpdatableFields      []Field
	RequireAuth          bool
}

// AllowRoleInUpdate indica se o papel pode ser alterado pelo update
func (p Policy) AllowRoleInUpdate() bool {
	return p.allows(FieldRole)
}

func (p Policy) allows(f Field) bool {
	return slices.Contains(p.UpdatableFields, f)
}

// LegacyPolicy: rotas sem versão, CRUD completo, validação de presença
func LegacyPolicy(ttl time.Duration) Policy {
	return Policy{
		Version:             VersionLegacy,
		Rules:               validators.PresenceRules(),
		TokenTTL:            ttlOr(ttl, DefaultV2TokenTTL),
		AllowRoleOnRegister: true,
		UpdatableFields:     []Field{FieldUsername, FieldPassword, FieldEmail, FieldFullName, FieldRole},
	}
}

// V1Policy: geração depreciada, update restrito a email/fullname
func V1Policy(ttl time.Duration) Policy {
	return Policy{
		Version:         VersionV1,
		Rules:           validators.PresenceRules(),
		TokenTTL:        ttlOr(ttl, DefaultV1TokenTTL),
		UpdatableFields: []Field{FieldEmail, FieldFullName},
	}
}

// V2Policy: validação estrita, token no cadastro e rotas de usuário autenticadas
func V2Policy(ttl time.Duration) Policy {
	return Policy{
		Version:              VersionV2,
		Rules:                validators.StrictRules(),
		TokenTTL:             ttlOr(ttl, DefaultV2TokenTTL),
		IssueTokenOnRegister: true,
		UpdatableFields:      []Field{FieldEmail, FieldFullName, FieldRole},
		RequireAuth:          true,
	}
}

func ttlOr(ttl, fallback time.Duration) time.Duration {
	if ttl <= 0 {
		return fallback
	}
	return ttl
}
