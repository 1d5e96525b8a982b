package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	domainerrors "github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/domain/ports"
)

var (
	ErrEmptySecret    = errors.New("jwt secret must not be empty")
	ErrInvalidTTL     = errors.New("token ttl must be positive")
	ErrInvalidSubject = errors.New("token subject must not be empty")
)

// claims são as claims emitidas: sub = id do usuário, role = papel
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer implementa ports.TokenIssuer com HS256.
// A chave e o issuer são fixados na construção e nunca alterados.
type JWTIssuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configura o JWTIssuer
type Option func(*JWTIssuer)

// WithIssuer define a claim iss
func WithIssuer(issuer string) Option {
	return func(j *JWTIssuer) {
		j.issuer = issuer
	}
}

// WithClock substitui o relógio (testes)
func WithClock(now func() time.Time) Option {
	return func(j *JWTIssuer) {
		j.now = now
	}
}

// NewJWTIssuer cria um emissor de tokens
func NewJWTIssuer(secret string, opts ...Option) (*JWTIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	j := &JWTIssuer{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	return j, nil
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

// Issue gera um token com expiração em now + ttl
func (j *JWTIssuer) Issue(subjectID string, role entities.Role, ttl time.Duration) (ports.IssuedToken, error) {
	if subjectID == "" {
		return ports.IssuedToken{}, ErrInvalidSubject
	}
	if ttl <= 0 {
		return ports.IssuedToken{}, ErrInvalidTTL
	}

	now := j.now()
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return ports.IssuedToken{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return ports.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify valida assinatura, formato e expiração. Qualquer falha retorna ErrInvalidToken.
func (j *JWTIssuer) Verify(tokenString string) (*entities.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domainerrors.ErrInvalidToken
	}

	role, ok := entities.ParseRole(c.Role)
	if !ok || c.Subject == "" {
		return nil, fmt.Errorf("%w: malformed claims", domainerrors.ErrInvalidToken)
	}

	return &entities.Principal{UserID: c.Subject, Role: role}, nil
}
