package ports

import (
	"time"

	"github.com/rafabene/accounts-api/internal/domain/entities"
)

// PasswordHasher transforma senhas em hashes de mão única e os verifica
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify retorna false (nunca erro) para qualquer divergência, inclusive hash malformado
	Verify(plaintext, hash string) bool
}

// IssuedToken é um token assinado com sua expiração
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenVerifier valida tokens sem consulta ao store
type TokenVerifier interface {
	Verify(token string) (*entities.Principal, error)
}

// TokenIssuer emite e valida asserções de identidade assinadas
type TokenIssuer interface {
	TokenVerifier
	Issue(subjectID string, role entities.Role, ttl time.Duration) (IssuedToken, error)
}
