package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/accounts-api/internal/domain/entities"
	domainerrors "github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/domain/ports"
)

// PrincipalContextKey guarda o principal extraído do token
const PrincipalContextKey = "principal"

// RequireToken exige um bearer token válido. A verificação é stateless (assinatura
// e expiração). Em caso de falha chama onFailure, que deve escrever a resposta.
func RequireToken(verifier ports.TokenVerifier, onFailure func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			onFailure(c, domainerrors.ErrUnauthorized)
			c.Abort()
			return
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			onFailure(c, domainerrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// PrincipalFrom retorna o principal da requisição, ou nil se a rota não exige token
func PrincipalFrom(c *gin.Context) *entities.Principal {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		return nil
	}
	principal, _ := value.(*entities.Principal)
	return principal
}

// BearerToken extrai o token do header Authorization ("Bearer <token>")
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
