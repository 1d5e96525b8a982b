package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	domainerrors "github.com/rafabene/accounts-api/internal/domain/errors"
)

// BaseURLContextKey guarda a URL base usada nos URIs de tipo RFC 7807
const BaseURLContextKey = "base_url"

// EnvelopeKey é o campo legível da resposta de erro de cada geração da API
type EnvelopeKey string

const (
	EnvelopeMessage EnvelopeKey = "message" // rotas sem versão
	EnvelopeError   EnvelopeKey = "error"   // v1 e v2
)

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs) e carrega
// também o campo message/error esperado pelos clientes de cada geração
type ErrorResponse struct {
	*problems.DefaultProblem
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Param   string `json:"param,omitempty"`
}

// WithEnvelope copia o detail para o campo legível da geração
func (r ErrorResponse) WithEnvelope(key EnvelopeKey) ErrorResponse {
	if key == EnvelopeError {
		r.Error = r.Detail
	} else {
		r.Message = r.Detail
	}
	return r
}

// Write envia a resposta com o media type application/problem+json
func (r ErrorResponse) Write(c *gin.Context) {
	c.Header("Content-Type", problems.ProblemMediaType)
	c.JSON(r.Status, r)
}

// NewErrorResponseI18n cria uma resposta de erro usando i18n
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]interface{}) ErrorResponse {
	baseURL := c.GetString(BaseURLContextKey)
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	problem := problems.NewDetailedProblem(status, T(c, detailKey, params...))
	problem.Type = baseURL + problemType
	problem.Title = T(c, titleKey, params...)
	problem.Instance = c.Request.URL.Path

	return ErrorResponse{DefaultProblem: problem}
}

// Helper functions para respostas de erro comuns com i18n

// ValidationErrorResponseI18n cria uma resposta de erro de validação
func ValidationErrorResponseI18n(c *gin.Context, violations []domainerrors.FieldViolation) ErrorResponse {
	response := NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeValidation,
		"error.validation.title",
		"error.validation.detail",
		http.StatusBadRequest,
	)

	for _, v := range violations {
		response.Errors = append(response.Errors, ValidationError{
			Field:   v.Field,
			Message: T(c, "validation."+v.Rule, map[string]interface{}{"Field": v.Field, "Param": v.Param}),
			Tag:     v.Rule,
			Param:   v.Param,
		})
	}

	// O primeiro problema vira a mensagem legível, como os clientes antigos esperam
	if len(response.Errors) > 0 {
		response.Detail = response.Errors[0].Message
	}

	return response
}

// BadRequestErrorResponseI18n cria uma resposta 400 para corpo malformado
func BadRequestErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeBadRequest,
		"error.bad_request.title",
		"error.bad_request.detail",
		http.StatusBadRequest,
	)
}

// NotFoundErrorResponseI18n cria uma resposta de erro 404
func NotFoundErrorResponseI18n(c *gin.Context, detailKey string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeNotFound,
		"error.not_found.title",
		detailKey,
		http.StatusNotFound,
	)
}

// ConflictErrorResponseI18n cria uma resposta de erro 409
func ConflictErrorResponseI18n(c *gin.Context, detailKey string, params ...map[string]interface{}) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeConflict,
		"error.conflict.title",
		detailKey,
		http.StatusConflict,
		params...,
	)
}

// UnauthorizedErrorResponseI18n cria uma resposta de erro 401
func UnauthorizedErrorResponseI18n(c *gin.Context, detailKey string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeUnauthorized,
		"error.unauthorized.title",
		detailKey,
		http.StatusUnauthorized,
	)
}

// ForbiddenErrorResponseI18n cria uma resposta de erro 403
func ForbiddenErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeForbidden,
		"error.forbidden.title",
		"error.forbidden.detail",
		http.StatusForbidden,
	)
}

// InternalErrorResponseI18n cria uma resposta de erro 500
func InternalErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeInternal,
		"error.internal.title",
		"error.internal.detail",
		http.StatusInternalServerError,
	)
}
