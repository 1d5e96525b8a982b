package http

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/accounts-api/internal/domain/errors"
	"github.com/rafabene/accounts-api/internal/domain/ports"
	"github.com/rafabene/accounts-api/internal/handlers/dto"
	"github.com/rafabene/accounts-api/internal/services"
)

// envelopeFor retorna o campo legível de erro usado por cada geração
func envelopeFor(version services.Version) dto.EnvelopeKey {
	if version == services.VersionLegacy {
		return dto.EnvelopeMessage
	}
	return dto.EnvelopeError
}

// respondError traduz um erro do serviço para a resposta RFC 7807 correspondente.
// Erros não mapeados são logados e viram um 500 genérico, sem expor a causa.
func respondError(c *gin.Context, envelope dto.EnvelopeKey, logger ports.Logger, err error) {
	var response dto.ErrorResponse

	var validationErr *errors.ValidationError
	var conflictErr *errors.ConflictError

	switch {
	case stderrors.As(err, &validationErr):
		response = dto.ValidationErrorResponseI18n(c, validationErr.Violations)
	case stderrors.Is(err, errors.ErrInvalidCredentials):
		response = dto.UnauthorizedErrorResponseI18n(c, errors.ErrInvalidCredentials.Error())
	case stderrors.Is(err, errors.ErrInvalidToken):
		response = dto.UnauthorizedErrorResponseI18n(c, errors.ErrInvalidToken.Error())
	case stderrors.Is(err, errors.ErrUnauthorized):
		response = dto.UnauthorizedErrorResponseI18n(c, errors.ErrUnauthorized.Error())
	case stderrors.Is(err, errors.ErrForbidden):
		response = dto.ForbiddenErrorResponseI18n(c)
	case stderrors.Is(err, errors.ErrUserNotFound):
		response = dto.NotFoundErrorResponseI18n(c, errors.ErrUserNotFound.Error())
	case stderrors.As(err, &conflictErr):
		response = dto.ConflictErrorResponseI18n(c, conflictErr.Error())
	case stderrors.Is(err, errors.ErrConflict):
		response = dto.ConflictErrorResponseI18n(c, errors.ErrConflict.Error())
	default:
		logger.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"route", c.FullPath(),
		)
		response = dto.InternalErrorResponseI18n(c)
	}

	response.WithEnvelope(envelope).Write(c)
}

// respondBadRequest responde a um corpo JSON malformado
func respondBadRequest(c *gin.Context, envelope dto.EnvelopeKey) {
	dto.BadRequestErrorResponseI18n(c).WithEnvelope(envelope).Write(c)
}
