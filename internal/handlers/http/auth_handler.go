package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/accounts-api/internal/domain/ports"
	"github.com/rafabene/accounts-api/internal/handlers/dto"
	"github.com/rafabene/accounts-api/internal/handlers/middleware"
	"github.com/rafabene/accounts-api/internal/services"
)

// AuthHandler lida com cadastro, login e troca de senha de uma geração da API
type AuthHandler struct {
	service  *services.IdentityService
	envelope dto.EnvelopeKey
	logger   ports.Logger
}

// NewAuthHandler cria um novo AuthHandler
func NewAuthHandler(service *services.IdentityService, logger ports.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		envelope: envelopeFor(service.Policy().Version),
		logger:   logger,
	}
}

// Register cadastra um novo usuário
//
//	@Summary		Cadastra um usuário
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequest	true	"Dados de cadastro"
//	@Success		201		{object}	dto.AuthResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/v2/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.envelope)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAuthResponse(dto.T(c, "success.user_registered"), result, true))
}

// Login autentica o usuário e retorna um token
//
//	@Summary		Autentica um usuário
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequest	true	"Credenciais"
//	@Success		200		{object}	dto.AuthResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Router			/v2/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.envelope)
		return
	}

	result, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthResponse(dto.T(c, "success.login"), result, false))
}

// ResetPassword troca a senha de um usuário. Exige bearer token.
//
//	@Summary		Troca a senha de um usuário
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.ResetPasswordRequest	true	"Nova senha"
//	@Success		200		{object}	dto.MessageResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Failure		403		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Router			/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.envelope)
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), middleware.PrincipalFrom(c), services.ResetPasswordInput{
		Username:    req.Username,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.T(c, "success.password_reset")})
}

// fail escreve a resposta de falha de autenticação no formato da geração
func (h *AuthHandler) fail(c *gin.Context, err error) {
	respondError(c, h.envelope, h.logger, err)
}
