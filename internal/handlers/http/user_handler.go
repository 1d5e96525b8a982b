package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/accounts-api/internal/domain/ports"
	"github.com/rafabene/accounts-api/internal/domain/validators"
	"github.com/rafabene/accounts-api/internal/handlers/dto"
	"github.com/rafabene/accounts-api/internal/handlers/middleware"
	"github.com/rafabene/accounts-api/internal/services"
)

// Paginação padrão de GET /users
const (
	defaultPage  = 1
	defaultLimit = 10
)

// UserHandler lida com requisições HTTP relacionadas a usuários
type UserHandler struct {
	service  *services.IdentityService
	envelope dto.EnvelopeKey
	logger   ports.Logger
}

// NewUserHandler cria um novo UserHandler
func NewUserHandler(service *services.IdentityService, logger ports.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		envelope: envelopeFor(service.Policy().Version),
		logger:   logger,
	}
}

// GetUser busca um usuário por ID
//
//	@Summary		Busca um usuário
//	@Tags			users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"ID do usuário"
//	@Success		200	{object}	dto.UserEnvelope
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/v2/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	response := dto.ToUserResponse(user)
	c.JSON(http.StatusOK, dto.UserEnvelope{
		Message: dto.T(c, "success.user_found"),
		User:    &response,
		Version: h.version(),
	})
}

// UpdateUser aplica uma atualização parcial
//
//	@Summary		Atualiza um usuário
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"ID do usuário"
//	@Param			request	body		dto.UpdateUserRequest	true	"Campos a alterar"
//	@Success		200		{object}	dto.UserEnvelope
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		403		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/v2/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.envelope)
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), req.ToInput())
	if err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	response := dto.ToUserResponse(user)
	c.JSON(http.StatusOK, dto.UserEnvelope{
		Message: dto.T(c, "success.user_updated"),
		User:    &response,
		UserID:  user.ID,
		Version: h.version(),
	})
}

// CreateUser cria um novo usuário
//
//	@Summary		Cria um usuário
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequest	true	"Dados do usuário"
//	@Success		201		{object}	dto.UserEnvelope
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.envelope)
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), middleware.PrincipalFrom(c), req.ToInput())
	if err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	response := dto.ToUserResponse(user)
	c.JSON(http.StatusCreated, dto.UserEnvelope{
		Message: dto.T(c, "success.user_created"),
		User:    &response,
		UserID:  user.ID,
	})
}

// DeleteUser remove um usuário (soft delete)
//
//	@Summary		Remove um usuário
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"ID do usuário"
//	@Success		200	{object}	dto.MessageResponse
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.service.DeleteUser(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: dto.T(c, "success.user_deleted")})
}

// ListUsers lista usuários ativos com paginação
//
//	@Summary		Lista usuários
//	@Tags			users
//	@Produce		json
//	@Param			page	query		int	false	"Página (padrão 1)"
//	@Param			limit	query		int	false	"Itens por página (padrão 10, máximo 100)"
//	@Success		200		{object}	dto.UserListResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Router			/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var checker validators.Checker
	page := queryInt(c, &checker, "page", defaultPage)
	limit := queryInt(c, &checker, "limit", defaultLimit)
	if err := checker.Err(); err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	result, err := h.service.ListUsers(c.Request.Context(), middleware.PrincipalFrom(c), services.ListUsersInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondError(c, h.envelope, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Message: dto.T(c, "success.users_listed"),
		Users:   dto.ToUserResponses(result.Users),
		Total:   result.Total,
		Page:    result.Page,
		Limit:   result.Limit,
	})
}

// fail escreve a resposta de falha de autenticação no formato da geração
func (h *UserHandler) fail(c *gin.Context, err error) {
	respondError(c, h.envelope, h.logger, err)
}

// version só é devolvido nas rotas versionadas
func (h *UserHandler) version() string {
	if v := h.service.Policy().Version; v != services.VersionLegacy {
		return string(v)
	}
	return ""
}

// queryInt lê um inteiro da query; valor ausente usa o padrão, valor não numérico vira violação
func queryInt(c *gin.Context, checker *validators.Checker, name string, fallback int) int {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		checker.Positive(name, 0)
		return 0
	}
	checker.Positive(name, n)
	return n
}
