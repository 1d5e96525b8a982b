package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/accounts-api/internal/domain/ports"
	"github.com/rafabene/accounts-api/internal/handlers/dto"
)

const healthTimeout = 2 * time.Second

// Pinger verifica a disponibilidade de uma dependência
type Pinger interface {
	Ping(ctx context.Context) error
}

// VersionStatus descreve o estado de uma geração da API
type VersionStatus struct {
	Status          string `json:"status"`
	DeprecationDate string `json:"deprecationDate,omitempty"`
}

// RootResponse é a resposta de GET /
type RootResponse struct {
	Message  string                   `json:"message"`
	Versions map[string]VersionStatus `json:"versions"`
}

// HealthResponse é a resposta de GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Env      string `json:"env"`
}

// StatusHandler expõe o estado da API e do banco
type StatusHandler struct {
	pinger            Pinger
	env               string
	v1DeprecationDate string
	logger            ports.Logger
}

// NewStatusHandler cria um novo StatusHandler
func NewStatusHandler(pinger Pinger, env, v1DeprecationDate string, logger ports.Logger) *StatusHandler {
	return &StatusHandler{
		pinger:            pinger,
		env:               env,
		v1DeprecationDate: v1DeprecationDate,
		logger:            logger,
	}
}

// Root lista as gerações disponíveis
//
//	@Summary	Estado da API
//	@Tags		status
//	@Produce	json
//	@Success	200	{object}	RootResponse
//	@Router		/ [get]
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Message: dto.T(c, "status.running"),
		Versions: map[string]VersionStatus{
			"v1": {Status: "deprecated", DeprecationDate: h.v1DeprecationDate},
			"v2": {Status: "active"},
		},
	})
}

// Health verifica o banco; responde 503 quando o ping falha
//
//	@Summary	Health check
//	@Tags		status
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/health [get]
func (h *StatusHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("database ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   dto.T(c, "status.degraded"),
			Database: "down",
			Env:      h.env,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   dto.T(c, "status.healthy"),
		Database: "up",
		Env:      h.env,
	})
}
