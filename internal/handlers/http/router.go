package http

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/accounts-api/internal/domain/ports"
	"github.com/rafabene/accounts-api/internal/handlers/dto"
	"github.com/rafabene/accounts-api/internal/handlers/middleware"
	"github.com/rafabene/accounts-api/internal/infrastructure/config"
	"github.com/rafabene/accounts-api/internal/infrastructure/i18n"
	"github.com/rafabene/accounts-api/internal/infrastructure/metrics"
	"github.com/rafabene/accounts-api/internal/services"

	_ "github.com/rafabene/accounts-api/docs"
)

// RouterDeps reúne o que o roteador precisa; tudo é construído em main
type RouterDeps struct {
	Config  *config.Config
	Logger  ports.Logger
	I18n    *i18n.Service
	Metrics *metrics.Metrics
	Tokens  ports.TokenVerifier
	Pinger  Pinger

	Legacy *services.IdentityService
	V1     *services.IdentityService
	V2     *services.IdentityService
}

// recoverPanic responde com o 500 RFC 7807 da rota; a causa vai apenas para o log
func recoverPanic(logger ports.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		envelope := dto.EnvelopeError
		if c.GetString(middleware.VersionContextKey) == "" {
			envelope = dto.EnvelopeMessage
		}
		respondError(c, envelope, logger, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	}
}

// NewRouter monta o engine com as três gerações da API
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.CustomRecoveryWithWriter(io.Discard, recoverPanic(deps.Logger)))

	// Base URL para os URIs de tipo RFC 7807
	router.Use(func(c *gin.Context) {
		c.Set(dto.BaseURLContextKey, cfg.Server.BaseURL)
		c.Next()
	})
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(middleware.CORS(cfg.CORS.Origins()))
	router.Use(middleware.NewI18nMiddleware(deps.I18n).DetectLanguage())

	status := NewStatusHandler(deps.Pinger, cfg.Env, cfg.API.V1DeprecationDate, deps.Logger)
	router.GET("/", status.Root)
	router.GET("/health", status.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if cfg.Swagger.Enabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerLegacy(router, deps)
	registerV1(router, deps)
	registerV2(router, deps)

	return router
}

// Rotas sem versão: CRUD completo, troca de senha exige token
func registerLegacy(router *gin.Engine, deps RouterDeps) {
	auth := NewAuthHandler(deps.Legacy, deps.Logger)
	users := NewUserHandler(deps.Legacy, deps.Logger)

	authGroup := router.Group("/auth")
	{
		if deps.Config.RegistrationEnabled() {
			authGroup.POST("/register", auth.Register)
		}
		authGroup.POST("/login", auth.Login)
		authGroup.POST("/reset-password", middleware.RequireToken(deps.Tokens, auth.fail), auth.ResetPassword)
	}

	usersGroup := router.Group("/users")
	{
		usersGroup.GET("", users.ListUsers)
		usersGroup.POST("", users.CreateUser)
		usersGroup.GET("/:id", users.GetUser)
		usersGroup.PUT("/:id", users.UpdateUser)
		usersGroup.DELETE("/:id", users.DeleteUser)
	}
}

// v1: depreciada, sem autenticação nas rotas de usuário
func registerV1(router *gin.Engine, deps RouterDeps) {
	auth := NewAuthHandler(deps.V1, deps.Logger)
	users := NewUserHandler(deps.V1, deps.Logger)

	v1 := router.Group("/v1", middleware.APIVersion(middleware.VersionInfo{
		Version:         string(services.VersionV1),
		Deprecated:      true,
		DeprecationDate: deps.Config.API.V1DeprecationDate,
	}))
	{
		if deps.Config.RegistrationEnabled() {
			v1.POST("/auth/register", auth.Register)
		}
		v1.POST("/auth/login", auth.Login)
		v1.GET("/users/:id", users.GetUser)
		v1.PUT("/users/:id", users.UpdateUser)
	}
}

// v2: validação estrita e bearer token nas rotas de usuário
func registerV2(router *gin.Engine, deps RouterDeps) {
	auth := NewAuthHandler(deps.V2, deps.Logger)
	users := NewUserHandler(deps.V2, deps.Logger)

	v2 := router.Group("/v2", middleware.APIVersion(middleware.VersionInfo{
		Version: string(services.VersionV2),
	}))
	{
		if deps.Config.RegistrationEnabled() {
			v2.POST("/auth/register", auth.Register)
		}
		v2.POST("/auth/login", auth.Login)

		protected := v2.Group("/users", middleware.RequireToken(deps.Tokens, users.fail))
		protected.GET("/:id", users.GetUser)
		protected.PUT("/:id", users.UpdateUser)
	}
}
