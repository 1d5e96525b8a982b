package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	httphandlers "github.com/rafabene/accounts-api/internal/handlers/http"
	"github.com/rafabene/accounts-api/internal/infrastructure/config"
	"github.com/rafabene/accounts-api/internal/infrastructure/i18n"
	"github.com/rafabene/accounts-api/internal/infrastructure/logging"
	"github.com/rafabene/accounts-api/internal/infrastructure/metrics"
	"github.com/rafabene/accounts-api/internal/infrastructure/persistence/database"
	"github.com/rafabene/accounts-api/internal/infrastructure/security"
	"github.com/rafabene/accounts-api/internal/services"
)

//	@title						Accounts API
//	@version					2.0
//	@description				Cadastro, autenticação e gestão de usuários (rotas sem versão, v1 e v2).
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting accounts api",
		"env", cfg.Env,
		"db_driver", cfg.Database.Driver,
		"registration_enabled", cfg.RegistrationEnabled(),
	)
	if !cfg.IsProduction() && cfg.JWT.Secret == config.DefaultJWTSecret {
		logger.Warn("using default JWT secret; set JWT_SECRET outside development")
	}

	// Conectar ao banco de dados
	db, err := database.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Error("failed to migrate database", "error", err)
			log.Fatal(err)
		}
		logger.Info("database migrated")
	}

	// Inicializar i18n
	var i18nService *i18n.Service
	if cfg.I18n.LocalesDir != "" {
		i18nService, err = i18n.NewServiceFromDir(cfg.I18n.LocalesDir, cfg.I18n.DefaultLanguage)
	} else {
		i18nService, err = i18n.NewEmbeddedService(cfg.I18n.DefaultLanguage)
	}
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Segurança: um único segredo para todas as gerações
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	tokens, err := security.NewJWTIssuer(cfg.JWT.Secret, security.WithIssuer(cfg.JWT.Issuer))
	if err != nil {
		logger.Error("failed to initialize token issuer", "error", err)
		log.Fatal(err)
	}

	appMetrics := metrics.New()

	// Inicializar repositories e services
	userRepo := database.NewUserRepository(db)
	uow := database.NewUnitOfWork(db)
	store := services.NewIdentityStore(userRepo, uow, hasher, logger)

	legacyService := services.NewIdentityService(services.LegacyPolicy(cfg.JWT.LegacyExpiry), store, hasher, tokens, appMetrics, logger)
	v1Service := services.NewIdentityService(services.V1Policy(cfg.JWT.V1Expiry), store, hasher, tokens, appMetrics, logger)
	v2Service := services.NewIdentityService(services.V2Policy(cfg.JWT.V2Expiry), store, hasher, tokens, appMetrics, logger)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httphandlers.NewRouter(httphandlers.RouterDeps{
		Config:  cfg,
		Logger:  logger,
		I18n:    i18nService,
		Metrics: appMetrics,
		Tokens:  tokens,
		Pinger:  database.NewPinger(db),
		Legacy:  legacyService,
		V1:      v1Service,
		V2:      v2Service,
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"swagger", cfg.Swagger.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server exited")
}
