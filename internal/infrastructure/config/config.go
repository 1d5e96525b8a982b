package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Ambientes suportados
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Drivers de banco suportados
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultJWTSecret só é aceito fora de produção
const DefaultJWTSecret = "dev-secret-change-me"

var (
	ErrUnknownEnv      = errors.New("config: unknown ENV")
	ErrUnknownDriver   = errors.New("config: unknown DB_DRIVER")
	ErrInsecureSecret  = errors.New("config: JWT_SECRET must be set in production")
	ErrInvalidDuration = errors.New("config: token expirations must be positive")
)

// Config contém todas as configurações da aplicação.
// É construída uma vez na inicialização e injetada; nunca alterada depois.
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	API      APIConfig
	I18n     I18nConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	Swagger  SwaggerConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807
}

// Addr retorna host:port para o http.Server
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Driver      string
	URL         string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	SQLitePath  string
	AutoMigrate bool
}

type JWTConfig struct {
	Secret string
	Issuer string
	// Expirações por geração da API
	LegacyExpiry time.Duration
	V1Expiry     time.Duration
	V2Expiry     time.Duration
}

type SecurityConfig struct {
	BcryptCost int
}

type APIConfig struct {
	V1DeprecationDate string
}

type I18nConfig struct {
	DefaultLanguage string
	LocalesDir      string
}

type LoggingConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins string
}

// Origins separa a lista de origens por vírgula
func (c CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

type SwaggerConfig struct {
	Enabled bool
}

// Load carrega as configurações do arquivo .env e do ambiente
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom carrega o arquivo informado (se existir) e lê o ambiente.
// Variáveis já definidas no ambiente têm precedência sobre o arquivo.
func LoadFrom(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	env := strings.ToLower(v.GetString("ENV"))
	v.SetDefault("SWAGGER_ENABLED", env != EnvProduction)
	v.SetDefault("DB_AUTO_MIGRATE", env != EnvProduction)

	config := &Config{
		Env: env,
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			URL:         v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			SQLitePath:  v.GetString("DB_SQLITE_PATH"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			Issuer:       v.GetString("JWT_ISSUER"),
			LegacyExpiry: v.GetDuration("TOKEN_EXPIRATION"),
			V1Expiry:     v.GetDuration("JWT_V1_EXPIRATION"),
			V2Expiry:     v.GetDuration("JWT_EXPIRATION"),
		},
		Security: SecurityConfig{
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		API: APIConfig{
			V1DeprecationDate: v.GetString("V1_DEPRECATION_DATE"),
		},
		I18n: I18nConfig{
			DefaultLanguage: v.GetString("I18N_DEFAULT_LANGUAGE"),
			LocalesDir:      v.GetString("I18N_LOCALES_DIR"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("SWAGGER_ENABLED"),
		},
	}

	if config.JWT.Secret == "" && config.Env != EnvProduction {
		config.JWT.Secret = DefaultJWTSecret
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "accounts")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("DB_SQLITE_PATH", "accounts.db")

	v.SetDefault("TOKEN_EXPIRATION", time.Hour)
	v.SetDefault("JWT_V1_EXPIRATION", 8*time.Hour)
	v.SetDefault("JWT_EXPIRATION", time.Hour)
	v.SetDefault("JWT_ISSUER", "accounts-api")
	v.SetDefault("BCRYPT_COST", 11)

	v.SetDefault("V1_DEPRECATION_DATE", "2025-12-31")
	v.SetDefault("I18N_DEFAULT_LANGUAGE", "en")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// Validate verifica a consistência das configurações
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvTest, EnvProduction:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEnv, c.Env)
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	if c.Env == EnvProduction && (c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret) {
		return ErrInsecureSecret
	}

	if c.JWT.LegacyExpiry <= 0 || c.JWT.V1Expiry <= 0 || c.JWT.V2Expiry <= 0 {
		return ErrInvalidDuration
	}

	return nil
}

// RegistrationEnabled indica se as rotas de cadastro ficam expostas (apenas development e test)
func (c *Config) RegistrationEnabled() bool {
	return c.Env == EnvDevelopment || c.Env == EnvTest
}

// IsProduction indica se o ambiente é produção
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
