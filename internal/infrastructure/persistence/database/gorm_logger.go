package database

import (
	"fmt"
	"time"

	"gorm.io/gorm/logger"

	"github.com/rafabene/accounts-api/internal/domain/ports"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormWriter encaminha as linhas do logger do gorm para o ports.Logger da aplicação
type gormWriter struct {
	log ports.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warn("gorm", "detail", fmt.Sprintf(format, args...))
}

// NewGormLogger cria o logger do gorm sobre ports.Logger.
// As queries saem parametrizadas: valores como password_hash nunca chegam ao log.
func NewGormLogger(log ports.Logger) logger.Interface {
	return logger.New(gormWriter{log: log.With("component", "gorm")}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}
