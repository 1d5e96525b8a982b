package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Headers de versionamento
const (
	HeaderAPIVersion           = "X-API-Version"
	HeaderAPIVersionDeprecated = "X-API-Version-Deprecated"
	HeaderAPIDeprecationDate   = "X-API-Deprecation-Date"
	HeaderDeprecation          = "Deprecation"
	HeaderSunset               = "Sunset"
)

// VersionContextKey guarda a versão da rota no contexto do Gin
const VersionContextKey = "api_version"

// VersionInfo descreve o estado de uma geração da API
type VersionInfo struct {
	Version         string
	Deprecated      bool
	DeprecationDate string // YYYY-MM-DD; vazio vira "TBD"
}

// APIVersion adiciona os headers de versão; versões depreciadas recebem
// também os marcadores de depreciação e, se a data for válida, o Sunset
func APIVersion(info VersionInfo) gin.HandlerFunc {
	date := info.DeprecationDate
	if date == "" {
		date = "TBD"
	}

	var sunset string
	if t, err := time.Parse(time.DateOnly, info.DeprecationDate); err == nil {
		sunset = t.UTC().Format(http.TimeFormat)
	}

	return func(c *gin.Context) {
		c.Header(HeaderAPIVersion, info.Version)
		if info.Deprecated {
			c.Header(HeaderAPIVersionDeprecated, "true")
			c.Header(HeaderAPIDeprecationDate, date)
			c.Header(HeaderDeprecation, "true")
			if sunset != "" {
				c.Header(HeaderSunset, sunset)
			}
		}
		c.Set(VersionContextKey, info.Version)
		c.Next()
	}
}
