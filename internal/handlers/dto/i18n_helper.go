package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/accounts-api/internal/handlers/middleware"
)

// fallbackLanguage é usado quando o middleware de i18n não rodou
const fallbackLanguage = "en"

// Translator é o subconjunto do serviço de i18n usado pelas respostas
type Translator interface {
	T(lang, key string, params ...map[string]interface{}) string
}

// T traduz key no idioma da requisição. Sem tradutor no contexto devolve a própria chave.
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	translator, ok := c.Value(middleware.I18nServiceContextKey).(Translator)
	if !ok {
		return key
	}
	return translator.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma detectado para a requisição
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(middleware.LanguageContextKey); lang != "" {
		return lang
	}
	return fallbackLanguage
}
