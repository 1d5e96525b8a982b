package middleware

import (
	"sort"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/rafabene/accounts-api/internal/infrastructure/i18n"
)

const (
	// LanguageContextKey é a chave usada para armazenar o idioma no contexto do Gin
	LanguageContextKey = "language"
	// I18nServiceContextKey é a chave usada para armazenar o serviço i18n no contexto
	I18nServiceContextKey = "i18n_service"
)

// I18nMiddleware escolhe o idioma das mensagens de cada requisição
type I18nMiddleware struct {
	i18nService *i18n.Service
	// byBase mapeia o idioma base ("pt") para uma tradução disponível ("pt-BR")
	byBase map[string]string
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	supported := i18nService.GetSupportedLanguages()
	sort.Strings(supported)

	byBase := make(map[string]string, len(supported))
	for _, lang := range supported {
		tag, err := language.Parse(lang)
		if err != nil {
			continue
		}
		base, _ := tag.Base()
		if _, taken := byBase[base.String()]; !taken {
			byBase[base.String()] = lang
		}
	}

	return &I18nMiddleware{
		i18nService: i18nService,
		byBase:      byBase,
	}
}

// DetectLanguage detecta e configura o idioma da requisição
// Prioridade:
// 1. Query parameter ?lang=pt-BR (override explícito)
// 2. Accept-Language header, respeitando os pesos q
// 3. Idioma padrão (fallback)
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if !m.i18nService.IsLanguageSupported(lang) {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		if lang == "" {
			lang = m.i18nService.GetDefaultLanguage()
		}

		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, m.i18nService)

		c.Next()
	}
}

// parseAcceptLanguage retorna o idioma suportado de maior peso no header, ou "".
// "pt" casa com "pt-BR" e "es-MX" casa com "es" quando só a tradução regional ou base existe.
func (m *I18nMiddleware) parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return ""
	}

	tags, weights, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil {
		return ""
	}

	for i, tag := range tags {
		if weights[i] <= 0 {
			continue
		}
		if lang := tag.String(); m.i18nService.IsLanguageSupported(lang) {
			return lang
		}
		base, confidence := tag.Base()
		if confidence == language.No {
			continue
		}
		if lang, ok := m.byBase[base.String()]; ok {
			return lang
		}
	}

	return ""
}
