package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver recebe o resultado de cada requisição
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Metrics registra contagem e latência por rota (template, não path)
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		observer.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
