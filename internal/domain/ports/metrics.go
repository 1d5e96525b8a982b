package ports

// Resultados de tentativa de login
const (
	LoginSucceeded = "success"
	LoginFailed    = "failure"
)

// AuthMetrics registra eventos de autenticação por geração da API
type AuthMetrics interface {
	LoginAttempt(version, outcome string)
	Registered(version string)
}

// NoopAuthMetrics descarta todos os eventos
type NoopAuthMetrics struct{}

func (NoopAuthMetrics) LoginAttempt(string, string) {}
func (NoopAuthMetrics) Registered(string)           {}
