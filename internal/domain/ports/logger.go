package ports

// Logger define o contrato de log estruturado usado por serviços, handlers e infraestrutura.
// args seguem a convenção chave/valor do slog ("user_id", id, ...).
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}
