package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, esperado %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlogLogger(t *testing.T) {
	t.Run("deve escrever JSON com atributos do With", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewSlogLoggerTo(&buf, "info").With("component", "test")

		log.Info("user created", "user_id", "42")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("saída não é JSON: %v (%s)", err, buf.String())
		}
		if entry["msg"] != "user created" {
			t.Errorf("msg = %v", entry["msg"])
		}
		if entry["component"] != "test" || entry["user_id"] != "42" {
			t.Errorf("atributos ausentes: %v", entry)
		}
	})

	t.Run("deve filtrar mensagens abaixo do nível", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewSlogLoggerTo(&buf, "warn")

		log.Debug("hidden")
		log.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("esperado nenhuma saída, obtido %s", buf.String())
		}

		log.Error("visible")
		if buf.Len() == 0 {
			t.Error("esperado log de erro")
		}
	})
}
