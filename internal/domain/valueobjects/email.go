package valueobjects

import (
	"strings"
)

// NormalizeEmail aplica trim e lower-case sem validar o formato.
// O formato é checado pelos validators apenas nas gerações que o exigem.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
