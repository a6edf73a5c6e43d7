// Package security sanitises user-controlled names before they reach the
// filesystem.
package security

import (
	"strings"
)

// maxFilenameLen bounds sanitised names.
const maxFilenameLen = 128

// SanitizeFilename maps s onto ASCII letters, digits, '.', '_' and '-'.
// Runs of other characters become a single '_', leading and trailing dots
// and underscores are dropped and the result is capped in length. An empty
// result becomes "unknown".
func SanitizeFilename(s string) string {
	var b strings.Builder
	pendingUnderscore := false
	for _, r := range s {
		if b.Len() >= maxFilenameLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			if pendingUnderscore {
				b.WriteByte('_')
				pendingUnderscore = false
			}
			if r == '_' && strings.HasSuffix(b.String(), "_") {
				continue
			}
			b.WriteRune(r)
		default:
			if !strings.HasSuffix(b.String(), "_") {
				pendingUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if len(out) > maxFilenameLen {
		out = out[:maxFilenameLen]
	}
	if out == "" {
		return "unknown"
	}
	return out
}
