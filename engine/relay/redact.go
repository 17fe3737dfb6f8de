package relay

import (
	"regexp"
	"strings"
)

// Precompiled patterns for token shapes in error/log strings.
var (
	jwtRe         = regexp.MustCompile(`\b(eyJ[A-Za-z0-9_\-]+\.eyJ[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+)\b`)
	bearerTokenRe = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-\._~\+\/]+=*`)
	kvSecretRe    = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|password|pass|pwd|credential|auth|authorization_token|access_token|refresh_token)\s*[:=]\s*["']?[^"'\s]+["']?`,
	)
)

// RedactString trims, truncates, and scrubs token-shaped content so the
// result is safe for structured log lines and error messages. Run log files
// are exempt: they record the raw exchange on purpose.
func RedactString(s string) string {
	const maxLen = 256
	s = strings.TrimSpace(s)
	s = jwtRe.ReplaceAllString(s, "[JWT_REDACTED]")
	s = bearerTokenRe.ReplaceAllString(s, "$1[REDACTED]")
	s = kvSecretRe.ReplaceAllString(s, "$1=[REDACTED]")
	if len(s) > maxLen {
		s = s[:maxLen] + "…"
	}
	return s
}

// RedactError applies RedactString to an error, returning an empty string when nil.
func RedactError(err error) string {
	if err == nil {
		return ""
	}
	return RedactString(err.Error())
}
