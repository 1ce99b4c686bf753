// Package redact provides utilities for redacting sensitive information
// from strings before they are logged. This keeps credentials, bearer
// tokens, connection strings, and addresses out of log output.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// Precompiled regex patterns
var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Password key/value fragments. The key may be bare (query strings,
	// env-style assignments) or quoted (JSON bodies).
	passwordRegex = regexp.MustCompile(`(?i)("?)(password|passwd|pwd)("?\s*[=:]\s*['"]?)[^'"&\s]{3,}`)

	// JWT tokens: three base64url segments starting with the standard header
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
)

// String redacts sensitive fragments from s.
func String(s string) string {
	if s == "" {
		return s
	}
	s = dbConnRegex.ReplaceAllString(s, "$1://"+RedactedCredentialPlaceholder+"@")
	s = passwordRegex.ReplaceAllString(s, "$1$2$3"+RedactedCredentialPlaceholder)
	s = jwtTokenRegex.ReplaceAllString(s, RedactedTokenPlaceholder)
	s = emailRegex.ReplaceAllString(s, RedactedEmailPlaceholder)
	return s
}

// Error redacts an error's message. A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
