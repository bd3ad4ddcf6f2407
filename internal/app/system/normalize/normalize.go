// internal/app/system/normalize/normalize.go

// Package normalize trims and canonicalizes user-supplied identity fields
// before they are validated or written to the store.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are stored and
// compared in this canonical form; the unique index relies on it.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role string for comparison.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Keyword lowercases and trims an enumerated field such as a priority
// or a status.
func Keyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
