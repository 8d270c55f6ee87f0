// Package normalize holds the canonical forms fields are stored in.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a name and collapses interior whitespace runs to one space.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text trims surrounding whitespace from free text.
func Text(s string) string {
	return strings.TrimSpace(s)
}
