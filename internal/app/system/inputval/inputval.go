// Package inputval holds the field-level validators shared by the
// entity services. Validators report problems as structured field
// errors rather than panics or flow-control exceptions.
package inputval

import (
	"net/mail"
	"strings"
)

// SiretLength is the exact digit count of a French SIRET number.
const SiretLength = 14

// FieldError names an offending field and why it was rejected.
type FieldError struct {
	Field string
	Msg   string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Msg }

// IsValidEmail reports whether s parses as a bare RFC 5322 address
// (display-name forms are rejected).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts "Name <a@b>" forms; the stored value
	// must be the bare address.
	return addr.Address == s
}

// IsValidSiret reports whether s is exactly SiretLength digits.
func IsValidSiret(s string) bool {
	if len(s) != SiretLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Required appends a FieldError when value is blank.
func Required(errs []FieldError, field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		errs = append(errs, FieldError{Field: field, Msg: "is required"})
	}
	return errs
}

// OneOf appends a FieldError when value is not in allowed. Blank
// values pass; pair with Required for mandatory enums.
func OneOf(errs []FieldError, field, value string, allowed []string) []FieldError {
	if value == "" {
		return errs
	}
	for _, a := range allowed {
		if value == a {
			return errs
		}
	}
	return append(errs, FieldError{Field: field, Msg: "must be one of " + strings.Join(allowed, "|")})
}
