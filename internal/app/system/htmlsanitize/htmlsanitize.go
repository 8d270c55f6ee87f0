// Package htmlsanitize strips unsafe HTML from user-supplied rich
// text before it is persisted.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Sanitize removes scripts, event handlers, and unsafe URLs while
// keeping common formatting tags.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
