// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-entered identity strings before
// they are stored or compared. Email comparison anywhere in the app must
// go through Email on both sides.
package normalize

import "strings"

// Email lowercases and trims an address for storage and comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace; case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}
