// Package slug normalizes project names into URL-safe slugs and
// classifies lookup identifiers as store-native UUIDs or slugs.
package slug

import (
	"strings"

	"github.com/google/uuid"
)

// Make lowercases name, strips every character outside [a-z0-9 -],
// collapses whitespace and hyphen runs into single hyphens and trims
// leading/trailing hyphens. Idempotent: Make(Make(x)) == Make(x).
func Make(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '-':
			b.WriteByte('-')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}

// IsUUID reports whether identifier matches the canonical 8-4-4-4-12
// hexadecimal grouping, case-insensitive. Anything else is treated as a
// slug by the lookup paths.
func IsUUID(identifier string) bool {
	if len(identifier) != 36 {
		return false
	}
	_, err := uuid.Parse(identifier)
	return err == nil
}
