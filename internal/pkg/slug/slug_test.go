package slug

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Launch", "acme-launch"},
		{"punctuation stripped", "Acme Launch!!!", "acme-launch"},
		{"whitespace collapsed", "Acme   \t Launch", "acme-launch"},
		{"hyphen runs collapsed", "acme---launch", "acme-launch"},
		{"leading and trailing trimmed", "  -Acme Launch- ", "acme-launch"},
		{"digits kept", "Acme Relaunch 2.0", "acme-relaunch-20"},
		{"unicode stripped", "Café Déployé", "caf-dploy"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Acme Launch", "acme-launch", "  A--B  C  ", "2.0 Release!", "", "---", "already-a-slug",
	}
	for _, in := range inputs {
		once := Make(in)
		assert.Equal(t, once, Make(once), "Make must be idempotent for %q", in)
	}
}

func TestMake_OutputAlphabet(t *testing.T) {
	// every printable-ASCII input maps into [a-z0-9-] with no leading,
	// trailing or doubled hyphen
	var b strings.Builder
	for r := rune(32); r < 127; r++ {
		b.WriteRune(r)
	}
	inputs := []string{b.String(), "a !@# b", "--x--", "MiXeD CaSe 42"}
	for _, in := range inputs {
		out := Make(in)
		assert.NotContains(t, out, "--")
		assert.False(t, strings.HasPrefix(out, "-"))
		assert.False(t, strings.HasSuffix(out, "-"))
		for _, r := range out {
			ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			assert.True(t, ok, "unexpected rune %q in %q", r, out)
		}
	}
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID(uuid.New().String()))
	assert.True(t, IsUUID(strings.ToUpper(uuid.New().String())))
	assert.False(t, IsUUID("acme-launch"))
	assert.False(t, IsUUID(""))
	assert.False(t, IsUUID("1234"))
	// 32 hex chars without hyphens are a slug as far as lookup goes
	assert.False(t, IsUUID(strings.ReplaceAll(uuid.New().String(), "-", "")))
}
