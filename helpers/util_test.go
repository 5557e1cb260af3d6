package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpace(t *testing.T) {
	assert.Equal(t, "Hisa 120 m2", NormalizeSpace("  Hisa \n\t 120   m2 "))
	assert.Equal(t, "", NormalizeSpace("   \n  "))
	assert.Equal(t, "a b", NormalizeSpace("a b"))
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a | b", JoinNonEmpty(" | ", "a", "", "b"))
	assert.Equal(t, "a", JoinNonEmpty(" | ", "", "a", ""))
	assert.Equal(t, "", JoinNonEmpty(" | ", "", ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
}
