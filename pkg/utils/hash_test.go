package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashStringsIsStable(t *testing.T) {
	assert.Equal(t, HashStrings("a", "b"), HashStrings("a", "b"))
}

func TestHashStringsDistinguishesBoundaries(t *testing.T) {
	assert.NotEqual(t, HashStrings("ab", "c"), HashStrings("a", "bc"))
	assert.NotEqual(t, HashStrings("a", ""), HashStrings("", "a"))
	assert.NotEqual(t, HashStrings("a"), HashStrings("a", ""))
}

func TestHashStringsHexLength(t *testing.T) {
	assert.Len(t, HashStrings("anything"), 64)
}
