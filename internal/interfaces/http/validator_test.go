package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "caneca", SanitizeString("ca\x00neca"))
	assert.Equal(t, "olá", SanitizeString("ol\xffá"))
	assert.Equal(t, "preço", SanitizeString("preço"))
}

func TestValidateLength(t *testing.T) {
	assert.True(t, ValidateLength("oi", 1, 10))
	assert.False(t, ValidateLength("", 1, 10))
	assert.False(t, ValidateLength("abcdef", 1, 5))
}
