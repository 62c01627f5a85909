package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWTToken("42", "vendedor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	tenant, rol, err := ParseJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", tenant)
	assert.Equal(t, "vendedor", rol)
}

func TestParseJWTToken_Invalid(t *testing.T) {
	_, _, err := ParseJWTToken("not-a-token")
	assert.Error(t, err)
}
