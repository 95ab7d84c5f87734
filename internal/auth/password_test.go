package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hashed)

	require.True(t, CheckPassword(hashed, "hunter22"))
	require.False(t, CheckPassword(hashed, "hunter23"))
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("hunter22")
	require.NoError(t, err)
	second, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
