package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("secreto123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secreto123", hash)

	assert.NoError(t, CompareHash(hash, "secreto123"))
	assert.Error(t, CompareHash(hash, "otracontrasena"))
}

func TestGenerateTemporary(t *testing.T) {
	first, err := GenerateTemporary(8)
	require.NoError(t, err)
	assert.Len(t, first, 8)

	second, err := GenerateTemporary(8)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "temporary passwords should not repeat")

	for _, r := range first {
		assert.Contains(t, tempAlphabet, string(r))
	}
}
