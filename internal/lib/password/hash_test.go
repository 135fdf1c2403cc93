package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHash_And_CompareHash(t *testing.T) {
	hash, err := GetHash("pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "pw1", hash)

	assert.NoError(t, CompareHash(hash, "pw1"))
	assert.Error(t, CompareHash(hash, "pw2"))
}

func TestGetHash_UniquePerCall(t *testing.T) {
	first, err := GetHash("same_password")
	require.NoError(t, err)
	second, err := GetHash("same_password")
	require.NoError(t, err)

	// Соль генерируется заново на каждый вызов
	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "same_password"))
	assert.NoError(t, CompareHash(second, "same_password"))
}

func TestCompareHash_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty hash", hash: ""},
		{name: "not a bcrypt hash", hash: "plaintext-in-db"},
		{name: "truncated hash", hash: "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, CompareHash(tt.hash, "whatever"))
		})
	}
}
