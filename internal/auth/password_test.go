package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "admin123"},
		{name: "single character", password: "x"},
		{name: "empty password", password: "", wantErr: ErrPasswordEmpty},
		{name: "password at maximum length", password: strings.Repeat("a", 72)},
		{name: "password too long", password: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, bcrypt.MinCost)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
		})
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, CheckPassword("correct horse", hash))
	assert.ErrorIs(t, CheckPassword("Correct horse", hash), ErrInvalidPassword)
	assert.ErrorIs(t, CheckPassword("", hash), ErrInvalidPassword)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	err := CheckPassword("anything", "not-a-bcrypt-hash")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPassword)
}

func TestGenerateSessionSecret(t *testing.T) {
	a, err := GenerateSessionSecret()
	require.NoError(t, err)
	b, err := GenerateSessionSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
