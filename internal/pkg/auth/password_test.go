package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	hash, err := pm.HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, pm.VerifyPassword("correct horse battery", hash))
	assert.Error(t, pm.VerifyPassword("wrong password", hash))
}

func TestHashPassword_RejectsShortPasswords(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	_, err := pm.HashPassword("short")
	assert.Error(t, err)
}
