package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carpool-service/pkg/config"
)

func testManager(t *testing.T, secret string, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewManager(&config.Config{JWT: config.JWTConfig{Secret: secret, Expiration: ttl}})
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(&config.Config{})
	assert.Error(t, err)
}

func TestGenerateAndValidate(t *testing.T) {
	m := testManager(t, "test-secret", time.Hour)

	tok, err := m.Generate("user-1", "asha@example.com")
	require.NoError(t, err)

	claims, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidate_Expired(t *testing.T) {
	m := testManager(t, "test-secret", -time.Minute)

	tok, err := m.Generate("user-1", "asha@example.com")
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := testManager(t, "secret-a", time.Hour)
	verifier := testManager(t, "secret-b", time.Hour)

	tok, err := issuer.Generate("user-1", "asha@example.com")
	require.NoError(t, err)

	_, err = verifier.Validate(tok)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrExpired)
}

func TestValidate_Garbage(t *testing.T) {
	m := testManager(t, "test-secret", time.Hour)
	_, err := m.Validate("not.a.token")
	assert.Error(t, err)
}
