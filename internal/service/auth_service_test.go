package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/strategy-ledger/internal/config"
	"github.com/strategy-ledger/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "s3cret", Issuer: "strategy-ledger", ExpireHours: 1}
}

func TestIssueAndValidateToken(t *testing.T) {
	auth := service.NewAuthService(testJWTConfig())

	token, err := auth.IssueToken("dashboard")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, 3600, token.ExpiresIn)

	claims, err := auth.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "dashboard", claims.Client)
}

func TestValidateTokenRejects(t *testing.T) {
	auth := service.NewAuthService(testJWTConfig())

	other := testJWTConfig()
	other.Secret = "different"
	forged, err := service.NewAuthService(other).IssueToken("dashboard")
	require.NoError(t, err)

	wrongIssuer := testJWTConfig()
	wrongIssuer.Issuer = "someone-else"
	foreign, err := service.NewAuthService(wrongIssuer).IssueToken("dashboard")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &service.JWTClaims{
		Client: "dashboard",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "strategy-ledger",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredString, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": forged.AccessToken,
		"wrong issuer": foreign.AccessToken,
		"expired":      expiredString,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ValidateToken(token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}

func TestAuthDisabled(t *testing.T) {
	auth := service.NewAuthService(config.JWTConfig{})
	assert.False(t, auth.Enabled())

	_, err := auth.IssueToken("dashboard")
	assert.ErrorIs(t, err, service.ErrAuthDisabled)
}
