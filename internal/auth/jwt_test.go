// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tourbook/internal/config"
	"github.com/carterperez-dev/tourbook/internal/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokenManager(t *testing.T, expire time.Duration) *TokenManager {
	t.Helper()

	tm, err := NewTokenManager(config.JWTConfig{
		Secret: testSecret,
		Expire: expire,
		Issuer: "tourbook-test",
	})
	require.NoError(t, err)

	return tm
}

func TestSignVerifyRoundTrip(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)

	token, err := tm.Sign("662fb1e4c8a9f1d2e3a4b5c6")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "662fb1e4c8a9f1d2e3a4b5c6", claims.UserID)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := newTestTokenManager(t, -time.Minute)

	token, err := tm.Sign("662fb1e4c8a9f1d2e3a4b5c6")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyGarbageToken(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)

	_, err := tm.Verify("not.a.token")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)

	other, err := NewTokenManager(config.JWTConfig{
		Secret: "ffffffffffffffffffffffffffffffff",
		Expire: time.Hour,
		Issuer: "tourbook-test",
	})
	require.NoError(t, err)

	token, err := other.Sign("662fb1e4c8a9f1d2e3a4b5c6")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyWrongIssuer(t *testing.T) {
	tm := newTestTokenManager(t, time.Hour)

	other, err := NewTokenManager(config.JWTConfig{
		Secret: testSecret,
		Expire: time.Hour,
		Issuer: "someone-else",
	})
	require.NoError(t, err)

	token, err := other.Sign("662fb1e4c8a9f1d2e3a4b5c6")
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.Error(t, err)
}
