package auth

import (
	"testing"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	email, name := "ali@example.com", "Ali"
	issuer := NewIssuer([]byte("secret"), time.Hour)

	raw, err := issuer.Issue(&model.User{ID: 7, Email: &email, Name: &name})
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, email, claims.Email)
	assert.Equal(t, name, claims.Name)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	secret := []byte("secret")
	issuer := NewIssuer(secret, time.Hour)

	expired := NewIssuer(secret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Issue(&model.User{ID: 1})
	require.NoError(t, err)

	foreign, err := NewIssuer([]byte("other"), time.Hour).Issue(&model.User{ID: 1})
	require.NoError(t, err)

	noUser, err := issuer.Issue(&model.User{})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"expired":     expiredToken,
		"wrong key":   foreign,
		"no user id":  noUser,
		"alg none":    none,
		"not a token": "abc",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(raw, secret)
			assert.Error(t, err)
		})
	}
}
