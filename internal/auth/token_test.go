package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, issuedAt, expiresAt time.Time, subjectID int64) string {
	t.Helper()
	claims := &Claims{
		UserID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, expiresAt, err := tm.Generate(80088516616269824)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(80088516616269824), identity.SubjectID)
	assert.WithinDuration(t, expiresAt, identity.ExpiresAt, time.Second)
	assert.True(t, identity.ExpiresAt.After(identity.IssuedAt))
}

func TestParseExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	token := signToken(t, testSecret, time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour), 1)

	_, err := tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTamperedSignature(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	token := signToken(t, "some-other-secret", time.Now(), time.Now().Add(time.Hour), 1)

	_, err := tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestParseTamperedSignatureBeatsExpiry(t *testing.T) {
	// A bad signature is rejected as such even when the token is also expired.
	tm := NewTokenManager(testSecret, 60)
	token := signToken(t, "some-other-secret", time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour), 1)

	_, err := tm.Parse(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestParseMalformedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := tm.Parse(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestParseRejectsUnexpectedSigningMethod(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, parseErr := tm.Parse(unsigned)
	assert.Error(t, parseErr)
}
