package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	for _, id := range []uint64{1, 7, 42, 18446744073709551615} {
		token, err := NewToken(testSecret, id)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestTokenClaims(t *testing.T) {
	t.Parallel()

	token, err := NewToken(testSecret, 7)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)

	assert.Equal(t, "7", claims["sub"], "subject must be the string form of the id")

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	assert.Equal(t, int64(7*24*3600), exp-iat, "expiry is issued-at plus seven days")
	assert.WithinDuration(t, time.Now(), time.Unix(iat, 0), 5*time.Second)
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewToken("some-other-secret", 7)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	t.Parallel()

	// Valid signature, exp in the past.
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": "7",
		"iat": now.Add(-8 * 24 * time.Hour).Unix(),
		"exp": now.Add(-24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenMalformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := ParseToken(testSecret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestParseTokenNonNumericSubject(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"sub": "not-a-number",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(7, 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
