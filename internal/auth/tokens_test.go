package auth

import (
	"context"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "ledger-test-secret"

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestTokens_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	tokens, err := NewTokens(testSecret, "pointledger")
	require.NoError(t, err)
	tokens = tokens.WithClock(fixedClock(now))

	for _, c := range []Caller{{UserID: 1, IsAdmin: true}, {UserID: 42}} {
		signed, err := tokens.Issue(c, time.Hour)
		require.NoError(t, err)

		got, err := tokens.Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestTokens_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	base, err := NewTokens(testSecret, "pointledger")
	require.NoError(t, err)
	base = base.WithClock(fixedClock(now))

	otherIssuer, err := NewTokens(testSecret, "someone-else")
	require.NoError(t, err)
	otherIssuer = otherIssuer.WithClock(fixedClock(now))

	otherSecret, err := NewTokens("another-secret", "pointledger")
	require.NoError(t, err)
	otherSecret = otherSecret.WithClock(fixedClock(now))

	expired, err := base.WithClock(fixedClock(now.Add(-2*time.Hour))).Issue(Caller{UserID: 1}, time.Hour)
	require.NoError(t, err)

	wrongIss, err := otherIssuer.Issue(Caller{UserID: 1}, time.Hour)
	require.NoError(t, err)

	wrongKey, err := otherSecret.Issue(Caller{UserID: 1}, time.Hour)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    "pointledger",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", Issuer: "pointledger"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong_issuer": wrongIss,
		"wrong_secret": wrongKey,
		"bad_subject":  badSubject,
		"no_expiry":    noExpiry,
		"garbage":      "not.a.token",
		"empty":        "",
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := base.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokens("  ", "pointledger")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestCallerContext(t *testing.T) {
	t.Parallel()

	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	ctx := WithCaller(context.Background(), Caller{UserID: 7})
	c, ok := CallerFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), c.UserID)

	assert.True(t, c.CanActFor(7))
	assert.False(t, c.CanActFor(8))
	assert.True(t, Caller{UserID: 1, IsAdmin: true}.CanActFor(8))
}
