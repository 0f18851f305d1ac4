package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("u1", "staff@example.com", "coachtrack", "secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExp.After(pair.AccessExp))

	claims, err := Parse(pair.AccessToken, "secret", "coachtrack")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "staff@example.com", claims.Email)
}

func TestParseRejectsRefreshToken(t *testing.T) {
	pair, err := Issue("u1", "staff@example.com", "coachtrack", "secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.RefreshToken, "secret", "coachtrack")
	assert.Error(t, err)
}

func TestParseWrongKey(t *testing.T) {
	pair, err := Issue("u1", "staff@example.com", "coachtrack", "secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-secret", "coachtrack")
	assert.Error(t, err)
}

func TestParseIssuerMismatch(t *testing.T) {
	pair, err := Issue("u1", "staff@example.com", "someone-else", "secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "coachtrack")
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	pair, err := Issue("u1", "staff@example.com", "coachtrack", "secret", -time.Minute, 24*time.Hour)
	require.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "coachtrack")
	assert.Error(t, err)
}
