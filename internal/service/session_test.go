package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssuer_RoundTrip(t *testing.T) {
	s := NewSessionIssuer("jwt-secret", time.Hour)

	token, err := s.Issue(42)
	require.NoError(t, err)

	id, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestSessionIssuer_Expired(t *testing.T) {
	s := NewSessionIssuer("jwt-secret", time.Minute)
	token, err := s.Issue(42)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionIssuer_WrongSecret(t *testing.T) {
	token, err := NewSessionIssuer("a", time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewSessionIssuer("b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionIssuer_RejectsNoneAlg(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewSessionIssuer("a", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionIssuer_Garbage(t *testing.T) {
	_, err := NewSessionIssuer("a", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
