package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("test-secret")
	expiresAt := time.Now().Add(time.Hour)

	token, err := svc.GenerateToken(42, "julieta", "admin", "session-1", expiresAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "julieta", claims.Username)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "session-1", claims.SessionID)
	require.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewService("secret-a").GenerateToken(1, "u", "editor", "s", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = NewService("secret-b").ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewService("test-secret")
	token, err := svc.GenerateToken(1, "u", "editor", "s", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenEmpty(t *testing.T) {
	_, err := NewService("test-secret").ValidateToken("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := NewService("test-secret").ValidateToken("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"empty header", "", ""},
		{"missing token", "Bearer", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"extra whitespace", "Bearer   abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractBearerToken(tt.header))
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, CheckPassword(hash, "correct horse battery staple"))
	require.False(t, CheckPassword(hash, "wrong password"))
	require.False(t, CheckPassword("not-a-hash", "anything"))
}
