package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(sub string, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: "authenticated",
	}
}

func TestJWT_ParseAccessToken(t *testing.T) {
	j := NewJWT("secret")
	u := uuid.New()

	got, err := j.ParseAccessToken(sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims(u.String(), time.Minute)))
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestJWT_ParseAccessToken_Errors(t *testing.T) {
	j := NewJWT("secret")
	u := uuid.New()

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "expired",
			token: sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims(u.String(), -time.Minute)),
		},
		{
			name:  "wrong secret",
			token: sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims(u.String(), time.Minute)),
		},
		{
			name:  "subject is not a uuid",
			token: sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims("anon", time.Minute)),
		},
		{
			name: "no expiry",
			token: sign(t, jwt.SigningMethodHS256, []byte("secret"), Claims{
				RegisteredClaims: jwt.RegisteredClaims{Subject: u.String()},
			}),
		},
		{
			name:  "unsigned",
			token: sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims(u.String(), time.Minute)),
		},
		{
			name:  "garbage",
			token: "not-a-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.ParseAccessToken(tt.token)
			require.Error(t, err)
			require.Equal(t, uuid.Nil, got)
		})
	}
}
