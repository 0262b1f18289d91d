package auth

import (
	"strings"
	"testing"
	"time"
	"vision-pilot/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "correct-horse-battery-42"

func TestDeriveKey_IsStable(t *testing.T) {
	req := require.New(t)

	first, err := DeriveKey(testSecret)
	req.NoError(err)
	second, err := DeriveKey(testSecret)
	req.NoError(err)
	other, err := DeriveKey(testSecret + "x")
	req.NoError(err)

	req.Len(first, KeyLength)
	req.Equal(first, second)
	req.NotEqual(first, other)
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"Valid secret", testSecret, false},
		{"Empty", "", true},
		{"Too short", "short1", true},
		{"Missing digit", "no-digits-in-this-secret", true},
		{"Missing letter", "1234567890123456", true},
		{"Too long", strings.Repeat("a1", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := ValidateSecret(tt.secret)
			if tt.wantErr {
				req.ErrorIs(err, errors.ErrWeakSecret)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestToken_RoundTrip(t *testing.T) {
	req := require.New(t)
	key := []byte("0123456789abcdef0123456789abcdef")

	token, err := GenerateToken(key, "pilot", time.Minute)
	req.NoError(err)

	claims, err := ValidateToken(key, token)
	req.NoError(err)
	req.Equal("pilot", claims.Caller)
	req.Equal(Issuer, claims.Issuer)

	// Then another key is refused
	_, err = ValidateToken([]byte("another-key-another-key-another!"), token)
	req.ErrorIs(err, jwt.ErrSignatureInvalid)
}

func TestToken_Expired(t *testing.T) {
	req := require.New(t)
	key := []byte("0123456789abcdef0123456789abcdef")

	token, err := GenerateToken(key, "pilot", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(key, token)
	req.ErrorIs(err, jwt.ErrTokenExpired)
}

func BenchmarkDeriveKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = DeriveKey(testSecret)
	}
}
