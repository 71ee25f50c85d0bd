package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	v := NewTokenValidator(secret)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:  "valid",
			token: sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{UserID: 7, Role: "member", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: future}}),
		},
		{
			name:    "expired",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{UserID: 7, Role: "member", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: past}}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong secret",
			token:   sign(t, jwt.SigningMethodHS256, []byte("other"), Claims{UserID: 7, Role: "member"}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "wrong algorithm",
			token:   sign(t, jwt.SigningMethodHS512, []byte(secret), Claims{UserID: 7, Role: "member"}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "missing user",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{Role: "admin"}),
			wantErr: ErrMissingClaim,
		},
		{
			name:    "missing role",
			token:   sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{UserID: 7}),
			wantErr: ErrMissingClaim,
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.ValidateToken(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(7), claims.UserID)
			assert.Equal(t, "member", claims.Role)
		})
	}
}
