package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	token, exp, err := Generate("secret", "deployer", "lifecycle", time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := Verify(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "deployer", claims.Subject)
	assert.Equal(t, "lifecycle", claims.Scope)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, _, err := Generate("secret", "deployer", "", time.Minute)
	require.NoError(t, err)

	_, err = Verify(token, "other")
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	token, _, err := Generate("secret", "deployer", "", -time.Minute)
	require.NoError(t, err)

	_, err = Verify(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Verify(signed, "secret")
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := Verify("not-a-token", "secret")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lower case scheme", "bearer abc", "abc", false},
		{"missing", "", "", true},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, "/lifecycle/install", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := BearerToken(r)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
