package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachhq/teach-backend/internal/app/models"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret-key-for-tests-only",
		AccessTokenExp: exp,
		TokenIssuer:    "teach-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)
	user := &models.User{
		ID:       42,
		Email:    "sarah@teach.dev",
		RoleType: models.RoleTeacher,
	}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "sarah@teach.dev", claims.Email)
	assert.Equal(t, string(models.RoleTeacher), claims.RoleType)
	assert.Equal(t, "teach-test", claims.Issuer)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, err := svc.GenerateToken(&models.User{ID: 1, Email: "x@teach.dev", RoleType: models.RoleTeacher})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	token, err := svc.GenerateToken(&models.User{ID: 1, Email: "x@teach.dev", RoleType: models.RoleTeacher})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:      "a-completely-different-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "teach-test",
	})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer prefix", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "raw token", header: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("teach-demo-password")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "teach-demo-password"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}
