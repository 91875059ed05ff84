package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-management/backend/internal/services"
)

const testSecret = "unit-test-secret"

func newTestJWTService(t *testing.T) *services.JWTService {
	t.Setenv("JWT_SECRET", testSecret)
	return services.NewJWTService()
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken(1, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateToken_TamperedSignature(t *testing.T) {
	svc := newTestJWTService(t)

	// 別のシークレットで署名されたトークンは拒否されること
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  float64(1),
		"username": "alice",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	forgedString, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(forgedString)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService(t)

	// 正しいシークレットでも期限切れなら拒否されること
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  float64(1),
		"username": "alice",
		"iat":      time.Now().Add(-2 * time.Hour).Unix(),
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(expiredString)
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestJWTService(t)

	_, err := svc.ValidateToken("not.a.jwt")
	require.Error(t, err)
}

func TestValidateToken_MissingClaims(t *testing.T) {
	svc := newTestJWTService(t)

	// user_id クレームが無いトークンは拒否されること
	incomplete := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	incompleteString, err := incomplete.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(incompleteString)
	require.Error(t, err)
}
