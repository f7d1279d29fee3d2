package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "orgstruct-test",
		MaxRefreshCount:        10,
	})
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		UserID:       uuid.New(),
		Username:     "zone-admin",
		RoleIDs:      []uuid.UUID{uuid.New(), uuid.New()},
		Capabilities: []string{"work:view", "work:create", "zone:view"},
	}
}

func TestNewJWTService_FallsBackToAccessSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.Before(pair.RefreshTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Username, claims.Username)
	assert.Equal(t, input.Capabilities, claims.Capabilities)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "orgstruct-test", claims.Issuer)

	userUUID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userUUID)

	roleUUIDs, err := claims.GetRoleUUIDs()
	require.NoError(t, err)
	assert.Equal(t, input.RoleIDs, roleUUIDs)
}

func TestValidateAccessToken_Failures(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token rejected as access", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-signing-key",
			AccessTokenExpiration: time.Minute,
		})
		foreign, err := other.GenerateTokenPair(newTestInput())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(foreign.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			RefreshSecret:          "test-refresh-secret-key-32-chars",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "orgstruct-test",
		})
		stale, err := expired.GenerateTokenPair(newTestInput())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(stale.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Zero(t, claims.RefreshCount)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	// Capabilities are re-resolved on refresh, simulating a revoked grant.
	newPair, err := svc.RefreshTokenPair(pair.RefreshToken, []string{"work:view"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"work:view"}, claims.Capabilities)
	assert.Equal(t, input.UserID.String(), claims.UserID)

	refreshClaims, err := svc.ValidateRefreshToken(newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "orgstruct-test",
		MaxRefreshCount:        2,
	})
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	refresh := pair.RefreshToken
	for i := 0; i < 2; i++ {
		next, err := svc.RefreshTokenPair(refresh, nil)
		require.NoError(t, err)
		refresh = next.RefreshToken
	}

	_, err = svc.RefreshTokenPair(refresh, nil)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestClaims_CapabilityChecks(t *testing.T) {
	claims := &Claims{Capabilities: []string{"work:view", "work:pick"}}

	assert.True(t, claims.HasCapability("work:pick"))
	assert.False(t, claims.HasCapability("work:delete"))

	assert.True(t, claims.HasAnyCapability("work:delete", "work:view"))
	assert.False(t, claims.HasAnyCapability("zone:create"))

	assert.True(t, claims.HasAllCapabilities("work:view", "work:pick"))
	assert.False(t, claims.HasAllCapabilities("work:view", "work:delete"))
}

func TestClaims_TimeAccessors(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	assert.False(t, claims.GetIssuedAtTime().IsZero())
	assert.True(t, claims.GetExpiresAtTime().After(time.Now()))
	assert.Greater(t, claims.GetRemainingTTL(), time.Duration(0))

	empty := &Claims{}
	assert.True(t, empty.GetIssuedAtTime().IsZero())
	assert.Zero(t, empty.GetRemainingTTL())
}

func TestExpirationAccessors(t *testing.T) {
	svc := newTestJWTService()
	assert.Equal(t, 15*time.Minute, svc.GetAccessTokenExpiration())
	assert.Equal(t, 7*24*time.Hour, svc.GetRefreshTokenExpiration())
}
