package services

import (
	"context"
	"testing"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/config"
	"loanlink-partners/internal/pkg/jwt"
	"loanlink-partners/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthFixture(t *testing.T) (*AuthService, *memAdminRepo, *memPartnerRepo, *memTokenRepo) {
	t.Helper()
	admins := newMemAdminRepo()
	partners := newMemPartnerRepo()
	tokens := newMemTokenRepo()
	svc := NewAuthService(admins, partners, tokens, testPolicy, testConfig())
	return svc, admins, partners, tokens
}

func seedAdmin(t *testing.T, admins *memAdminRepo, username, plaintext string, active bool) *models.Admin {
	t.Helper()
	hashed, err := password.Hash(plaintext)
	require.NoError(t, err)
	admin := &models.Admin{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
		IsActive: active,
	}
	require.NoError(t, admins.Create(context.Background(), admin))
	return admin
}

func TestLoginAdmin(t *testing.T) {
	svc, admins, _, tokens := newAuthFixture(t)
	seedAdmin(t, admins, "admin", "admin-pass-123", true)

	admin, pair, err := svc.LoginAdmin(context.Background(), &LoginInput{
		Username: "admin", Password: "admin-pass-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 1, tokens.activeCount(admin.ID, jwt.RoleAdmin))

	claims, err := jwt.ValidateAccessToken(pair.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.ActorID)
	assert.Equal(t, jwt.RoleAdmin, claims.Role)
}

func TestLoginAdminBadCredentials(t *testing.T) {
	svc, admins, _, _ := newAuthFixture(t)
	seedAdmin(t, admins, "admin", "admin-pass-123", true)
	ctx := context.Background()

	_, _, err := svc.LoginAdmin(ctx, &LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.LoginAdmin(ctx, &LoginInput{Username: "ghost", Password: "admin-pass-123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAdminInactive(t *testing.T) {
	svc, admins, _, _ := newAuthFixture(t)
	seedAdmin(t, admins, "admin", "admin-pass-123", false)

	_, _, err := svc.LoginAdmin(context.Background(), &LoginInput{
		Username: "admin", Password: "admin-pass-123",
	})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginPartnerClearsTempCredential(t *testing.T) {
	svc, _, partners, _ := newAuthFixture(t)
	ctx := context.Background()

	hashed, err := password.Hash("TMP4CRED")
	require.NoError(t, err)
	temp := "TMP4CRED"
	partner := &models.Partner{
		Name:           "Maria",
		TaxID:          "123",
		Email:          "maria@example.com",
		Password:       hashed,
		TempCredential: &temp,
	}
	require.NoError(t, partners.Create(ctx, partner))

	got, pair, err := svc.LoginPartner(ctx, &LoginInput{
		Username: "maria@example.com", Password: "TMP4CRED",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// The stored temporary credential is cleared on first use
	assert.Nil(t, got.TempCredential)
	stored, err := partners.GetByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.TempCredential)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, admins, _, _ := newAuthFixture(t)
	seedAdmin(t, admins, "admin", "admin-pass-123", true)
	ctx := context.Background()

	_, pair, err := svc.LoginAdmin(ctx, &LoginInput{Username: "admin", Password: "admin-pass-123"})
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// The presented token died with the rotation
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The fresh one still works
	_, err = svc.Refresh(ctx, fresh.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, admins, _, _ := newAuthFixture(t)
	seedAdmin(t, admins, "admin", "admin-pass-123", true)
	ctx := context.Background()

	_, pair, err := svc.LoginAdmin(ctx, &LoginInput{Username: "admin", Password: "admin-pass-123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
