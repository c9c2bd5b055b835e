package services

import (
	"context"
	"testing"
	"time"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/core/domain"
	"loanlink-partners/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func farFuture() time.Time {
	return time.Now().Add(365 * 24 * time.Hour)
}

func newPartnerFixture() (*PartnerService, *memPartnerRepo, *memTokenRepo) {
	partners := newMemPartnerRepo()
	tokens := newMemTokenRepo()
	svc := NewPartnerService(partners, tokens, testPolicy)
	return svc, partners, tokens
}

func TestPartnerRegister(t *testing.T) {
	svc, _, _ := newPartnerFixture()

	partner, err := svc.Register(context.Background(), &RegisterPartnerInput{
		Name:           "  Maria Souza ",
		TaxID:          "12345678900",
		Email:          "Maria@Example.com",
		Password:       "correct-horse",
		HasBusinessReg: "sim",
		ReferralVolume: "11-20",
		State:          "sp",
	})
	require.NoError(t, err)

	assert.Equal(t, "Maria Souza", partner.Name)
	assert.Equal(t, "maria@example.com", partner.Email)
	assert.Equal(t, "SIM", partner.HasBusinessReg)
	assert.Equal(t, "11-20", partner.ReferralVolume)
	assert.Equal(t, "SP", partner.State)
	assert.Nil(t, partner.TempCredential)
	assert.True(t, password.Verify("correct-horse", partner.Password))
}

func TestPartnerRegisterValidation(t *testing.T) {
	svc, _, _ := newPartnerFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterPartnerInput{
		Name: "Maria", Email: "maria@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.Register(ctx, &RegisterPartnerInput{
		Name: "Maria", TaxID: "123", Email: "maria@example.com", Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestPartnerRegisterConflicts(t *testing.T) {
	svc, _, _ := newPartnerFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterPartnerInput{
		Name: "Maria", TaxID: "123", Email: "maria@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterPartnerInput{
		Name: "Other", TaxID: "123", Email: "other@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	_, err = svc.Register(ctx, &RegisterPartnerInput{
		Name: "Other", TaxID: "456", Email: "MARIA@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestPartnerRotateCredential(t *testing.T) {
	svc, partners, tokens := newPartnerFixture()
	ctx := context.Background()

	partner, err := svc.Register(ctx, &RegisterPartnerInput{
		Name: "Maria", TaxID: "123", Email: "maria@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	// Simulate an active session
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{
		ActorID: partner.ID, Role: "PARTNER", TokenHash: "h", ExpiresAt: farFuture(),
	}))
	require.Equal(t, 1, tokens.activeCount(partner.ID, "PARTNER"))

	updated, plaintext, err := svc.RotateCredential(ctx, partner.ID)
	require.NoError(t, err)
	require.NotEmpty(t, plaintext)

	// The old password no longer works, the new credential does
	stored, err := partners.GetByID(ctx, partner.ID)
	require.NoError(t, err)
	assert.False(t, password.Verify("correct-horse", stored.Password))
	assert.True(t, password.Verify(plaintext, stored.Password))
	require.NotNil(t, updated.TempCredential)
	assert.Equal(t, plaintext, *updated.TempCredential)

	// Existing sessions are revoked
	assert.Zero(t, tokens.activeCount(partner.ID, "PARTNER"))
}

func TestPartnerRotateCredentialMissing(t *testing.T) {
	svc, _, _ := newPartnerFixture()

	_, _, err := svc.RotateCredential(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
