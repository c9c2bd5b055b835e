package services

import (
	"context"
	"testing"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/core/domain"
	"loanlink-partners/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPreRegFixture() (*PreRegistrationService, *memPreRegRepo, *memPartnerRepo) {
	partners := newMemPartnerRepo()
	preRegs := newMemPreRegRepo(partners)
	svc := NewPreRegistrationService(preRegs, partners, testPolicy)
	return svc, preRegs, partners
}

func TestPreRegistrationCreateEligibility(t *testing.T) {
	tests := []struct {
		name           string
		hasBusinessReg string
		hasClientBase  string
		wantStatus     string
	}{
		{"both affirmative", "SIM", "SIM", "pre-approved"},
		{"no business registration", "NAO", "SIM", "rejected"},
		{"no client base", "SIM", "NAO", "rejected"},
		{"accented negative", "sim", "não", "rejected"},
		{"unknown answers treated as non-negative", "TALVEZ", "SIM", "pre-approved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newPreRegFixture()

			preReg, err := svc.Create(context.Background(), &CreatePreRegistrationInput{
				HasBusinessReg: tt.hasBusinessReg,
				HasClientBase:  tt.hasClientBase,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, preReg.Status)
		})
	}
}

func TestPreRegistrationCreateNormalizesFields(t *testing.T) {
	svc, _, _ := newPreRegFixture()

	preReg, err := svc.Create(context.Background(), &CreatePreRegistrationInput{
		HasBusinessReg: "  sim ",
		HasClientBase:  "yes",
		ReferralVolume: "weird-bucket",
		Email:          "  Maria@Example.COM ",
		ConsentTerms:   "SIM",
		ConsentContact: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerYes, preReg.HasBusinessReg)
	assert.Equal(t, domain.AnswerYes, preReg.HasClientBase)
	assert.Equal(t, DefaultReferralVolume, preReg.ReferralVolume)
	assert.Equal(t, "maria@example.com", preReg.Email)
	assert.True(t, preReg.ConsentTerms)
	assert.False(t, preReg.ConsentContact)
}

func TestPreRegistrationCreateTaxIDConflict(t *testing.T) {
	svc, _, _ := newPreRegFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "SIM", HasClientBase: "SIM", TaxID: "12345678900",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "SIM", HasClientBase: "SIM", TaxID: "12345678900",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestPreRegistrationUpdateStatusBlocksApproved(t *testing.T) {
	svc, _, _ := newPreRegFixture()
	ctx := context.Background()

	preReg, err := svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "SIM", HasClientBase: "SIM",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, preReg.ID, "approved")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrApprovedViaStatusUpdate)

	// The record keeps its original status
	got, err := svc.GetByID(ctx, preReg.ID)
	require.NoError(t, err)
	assert.Equal(t, "pre-approved", got.Status)
}

func TestPreRegistrationReject(t *testing.T) {
	svc, _, _ := newPreRegFixture()
	ctx := context.Background()

	preReg, err := svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "SIM", HasClientBase: "SIM",
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, preReg.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", rejected.Status)

	// Rejecting again is a no-op
	again, err := svc.Reject(ctx, preReg.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", again.Status)
}

func TestPromoteSuccess(t *testing.T) {
	svc, preRegs, partners := newPreRegFixture()
	ctx := context.Background()

	preReg, err := svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "SIM",
		HasClientBase:  "SIM",
		ReferralVolume: "6-10",
		FullName:       "Maria Souza",
		TaxID:          "12345678900",
		Email:          "maria@example.com",
		Phone:          "+55 11 98888-7777",
	})
	require.NoError(t, err)

	result, err := svc.Promote(ctx, preReg.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Partner)

	// The pre-registration is gone, the partner exists
	_, err = preRegs.GetByID(ctx, preReg.ID)
	require.Error(t, err)

	stored, err := partners.GetByID(ctx, result.Partner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", stored.Name)
	assert.Equal(t, "12345678900", stored.TaxID)
	assert.Equal(t, "maria@example.com", stored.Email)
	assert.Equal(t, "6-10", stored.ReferralVolume)

	// The plaintext credential verifies against the stored hash and is
	// never the hash itself
	require.NotEmpty(t, result.TemporaryCredential)
	assert.NotEqual(t, stored.Password, result.TemporaryCredential)
	assert.True(t, password.Verify(result.TemporaryCredential, stored.Password))
}

func TestPromoteRejectedRecordIsAllowed(t *testing.T) {
	svc, _, _ := newPreRegFixture()
	ctx := context.Background()

	preReg, err := svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "NAO",
		HasClientBase:  "SIM",
		FullName:       "Carlos Lima",
		TaxID:          "98765432100",
		Email:          "carlos@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "rejected", preReg.Status)

	// An administrator promoting a rejected record is an explicit override
	result, err := svc.Promote(ctx, preReg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carlos Lima", result.Partner.Name)
}

func TestPromoteIncompleteRecord(t *testing.T) {
	svc, preRegs, partners := newPreRegFixture()
	ctx := context.Background()

	preReg, err := svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "SIM",
		HasClientBase:  "SIM",
		FullName:       "Ana Costa",
		// no tax id, no email
	})
	require.NoError(t, err)

	_, err = svc.Promote(ctx, preReg.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrIncompleteRecord)
	assert.Contains(t, err.Error(), "tax_id")
	assert.Contains(t, err.Error(), "email")

	// Nothing was created or deleted
	_, err = preRegs.GetByID(ctx, preReg.ID)
	require.NoError(t, err)
	_, total, err := partners.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPromoteConflictLeavesBothRecords(t *testing.T) {
	svc, preRegs, partners := newPreRegFixture()
	ctx := context.Background()

	// Existing partner already holds the tax id
	existing := &models.Partner{
		Name:     "Incumbent",
		TaxID:    "12345678900",
		Email:    "incumbent@example.com",
		Password: "x",
	}
	require.NoError(t, partners.Create(ctx, existing))

	preReg, err := svc.Create(ctx, &CreatePreRegistrationInput{
		HasBusinessReg: "SIM",
		HasClientBase:  "SIM",
		FullName:       "Maria Souza",
		TaxID:          "12345678900",
		Email:          "maria@example.com",
	})
	// Creation itself is already blocked by the identity check; bypass it
	// by writing the record directly, conflicts can arise concurrently.
	if err != nil {
		preReg = &models.PreRegistration{
			HasBusinessReg: "SIM",
			HasClientBase:  "SIM",
			FullName:       "Maria Souza",
			TaxID:          "12345678900",
			Email:          "maria@example.com",
			Status:         "pre-approved",
		}
		require.NoError(t, preRegs.Create(ctx, preReg))
	}

	_, err = svc.Promote(ctx, preReg.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Incumbent")

	// Both the pre-registration and the incumbent partner survive
	_, err = preRegs.GetByID(ctx, preReg.ID)
	require.NoError(t, err)
	got, err := partners.GetByTaxID(ctx, "12345678900")
	require.NoError(t, err)
	assert.Equal(t, "Incumbent", got.Name)
}

func TestPromoteMissingRecord(t *testing.T) {
	svc, _, _ := newPreRegFixture()

	_, err := svc.Promote(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestPreRegistrationListFiltersByStatus(t *testing.T) {
	svc, _, _ := newPreRegFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreatePreRegistrationInput{HasBusinessReg: "SIM", HasClientBase: "SIM"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreatePreRegistrationInput{HasBusinessReg: "NAO", HasClientBase: "SIM"})
	require.NoError(t, err)

	rejected, total, err := svc.List(ctx, "rejected", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rejected, 1)
	assert.Equal(t, "rejected", rejected[0].Status)

	all, total, err := svc.List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}
