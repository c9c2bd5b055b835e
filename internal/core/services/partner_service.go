package services

import (
	"context"
	"errors"
	"strings"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/adapters/persistence/repositories"
	"loanlink-partners/internal/core/domain"
	"loanlink-partners/internal/pkg/dbretry"
	"loanlink-partners/internal/pkg/normalize"
	"loanlink-partners/internal/pkg/password"
	"loanlink-partners/internal/pkg/tempcred"

	"gorm.io/gorm"
)

// PartnerService handles partner account management
type PartnerService struct {
	partnerRepo repositories.PartnerRepository
	tokenRepo   repositories.RefreshTokenRepository
	retry       dbretry.Policy
}

// NewPartnerService creates a new partner service
func NewPartnerService(
	partnerRepo repositories.PartnerRepository,
	tokenRepo repositories.RefreshTokenRepository,
	retry dbretry.Policy,
) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		tokenRepo:   tokenRepo,
		retry:       retry,
	}
}

// RegisterPartnerInput represents direct self-registration, the second
// path a partner account can be created through (besides promotion).
type RegisterPartnerInput struct {
	Name           string `json:"name"`
	TaxID          string `json:"tax_id"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	HasBusinessReg string `json:"has_business_registration"`
	HasClientBase  string `json:"has_client_base"`
	ReferralVolume string `json:"referral_volume"`
	Phone          string `json:"phone"`
	City           string `json:"city"`
	State          string `json:"state"`
}

// Register creates a partner from a direct self-registration
func (s *PartnerService) Register(ctx context.Context, input *RegisterPartnerInput) (*models.Partner, error) {
	name := strings.TrimSpace(input.Name)
	taxID := strings.TrimSpace(input.TaxID)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" || taxID == "" || email == "" {
		return nil, domain.NewError(domain.KindValidation, "name, tax id and email are required", domain.ErrInvalidInput)
	}
	if !password.Validate(input.Password) {
		return nil, domain.NewError(domain.KindValidation, "password must be at least 8 characters", domain.ErrInvalidInput)
	}

	var taxExists, emailExists bool
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		if taxExists, err = s.partnerRepo.ExistsByTaxID(ctx, taxID); err != nil {
			return err
		}
		emailExists, err = s.partnerRepo.ExistsByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if taxExists {
		return nil, domain.NewError(domain.KindConflict, "tax id is already registered", domain.ErrPartnerAlreadyExists)
	}
	if emailExists {
		return nil, domain.NewError(domain.KindConflict, "email is already registered", domain.ErrPartnerAlreadyExists)
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	partner := &models.Partner{
		Name:           name,
		TaxID:          taxID,
		Email:          email,
		Password:       hashed,
		HasBusinessReg: strings.ToUpper(strings.TrimSpace(input.HasBusinessReg)),
		HasClientBase:  strings.ToUpper(strings.TrimSpace(input.HasClientBase)),
		ReferralVolume: normalize.Enum(input.ReferralVolume, ReferralVolumes, DefaultReferralVolume),
		Phone:          strings.TrimSpace(input.Phone),
		City:           strings.TrimSpace(input.City),
		State:          strings.ToUpper(strings.TrimSpace(input.State)),
	}

	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.partnerRepo.Create(ctx, partner)
	})
	if err != nil {
		return nil, err
	}

	return partner, nil
}

// GetByID gets a partner by ID
func (s *PartnerService) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	var partner *models.Partner
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		partner, err = s.partnerRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "partner not found", domain.ErrPartnerNotFound)
		}
		return nil, err
	}
	return partner, nil
}

// List lists partners with pagination
func (s *PartnerService) List(ctx context.Context, offset, limit int) ([]*models.Partner, int64, error) {
	var partners []*models.Partner
	var total int64
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		partners, total, err = s.partnerRepo.List(ctx, offset, limit)
		return err
	})
	return partners, total, err
}

// RotateCredential mints a fresh temporary credential for a partner,
// replaces the stored hash, and revokes the partner's sessions. The
// plaintext is returned exactly once for administrator display.
func (s *PartnerService) RotateCredential(ctx context.Context, id uint) (*models.Partner, string, error) {
	partner, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	plaintext, err := tempcred.Generate()
	if err != nil {
		return nil, "", err
	}
	hashed, err := password.Hash(plaintext)
	if err != nil {
		return nil, "", err
	}

	partner.Password = hashed
	partner.TempCredential = &plaintext

	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.partnerRepo.Update(ctx, partner)
	})
	if err != nil {
		return nil, "", err
	}

	// Old sessions die with the old credential.
	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.tokenRepo.RevokeAllByActor(ctx, partner.ID, "PARTNER")
	})
	if err != nil {
		return nil, "", err
	}

	return partner, plaintext, nil
}
