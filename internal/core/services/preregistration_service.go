package services

import (
	"context"
	"errors"
	"fmt"
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

// ReferralVolumes lists the allowed referral-volume buckets
var ReferralVolumes = []string{"1-5", "6-10", "11-20", "20+"}

// DefaultReferralVolume is stored when the submitted bucket is unknown
const DefaultReferralVolume = "1-5"

// PreRegistrationService handles the screening lifecycle and the
// promotion of a pre-registration into a partner account.
type PreRegistrationService struct {
	preRegRepo  repositories.PreRegistrationRepository
	partnerRepo repositories.PartnerRepository
	retry       dbretry.Policy
}

// NewPreRegistrationService creates a new pre-registration service
func NewPreRegistrationService(
	preRegRepo repositories.PreRegistrationRepository,
	partnerRepo repositories.PartnerRepository,
	retry dbretry.Policy,
) *PreRegistrationService {
	return &PreRegistrationService{
		preRegRepo:  preRegRepo,
		partnerRepo: partnerRepo,
		retry:       retry,
	}
}

// CreatePreRegistrationInput represents a screening submission. Answer
// and consent fields arrive loosely typed from the form layer.
type CreatePreRegistrationInput struct {
	HasBusinessReg string      `json:"has_business_registration"`
	HasClientBase  string      `json:"has_client_base"`
	ReferralVolume string      `json:"referral_volume"`
	FullName       string      `json:"full_name,omitempty"`
	TaxID          string      `json:"tax_id,omitempty"`
	BusinessID     string      `json:"business_id,omitempty"`
	Email          string      `json:"email,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	ConsentTerms   interface{} `json:"consent_terms,omitempty"`
	ConsentContact interface{} `json:"consent_contact,omitempty"`
}

// Create normalizes a submission, computes the initial status from the
// eligibility rule, and persists it. Tax id and business id, when
// present, must not collide with another pre-registration or an
// existing partner.
func (s *PreRegistrationService) Create(ctx context.Context, input *CreatePreRegistrationInput) (*models.PreRegistration, error) {
	preReg := &models.PreRegistration{
		HasBusinessReg: normalizeAnswer(input.HasBusinessReg),
		HasClientBase:  normalizeAnswer(input.HasClientBase),
		ReferralVolume: normalize.Enum(input.ReferralVolume, ReferralVolumes, DefaultReferralVolume),
		FullName:       strings.TrimSpace(input.FullName),
		TaxID:          strings.TrimSpace(input.TaxID),
		BusinessID:     strings.TrimSpace(input.BusinessID),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          strings.TrimSpace(input.Phone),
		ConsentTerms:   normalize.Boolean(input.ConsentTerms, false),
		ConsentContact: normalize.Boolean(input.ConsentContact, false),
		Status:         string(domain.Evaluate(input.HasBusinessReg, input.HasClientBase)),
	}

	if err := s.checkIdentityConflicts(ctx, preReg, 0); err != nil {
		return nil, err
	}

	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.preRegRepo.Create(ctx, preReg)
	})
	if err != nil {
		return nil, err
	}

	return preReg, nil
}

// checkIdentityConflicts rejects a tax id / business id already held by
// another pre-registration or by an existing partner.
func (s *PreRegistrationService) checkIdentityConflicts(ctx context.Context, preReg *models.PreRegistration, excludeID uint) error {
	if preReg.TaxID != "" {
		var inPreRegs, inPartners bool
		err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
			var err error
			if inPreRegs, err = s.preRegRepo.ExistsByTaxID(ctx, preReg.TaxID, excludeID); err != nil {
				return err
			}
			inPartners, err = s.partnerRepo.ExistsByTaxID(ctx, preReg.TaxID)
			return err
		})
		if err != nil {
			return err
		}
		if inPreRegs || inPartners {
			return domain.NewError(domain.KindConflict, "tax id is already registered", domain.ErrDuplicateEntry)
		}
	}

	if preReg.BusinessID != "" {
		var exists bool
		err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
			var err error
			exists, err = s.preRegRepo.ExistsByBusinessID(ctx, preReg.BusinessID, excludeID)
			return err
		})
		if err != nil {
			return err
		}
		if exists {
			return domain.NewError(domain.KindConflict, "business id is already registered", domain.ErrDuplicateEntry)
		}
	}

	return nil
}

// GetByID gets a pre-registration by ID
func (s *PreRegistrationService) GetByID(ctx context.Context, id uint) (*models.PreRegistration, error) {
	var preReg *models.PreRegistration
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		preReg, err = s.preRegRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "pre-registration not found", domain.ErrPreRegistrationNotFound)
		}
		return nil, err
	}
	return preReg, nil
}

// List lists pre-registrations for admin review
func (s *PreRegistrationService) List(ctx context.Context, status string, offset, limit int) ([]*models.PreRegistration, int64, error) {
	var preRegs []*models.PreRegistration
	var total int64
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		preRegs, total, err = s.preRegRepo.List(ctx, status, offset, limit)
		return err
	})
	return preRegs, total, err
}

// Reject moves a pre-registration to rejected. Rejecting an already
// rejected record is a no-op; an approved record no longer exists, so
// the transition can never be observed here.
func (s *PreRegistrationService) Reject(ctx context.Context, id uint) (*models.PreRegistration, error) {
	return s.UpdateStatus(ctx, id, string(domain.PreRegRejected))
}

// UpdateStatus sets the screening status. The approved value is not
// settable through this path: approval must always carry the side
// effect of creating a partner and a credential, which only Promote
// provides.
func (s *PreRegistrationService) UpdateStatus(ctx context.Context, id uint, status string) (*models.PreRegistration, error) {
	if status == string(domain.PreRegApproved) {
		return nil, domain.NewError(domain.KindValidation,
			"approved status is only reachable through promotion", domain.ErrApprovedViaStatusUpdate)
	}

	status = normalize.Enum(status, models.PreRegStatuses, "")
	if status == "" {
		return nil, domain.NewError(domain.KindValidation, "invalid pre-registration status", domain.ErrInvalidPreRegStatus)
	}

	preReg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if preReg.Status == status {
		return preReg, nil
	}

	preReg.Status = status
	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.preRegRepo.Update(ctx, preReg)
	})
	if err != nil {
		return nil, err
	}

	return preReg, nil
}

// PromotionResult carries the new partner and the plaintext temporary
// credential. The plaintext is returned exactly once and is never
// retrievable again.
type PromotionResult struct {
	Partner             *models.Partner
	TemporaryCredential string
}

// Promote converts a pre-registration into a partner account: it
// verifies the record is complete, checks identity conflicts against
// existing partners, mints a temporary credential, and atomically
// inserts the partner while deleting the pre-registration.
//
// Promotion is allowed regardless of the current screening status,
// including rejected records: an administrator promoting a rejected
// submission is an explicit override.
func (s *PreRegistrationService) Promote(ctx context.Context, id uint) (*PromotionResult, error) {
	preReg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var missing []string
	if strings.TrimSpace(preReg.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(preReg.TaxID) == "" {
		missing = append(missing, "tax_id")
	}
	if strings.TrimSpace(preReg.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, domain.NewError(domain.KindValidation,
			fmt.Sprintf("pre-registration is missing fields required for promotion: %s", strings.Join(missing, ", ")),
			domain.ErrIncompleteRecord)
	}

	if err := s.checkPartnerConflicts(ctx, preReg); err != nil {
		return nil, err
	}

	plaintext, err := tempcred.Generate()
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	partner := &models.Partner{
		Name:           preReg.FullName,
		TaxID:          preReg.TaxID,
		Email:          preReg.Email,
		Password:       hashed,
		TempCredential: &plaintext,
		HasBusinessReg: preReg.HasBusinessReg,
		HasClientBase:  preReg.HasClientBase,
		ReferralVolume: preReg.ReferralVolume,
		Phone:          preReg.Phone,
	}

	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.preRegRepo.Promote(ctx, id, partner)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "pre-registration not found", domain.ErrPreRegistrationNotFound)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewError(domain.KindConflict, "partner identity already exists", err)
		}
		return nil, err
	}

	return &PromotionResult{Partner: partner, TemporaryCredential: plaintext}, nil
}

// checkPartnerConflicts fails with a conflict naming the colliding field
// and the existing partner, so an administrator can disambiguate.
// Promotion must never silently overwrite or duplicate an identity.
func (s *PreRegistrationService) checkPartnerConflicts(ctx context.Context, preReg *models.PreRegistration) error {
	var byTaxID, byEmail *models.Partner
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		byTaxID, err = s.partnerRepo.GetByTaxID(ctx, preReg.TaxID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		byEmail, err = s.partnerRepo.GetByEmail(ctx, preReg.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if byTaxID != nil {
		return domain.NewError(domain.KindConflict,
			fmt.Sprintf("tax id already belongs to partner %d (%s)", byTaxID.ID, byTaxID.Name),
			domain.ErrPartnerAlreadyExists)
	}
	if byEmail != nil {
		return domain.NewError(domain.KindConflict,
			fmt.Sprintf("email already belongs to partner %d (%s)", byEmail.ID, byEmail.Name),
			domain.ErrPartnerAlreadyExists)
	}
	return nil
}

// normalizeAnswer folds a qualifying answer to the canonical SIM/NAO
// token, keeping the raw value when it is neither.
func normalizeAnswer(answer string) string {
	a := strings.ToUpper(strings.TrimSpace(answer))
	switch a {
	case domain.AnswerYes, "YES", "TRUE", "1":
		return domain.AnswerYes
	case domain.AnswerNo, "NÃO", "NO", "FALSE", "0":
		return domain.AnswerNo
	}
	return a
}
