package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/adapters/persistence/repositories"
	"loanlink-partners/internal/core/domain"
	"loanlink-partners/internal/pkg/dbretry"
	"loanlink-partners/internal/pkg/normalize"

	"gorm.io/gorm"
)

// OperationService handles the loan-operation lifecycle
type OperationService struct {
	operationRepo repositories.OperationRepository
	partnerRepo   repositories.PartnerRepository
	retry         dbretry.Policy
}

// NewOperationService creates a new operation service
func NewOperationService(
	operationRepo repositories.OperationRepository,
	partnerRepo repositories.PartnerRepository,
	retry dbretry.Policy,
) *OperationService {
	return &OperationService{
		operationRepo: operationRepo,
		partnerRepo:   partnerRepo,
		retry:         retry,
	}
}

// OperationFields carries the intake fields of a create or update
// request. Pointer and interface fields distinguish "absent" from
// "zero": partial updates only touch what the request carried. Money,
// boolean and enumerated values arrive loosely typed and are
// normalized before persistence.
type OperationFields struct {
	// Client group
	ClientName  *string `json:"client_name,omitempty"`
	ClientTaxID *string `json:"client_tax_id,omitempty"`
	ClientEmail *string `json:"client_email,omitempty"`
	ClientPhone *string `json:"client_phone,omitempty"`

	// Property group
	PropertyType  *string     `json:"property_type,omitempty"`
	PropertyValue interface{} `json:"property_value,omitempty"`
	PropertyCity  *string     `json:"property_city,omitempty"`
	PropertyState *string     `json:"property_state,omitempty"`
	OwnProperty   interface{} `json:"own_property,omitempty"`

	// Financing group
	RequestedAmount interface{} `json:"requested_amount,omitempty"`
	DownPayment     interface{} `json:"down_payment,omitempty"`
	TermMonths      *int        `json:"term_months,omitempty"`
	Purpose         *string     `json:"purpose,omitempty"`

	// Document slots: single object or array of
	// {name,type,size,encodedPayload,compressedSize}
	Documents interface{} `json:"documents,omitempty"`
}

// apply normalizes and writes the subset of fields present in the
// request onto op, leaving the rest untouched.
func (f *OperationFields) apply(op *models.Operation) error {
	if f.ClientName != nil {
		op.ClientName = strings.TrimSpace(*f.ClientName)
	}
	if f.ClientTaxID != nil {
		op.ClientTaxID = strings.TrimSpace(*f.ClientTaxID)
	}
	if f.ClientEmail != nil {
		op.ClientEmail = strings.ToLower(strings.TrimSpace(*f.ClientEmail))
	}
	if f.ClientPhone != nil {
		op.ClientPhone = strings.TrimSpace(*f.ClientPhone)
	}

	if f.PropertyType != nil {
		op.PropertyType = normalize.Enum(*f.PropertyType, models.PropertyTypes, models.DefaultPropertyType)
	}
	if f.PropertyValue != nil {
		op.PropertyValue = nonNegative(normalize.Money(f.PropertyValue, 0))
	}
	if f.PropertyCity != nil {
		op.PropertyCity = strings.TrimSpace(*f.PropertyCity)
	}
	if f.PropertyState != nil {
		op.PropertyState = strings.ToUpper(strings.TrimSpace(*f.PropertyState))
	}
	if f.OwnProperty != nil {
		op.OwnProperty = normalize.Boolean(f.OwnProperty, false)
	}

	if f.RequestedAmount != nil {
		op.RequestedAmount = nonNegative(normalize.Money(f.RequestedAmount, 0))
	}
	if f.DownPayment != nil {
		op.DownPayment = nonNegative(normalize.Money(f.DownPayment, 0))
	}
	if f.TermMonths != nil && *f.TermMonths > 0 {
		op.TermMonths = *f.TermMonths
	}
	if f.Purpose != nil {
		op.Purpose = normalize.Enum(*f.Purpose, models.Purposes, models.DefaultPurpose)
	}

	if f.Documents != nil {
		slots := normalize.DocumentSlots(f.Documents)
		if slots != nil {
			encoded, err := json.Marshal(slots)
			if err != nil {
				return err
			}
			doc := string(encoded)
			op.Documents = &doc
		}
	}

	return nil
}

// nonNegative clamps monetary values; negative submissions are stored as zero.
func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Create creates a new operation in draft for an existing partner. A
// non-existent partner id is a referential error and writes no row.
func (s *OperationService) Create(ctx context.Context, partnerID uint, fields *OperationFields) (*models.Operation, error) {
	var exists bool
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		exists, err = s.partnerRepo.ExistsByID(ctx, partnerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewError(domain.KindNotFound, "partner not found", domain.ErrPartnerNotFound)
	}

	op := &models.Operation{
		PartnerID: partnerID,
		Status:    string(domain.OperationDraft),
	}
	if err := fields.apply(op); err != nil {
		return nil, domain.NewError(domain.KindValidation, "invalid operation payload", err)
	}

	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.operationRepo.Create(ctx, op)
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}

// GetByID gets an operation by ID
func (s *OperationService) GetByID(ctx context.Context, id uint) (*models.Operation, error) {
	var op *models.Operation
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		op, err = s.operationRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewError(domain.KindNotFound, "operation not found", domain.ErrOperationNotFound)
		}
		return nil, err
	}
	return op, nil
}

// List lists operations, optionally filtered by status
func (s *OperationService) List(ctx context.Context, status string, offset, limit int) ([]*models.Operation, int64, error) {
	if status != "" {
		status = normalize.Enum(status, domain.OperationStatuses, "")
		if status == "" {
			return nil, 0, domain.NewError(domain.KindValidation, "invalid operation status filter", domain.ErrInvalidOperationStatus)
		}
	}

	var ops []*models.Operation
	var total int64
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		ops, total, err = s.operationRepo.List(ctx, status, offset, limit)
		return err
	})
	return ops, total, err
}

// ListByPartner lists a partner's own operations
func (s *OperationService) ListByPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Operation, int64, error) {
	var ops []*models.Operation
	var total int64
	err := dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		ops, total, err = s.operationRepo.ListByPartner(ctx, partnerID, offset, limit)
		return err
	})
	return ops, total, err
}

// Update applies a partial update. Only fields present in the request
// are normalized and written; everything else is left untouched.
func (s *OperationService) Update(ctx context.Context, id uint, fields *OperationFields) (*models.Operation, error) {
	op, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fields.apply(op); err != nil {
		return nil, domain.NewError(domain.KindValidation, "invalid operation payload", err)
	}

	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.operationRepo.Update(ctx, op)
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}

// UpdateStatus moves the operation to a new status. Transition gating
// lives in the authorization layer, so any status may move to any
// other. Entering submitted stamps the submission timestamp once: a
// record that already carries one keeps it, so re-submitting never
// rewrites history.
func (s *OperationService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Operation, error) {
	status = normalize.Enum(status, domain.OperationStatuses, "")
	if status == "" {
		return nil, domain.NewError(domain.KindValidation, "invalid operation status", domain.ErrInvalidOperationStatus)
	}

	op, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	op.Status = status
	if status == string(domain.OperationSubmitted) && op.SubmittedAt == nil {
		now := timeNow()
		op.SubmittedAt = &now
	}

	err = dbretry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.operationRepo.Update(ctx, op)
	})
	if err != nil {
		return nil, err
	}

	return op, nil
}
