package repositories

import (
	"context"

	"loanlink-partners/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// operationRepository implements OperationRepository interface
type operationRepository struct {
	db *gorm.DB
}

// NewOperationRepository creates a new operation repository
func NewOperationRepository(db *gorm.DB) OperationRepository {
	return &operationRepository{db: db}
}

// Create creates a new operation
func (r *operationRepository) Create(ctx context.Context, op *models.Operation) error {
	return r.db.WithContext(ctx).Create(op).Error
}

// GetByID gets an operation by ID with its partner
func (r *operationRepository) GetByID(ctx context.Context, id uint) (*models.Operation, error) {
	var op models.Operation
	err := r.db.WithContext(ctx).
		Preload("Partner").
		First(&op, id).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// Update updates an operation
func (r *operationRepository) Update(ctx context.Context, op *models.Operation) error {
	return r.db.WithContext(ctx).Save(op).Error
}

// List lists operations, optionally filtered by status
func (r *operationRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Operation, int64, error) {
	var ops []*models.Operation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Operation{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Partner").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&ops).Error
	if err != nil {
		return nil, 0, err
	}

	return ops, total, nil
}

// ListByPartner lists operations owned by one partner
func (r *operationRepository) ListByPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Operation, int64, error) {
	var ops []*models.Operation
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Operation{}).Where("partner_id = ?", partnerID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&ops).Error
	if err != nil {
		return nil, 0, err
	}

	return ops, total, nil
}
