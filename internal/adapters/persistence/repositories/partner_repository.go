package repositories

import (
	"context"

	"loanlink-partners/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// partnerRepository implements PartnerRepository interface
type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

// Create creates a new partner
func (r *partnerRepository) Create(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

// GetByID gets a partner by ID
func (r *partnerRepository) GetByID(ctx context.Context, id uint) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// GetByEmail gets a partner by email
func (r *partnerRepository) GetByEmail(ctx context.Context, email string) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// GetByTaxID gets a partner by tax id
func (r *partnerRepository) GetByTaxID(ctx context.Context, taxID string) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("tax_id = ?", taxID).First(&partner).Error
	if err != nil {
		return nil, err
	}
	return &partner, nil
}

// Update updates a partner
func (r *partnerRepository) Update(ctx context.Context, partner *models.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

// List lists partners with pagination
func (r *partnerRepository) List(ctx context.Context, offset, limit int) ([]*models.Partner, int64, error) {
	var partners []*models.Partner
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Partner{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&partners).Error
	if err != nil {
		return nil, 0, err
	}

	return partners, total, nil
}

// ExistsByID checks if a partner id exists
func (r *partnerRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Partner{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *partnerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Partner{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByTaxID checks if tax id exists
func (r *partnerRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Partner{}).Where("tax_id = ?", taxID).Count(&count).Error
	return count > 0, err
}
