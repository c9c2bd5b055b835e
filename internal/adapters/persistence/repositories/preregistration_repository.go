package repositories

import (
	"context"

	"loanlink-partners/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// preRegistrationRepository implements PreRegistrationRepository interface
type preRegistrationRepository struct {
	db *gorm.DB
}

// NewPreRegistrationRepository creates a new pre-registration repository
func NewPreRegistrationRepository(db *gorm.DB) PreRegistrationRepository {
	return &preRegistrationRepository{db: db}
}

// Create creates a new pre-registration
func (r *preRegistrationRepository) Create(ctx context.Context, preReg *models.PreRegistration) error {
	return r.db.WithContext(ctx).Create(preReg).Error
}

// GetByID gets a pre-registration by ID
func (r *preRegistrationRepository) GetByID(ctx context.Context, id uint) (*models.PreRegistration, error) {
	var preReg models.PreRegistration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&preReg).Error
	if err != nil {
		return nil, err
	}
	return &preReg, nil
}

// Update updates a pre-registration
func (r *preRegistrationRepository) Update(ctx context.Context, preReg *models.PreRegistration) error {
	return r.db.WithContext(ctx).Save(preReg).Error
}

// List lists pre-registrations, optionally filtered by status
func (r *preRegistrationRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.PreRegistration, int64, error) {
	var preRegs []*models.PreRegistration
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PreRegistration{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&preRegs).Error
	if err != nil {
		return nil, 0, err
	}

	return preRegs, total, nil
}

// ExistsByTaxID checks if a tax id is used by another pre-registration
func (r *preRegistrationRepository) ExistsByTaxID(ctx context.Context, taxID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PreRegistration{}).
		Where("tax_id = ? AND id <> ?", taxID, excludeID).
		Count(&count).Error
	return count > 0, err
}

// ExistsByBusinessID checks if a business id is used by another pre-registration
func (r *preRegistrationRepository) ExistsByBusinessID(ctx context.Context, businessID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PreRegistration{}).
		Where("business_id = ? AND id <> ?", businessID, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Promote inserts the new partner and deletes the source pre-registration
// inside one transaction: either both happen or neither does, so the two
// tables can never both hold the identity.
func (r *preRegistrationRepository) Promote(ctx context.Context, preRegID uint, partner *models.Partner) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(partner).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.PreRegistration{}, preRegID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Concurrent promotion already consumed the record
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
