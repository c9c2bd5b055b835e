package repositories

import (
	"context"

	"loanlink-partners/internal/adapters/persistence/models"
)

// PartnerRepository defines partner data access
type PartnerRepository interface {
	Create(ctx context.Context, partner *models.Partner) error
	GetByID(ctx context.Context, id uint) (*models.Partner, error)
	GetByEmail(ctx context.Context, email string) (*models.Partner, error)
	GetByTaxID(ctx context.Context, taxID string) (*models.Partner, error)
	Update(ctx context.Context, partner *models.Partner) error
	List(ctx context.Context, offset, limit int) ([]*models.Partner, int64, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
}

// PreRegistrationRepository defines pre-registration data access.
// Promote atomically inserts the partner and deletes the source
// pre-registration in one database transaction.
type PreRegistrationRepository interface {
	Create(ctx context.Context, preReg *models.PreRegistration) error
	GetByID(ctx context.Context, id uint) (*models.PreRegistration, error)
	Update(ctx context.Context, preReg *models.PreRegistration) error
	List(ctx context.Context, status string, offset, limit int) ([]*models.PreRegistration, int64, error)
	ExistsByTaxID(ctx context.Context, taxID string, excludeID uint) (bool, error)
	ExistsByBusinessID(ctx context.Context, businessID string, excludeID uint) (bool, error)
	Promote(ctx context.Context, preRegID uint, partner *models.Partner) error
}

// OperationRepository defines operation data access
type OperationRepository interface {
	Create(ctx context.Context, op *models.Operation) error
	GetByID(ctx context.Context, id uint) (*models.Operation, error)
	Update(ctx context.Context, op *models.Operation) error
	List(ctx context.Context, status string, offset, limit int) ([]*models.Operation, int64, error)
	ListByPartner(ctx context.Context, partnerID uint, offset, limit int) ([]*models.Operation, int64, error)
}

// AdminRepository defines administrator data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	CountActive(ctx context.Context) (int64, error)
}

// RefreshTokenRepository defines refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByActor(ctx context.Context, actorID uint, role string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
