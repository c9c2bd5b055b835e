package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"loanlink-partners/internal/adapters/persistence/models"
	"loanlink-partners/internal/pkg/dbretry"

	"gorm.io/gorm"
)

// testPolicy keeps retries short so failure paths don't slow the suite.
var testPolicy = dbretry.Policy{
	MaxRetries:     1,
	InitialDelay:   time.Millisecond,
	AttemptTimeout: time.Second,
}

// memPartnerRepo is an in-memory PartnerRepository
type memPartnerRepo struct {
	mu       sync.Mutex
	nextID   uint
	partners map[uint]*models.Partner
}

func newMemPartnerRepo() *memPartnerRepo {
	return &memPartnerRepo{partners: map[uint]*models.Partner{}}
}

func (r *memPartnerRepo) Create(_ context.Context, partner *models.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partners {
		if p.TaxID == partner.TaxID || p.Email == partner.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	partner.ID = r.nextID
	partner.CreatedAt = time.Now()
	cp := *partner
	r.partners[partner.ID] = &cp
	return nil
}

func (r *memPartnerRepo) GetByID(_ context.Context, id uint) (*models.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPartnerRepo) GetByEmail(_ context.Context, email string) (*models.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partners {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPartnerRepo) GetByTaxID(_ context.Context, taxID string) (*models.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partners {
		if p.TaxID == taxID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPartnerRepo) Update(_ context.Context, partner *models.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.partners[partner.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *partner
	r.partners[partner.ID] = &cp
	return nil
}

func (r *memPartnerRepo) List(_ context.Context, offset, limit int) ([]*models.Partner, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Partner
	for _, p := range r.partners {
		cp := *p
		all = append(all, &cp)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memPartnerRepo) ExistsByID(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.partners[id]
	return ok, nil
}

func (r *memPartnerRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partners {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPartnerRepo) ExistsByTaxID(_ context.Context, taxID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partners {
		if p.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}

// memPreRegRepo is an in-memory PreRegistrationRepository. Promote
// mirrors the transactional behavior: on any failure both the
// pre-registration and the partner set stay untouched.
type memPreRegRepo struct {
	mu       sync.Mutex
	nextID   uint
	preRegs  map[uint]*models.PreRegistration
	partners *memPartnerRepo
}

func newMemPreRegRepo(partners *memPartnerRepo) *memPreRegRepo {
	return &memPreRegRepo{preRegs: map[uint]*models.PreRegistration{}, partners: partners}
}

func (r *memPreRegRepo) Create(_ context.Context, preReg *models.PreRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	preReg.ID = r.nextID
	preReg.CreatedAt = time.Now()
	cp := *preReg
	r.preRegs[preReg.ID] = &cp
	return nil
}

func (r *memPreRegRepo) GetByID(_ context.Context, id uint) (*models.PreRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.preRegs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *pr
	return &cp, nil
}

func (r *memPreRegRepo) Update(_ context.Context, preReg *models.PreRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.preRegs[preReg.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *preReg
	r.preRegs[preReg.ID] = &cp
	return nil
}

func (r *memPreRegRepo) List(_ context.Context, status string, offset, limit int) ([]*models.PreRegistration, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.PreRegistration
	for _, pr := range r.preRegs {
		if status != "" && pr.Status != status {
			continue
		}
		cp := *pr
		all = append(all, &cp)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memPreRegRepo) ExistsByTaxID(_ context.Context, taxID string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pr := range r.preRegs {
		if pr.ID != excludeID && pr.TaxID != "" && pr.TaxID == taxID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPreRegRepo) ExistsByBusinessID(_ context.Context, businessID string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pr := range r.preRegs {
		if pr.ID != excludeID && pr.BusinessID != "" && pr.BusinessID == businessID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPreRegRepo) Promote(ctx context.Context, preRegID uint, partner *models.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.preRegs[preRegID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := r.partners.Create(ctx, partner); err != nil {
		return err
	}
	delete(r.preRegs, preRegID)
	return nil
}

// memOperationRepo is an in-memory OperationRepository
type memOperationRepo struct {
	mu     sync.Mutex
	nextID uint
	ops    map[uint]*models.Operation
}

func newMemOperationRepo() *memOperationRepo {
	return &memOperationRepo{ops: map[uint]*models.Operation{}}
}

func (r *memOperationRepo) Create(_ context.Context, op *models.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	op.ID = r.nextID
	op.CreatedAt = time.Now()
	cp := *op
	r.ops[op.ID] = &cp
	return nil
}

func (r *memOperationRepo) GetByID(_ context.Context, id uint) (*models.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.ops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *op
	return &cp, nil
}

func (r *memOperationRepo) Update(_ context.Context, op *models.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ops[op.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *op
	r.ops[op.ID] = &cp
	return nil
}

func (r *memOperationRepo) List(_ context.Context, status string, offset, limit int) ([]*models.Operation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Operation
	for _, op := range r.ops {
		if status != "" && op.Status != status {
			continue
		}
		cp := *op
		all = append(all, &cp)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memOperationRepo) ListByPartner(_ context.Context, partnerID uint, offset, limit int) ([]*models.Operation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*models.Operation
	for _, op := range r.ops {
		if op.PartnerID != partnerID {
			continue
		}
		cp := *op
		all = append(all, &cp)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memOperationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// memAdminRepo is an in-memory AdminRepository
type memAdminRepo struct {
	mu     sync.Mutex
	nextID uint
	admins map[uint]*models.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: map[uint]*models.Admin{}}
}

func (r *memAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	admin.ID = r.nextID
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *memAdminRepo) GetByID(_ context.Context, id uint) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if strings.EqualFold(a.Username, username) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAdminRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.admins {
		if a.IsActive {
			n++
		}
	}
	return n, nil
}

// memTokenRepo is an in-memory RefreshTokenRepository
type memTokenRepo struct {
	mu     sync.Mutex
	nextID uint
	tokens map[uint]*models.RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: map[uint]*models.RefreshToken{}}
}

func (r *memTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = r.nextID
	cp := *token
	r.tokens[token.ID] = &cp
	return nil
}

func (r *memTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *memTokenRepo) RevokeAllByActor(_ context.Context, actorID uint, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.ActorID == actorID && t.Role == role && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *memTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	now := time.Now()
	for id, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memTokenRepo) activeCount(actorID uint, role string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tokens {
		if t.ActorID == actorID && t.Role == role && t.RevokedAt == nil {
			n++
		}
	}
	return n
}
