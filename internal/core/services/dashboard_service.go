package services

import (
	"context"
	"time"

	"loanlink-partners/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService aggregates program statistics for the back office
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardData represents admin dashboard data
type DashboardData struct {
	// Partner statistics
	TotalPartners     int64 `json:"total_partners"`
	PartnersThisMonth int64 `json:"partners_this_month"`

	// Pre-registration statistics
	TotalPreRegs       int64 `json:"total_pre_registrations"`
	PreApprovedPreRegs int64 `json:"pre_approved_pre_registrations"`
	RejectedPreRegs    int64 `json:"rejected_pre_registrations"`

	// Operation statistics
	TotalOperations     int64   `json:"total_operations"`
	SubmittedOperations int64   `json:"submitted_operations"`
	InReviewOperations  int64   `json:"in_review_operations"`
	ApprovedOperations  int64   `json:"approved_operations"`
	RejectedOperations  int64   `json:"rejected_operations"`
	TotalRequested      float64 `json:"total_requested_amount"`
	ApprovedRequested   float64 `json:"approved_requested_amount"`
}

// GetDashboard returns admin dashboard data
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}
	monthStart := time.Now().AddDate(0, 0, 1-time.Now().Day()).Truncate(24 * time.Hour)

	s.db.WithContext(ctx).Table("partners").Where("deleted_at IS NULL").Count(&data.TotalPartners)
	s.db.WithContext(ctx).Table("partners").
		Where("deleted_at IS NULL AND created_at >= ?", monthStart).
		Count(&data.PartnersThisMonth)

	s.db.WithContext(ctx).Table("pre_registrations").Count(&data.TotalPreRegs)
	s.db.WithContext(ctx).Table("pre_registrations").
		Where("status = ?", string(domain.PreRegPreApproved)).Count(&data.PreApprovedPreRegs)
	s.db.WithContext(ctx).Table("pre_registrations").
		Where("status = ?", string(domain.PreRegRejected)).Count(&data.RejectedPreRegs)

	s.db.WithContext(ctx).Table("operations").Where("deleted_at IS NULL").Count(&data.TotalOperations)
	s.db.WithContext(ctx).Table("operations").
		Where("deleted_at IS NULL AND status = ?", string(domain.OperationSubmitted)).Count(&data.SubmittedOperations)
	s.db.WithContext(ctx).Table("operations").
		Where("deleted_at IS NULL AND status = ?", string(domain.OperationInReview)).Count(&data.InReviewOperations)
	s.db.WithContext(ctx).Table("operations").
		Where("deleted_at IS NULL AND status = ?", string(domain.OperationApproved)).Count(&data.ApprovedOperations)
	s.db.WithContext(ctx).Table("operations").
		Where("deleted_at IS NULL AND status = ?", string(domain.OperationRejected)).Count(&data.RejectedOperations)

	s.db.WithContext(ctx).Table("operations").
		Where("deleted_at IS NULL").
		Select("COALESCE(SUM(requested_amount), 0)").Scan(&data.TotalRequested)
	s.db.WithContext(ctx).Table("operations").
		Where("deleted_at IS NULL AND status = ?", string(domain.OperationApproved)).
		Select("COALESCE(SUM(requested_amount), 0)").Scan(&data.ApprovedRequested)

	return data, nil
}
