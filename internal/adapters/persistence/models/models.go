package models

import (
	"encoding/json"
	"time"

	"loanlink-partners/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth Tables
// ============================================================

// Admin represents back-office administrator accounts
type Admin struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}

// AdminResponse DTO
type AdminResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		IsActive: a.IsActive,
	}
}

// RefreshToken represents refresh_tokens table. ActorID points at an
// admin or a partner depending on Role.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ActorID   uint       `gorm:"index;not null" json:"actor_id"`
	Role      string     `gorm:"size:20;not null" json:"role"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Partner Program Tables
// ============================================================

// Partner represents an approved referral-program participant
type Partner struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:150;not null" json:"name"`
	TaxID          string         `gorm:"column:tax_id;uniqueIndex;size:20;not null" json:"tax_id"`
	Email          string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password       string         `gorm:"size:255;not null" json:"-"`
	TempCredential *string        `gorm:"size:50" json:"-"`
	HasBusinessReg string         `gorm:"size:10" json:"has_business_registration"`
	HasClientBase  string         `gorm:"size:10" json:"has_client_base"`
	ReferralVolume string         `gorm:"size:20" json:"referral_volume"`
	Phone          string         `gorm:"size:20" json:"phone"`
	Address        string         `gorm:"size:200" json:"address"`
	City           string         `gorm:"size:100" json:"city"`
	State          string         `gorm:"size:2" json:"state"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Partner) TableName() string {
	return "partners"
}

// PartnerResponse DTO. TempCredential appears only on responses built
// right after promotion or credential rotation.
type PartnerResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	TaxID          string    `json:"tax_id"`
	Email          string    `json:"email"`
	HasBusinessReg string    `json:"has_business_registration"`
	HasClientBase  string    `json:"has_client_base"`
	ReferralVolume string    `json:"referral_volume"`
	Phone          string    `json:"phone"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	TempCredential string    `json:"temporary_credential,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Partner) ToResponse() *PartnerResponse {
	return &PartnerResponse{
		ID:             p.ID,
		Name:           p.Name,
		TaxID:          p.TaxID,
		Email:          p.Email,
		HasBusinessReg: p.HasBusinessReg,
		HasClientBase:  p.HasClientBase,
		ReferralVolume: p.ReferralVolume,
		Phone:          p.Phone,
		City:           p.City,
		State:          p.State,
		CreatedAt:      p.CreatedAt,
	}
}

// PreRegistration represents a screening submission
type PreRegistration struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	HasBusinessReg string    `gorm:"size:10;not null" json:"has_business_registration"`
	HasClientBase  string    `gorm:"size:10;not null" json:"has_client_base"`
	ReferralVolume string    `gorm:"size:20" json:"referral_volume"`
	FullName       string    `gorm:"size:150" json:"full_name"`
	TaxID          string    `gorm:"column:tax_id;size:20;index" json:"tax_id"`
	BusinessID     string    `gorm:"column:business_id;size:20;index" json:"business_id"`
	Email          string    `gorm:"size:100" json:"email"`
	Phone          string    `gorm:"size:20" json:"phone"`
	ConsentTerms   bool      `gorm:"default:false" json:"consent_terms"`
	ConsentContact bool      `gorm:"default:false" json:"consent_contact"`
	Status         string    `gorm:"size:20;not null;default:'pre-approved'" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PreRegistration) TableName() string {
	return "pre_registrations"
}

// Operation represents a loan-referral case record
type Operation struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	PartnerID uint    `gorm:"not null;index" json:"partner_id"`
	Status    string  `gorm:"size:30;not null;default:'draft'" json:"status"`

	// Client group
	ClientName  string `gorm:"size:150" json:"client_name"`
	ClientTaxID string `gorm:"column:client_tax_id;size:20" json:"client_tax_id"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	// Property group
	PropertyType  string  `gorm:"size:30" json:"property_type"`
	PropertyValue float64 `gorm:"type:decimal(15,2)" json:"property_value"`
	PropertyCity  string  `gorm:"size:100" json:"property_city"`
	PropertyState string  `gorm:"size:2" json:"property_state"`
	OwnProperty   bool    `gorm:"default:false" json:"own_property"`

	// Financing group
	RequestedAmount float64 `gorm:"type:decimal(15,2)" json:"requested_amount"`
	DownPayment     float64 `gorm:"type:decimal(15,2)" json:"down_payment"`
	TermMonths      int     `json:"term_months"`
	Purpose         string  `gorm:"size:30" json:"purpose"`

	// Document slots, stored as a self-contained encoded JSON array
	Documents *string `gorm:"type:json" json:"-"`

	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	SubmittedAt *time.Time     `json:"submitted_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (Operation) TableName() string {
	return "operations"
}

// OperationResponse DTO
type OperationResponse struct {
	ID              uint            `json:"id"`
	PartnerID       uint            `json:"partner_id"`
	PartnerName     string          `json:"partner_name,omitempty"`
	Status          string          `json:"status"`
	ClientName      string          `json:"client_name"`
	ClientTaxID     string          `json:"client_tax_id"`
	ClientEmail     string          `json:"client_email"`
	ClientPhone     string          `json:"client_phone"`
	PropertyType    string          `json:"property_type"`
	PropertyValue   float64         `json:"property_value"`
	PropertyCity    string          `json:"property_city"`
	PropertyState   string          `json:"property_state"`
	OwnProperty     bool            `json:"own_property"`
	RequestedAmount float64         `json:"requested_amount"`
	DownPayment     float64         `json:"down_payment"`
	TermMonths      int             `json:"term_months"`
	Purpose         string          `json:"purpose"`
	Documents       json.RawMessage `json:"documents,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	SubmittedAt     *time.Time      `json:"submitted_at"`
}

func (o *Operation) ToResponse() *OperationResponse {
	resp := &OperationResponse{
		ID:              o.ID,
		PartnerID:       o.PartnerID,
		Status:          o.Status,
		ClientName:      o.ClientName,
		ClientTaxID:     o.ClientTaxID,
		ClientEmail:     o.ClientEmail,
		ClientPhone:     o.ClientPhone,
		PropertyType:    o.PropertyType,
		PropertyValue:   o.PropertyValue,
		PropertyCity:    o.PropertyCity,
		PropertyState:   o.PropertyState,
		OwnProperty:     o.OwnProperty,
		RequestedAmount: o.RequestedAmount,
		DownPayment:     o.DownPayment,
		TermMonths:      o.TermMonths,
		Purpose:         o.Purpose,
		CreatedAt:       o.CreatedAt,
		SubmittedAt:     o.SubmittedAt,
	}

	if o.Documents != nil {
		resp.Documents = json.RawMessage(*o.Documents)
	}
	if o.Partner != nil {
		resp.PartnerName = o.Partner.Name
	}

	return resp
}

// Allowed values for enumerated operation fields
var (
	PropertyTypes = []string{"apartment", "house", "commercial", "land"}
	Purposes      = []string{"acquisition", "home_equity", "refinance", "construction"}
)

const (
	DefaultPropertyType = "apartment"
	DefaultPurpose      = "acquisition"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Admin{},
		&RefreshToken{},
		&Partner{},
		&PreRegistration{},
		&Operation{},
	)
}

// Status helpers shared with the domain layer

// PreRegStatuses lists the statuses an admin may set via the status path.
// domain.PreRegApproved is deliberately absent: approval happens only
// through promotion.
var PreRegStatuses = []string{
	string(domain.PreRegPreApproved),
	string(domain.PreRegRejected),
}
