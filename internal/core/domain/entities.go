package domain

import "time"

// PreRegStatus represents the screening status of a pre-registration
type PreRegStatus string

const (
	PreRegPreApproved PreRegStatus = "pre-approved"
	PreRegRejected    PreRegStatus = "rejected"
	PreRegApproved    PreRegStatus = "approved" // reachable only through promotion
)

// OperationStatus represents the lifecycle status of a loan operation
type OperationStatus string

const (
	OperationDraft            OperationStatus = "draft"
	OperationSubmitted        OperationStatus = "submitted"
	OperationInReview         OperationStatus = "in_review"
	OperationPendingDocuments OperationStatus = "pending_documents"
	OperationApproved         OperationStatus = "approved"
	OperationRejected         OperationStatus = "rejected"
	OperationCancelled        OperationStatus = "cancelled"
)

// OperationStatuses lists every valid operation status.
var OperationStatuses = []string{
	string(OperationDraft),
	string(OperationSubmitted),
	string(OperationInReview),
	string(OperationPendingDocuments),
	string(OperationApproved),
	string(OperationRejected),
	string(OperationCancelled),
}

// Answer tokens for qualifying questions
const (
	AnswerYes = "SIM"
	AnswerNo  = "NAO"
)

// Partner represents an approved referral-program participant in the domain layer
type Partner struct {
	ID             uint
	Name           string
	TaxID          string
	Email          string
	Password       string // hashed
	TempCredential string // plaintext, set only at promotion/rotation
	HasBusinessReg string
	HasClientBase  string
	ReferralVolume string
	City           string
	State          string
	CreatedAt      time.Time
}

// PreRegistration represents a screening submission awaiting a decision
type PreRegistration struct {
	ID             uint
	HasBusinessReg string
	HasClientBase  string
	ReferralVolume string
	FullName       string
	TaxID          string
	BusinessID     string
	Email          string
	Phone          string
	ConsentTerms   bool
	ConsentContact bool
	Status         PreRegStatus
	CreatedAt      time.Time
}

// Operation represents a loan-referral case submitted by a partner
type Operation struct {
	ID          uint
	PartnerID   uint
	Status      OperationStatus
	CreatedAt   time.Time
	SubmittedAt *time.Time
}
