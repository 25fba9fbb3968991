package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeeReceipt is the persisted audit copy of one payment action (single or
// bulk). Everything needed to re-render the printable document is snapshotted
// here so the receipt survives later edits to students or school settings.
type FeeReceipt struct {
	Id        string `json:"id" gorm:"primaryKey"`
	ReceiptNo string `json:"receipt_no" gorm:"not null;uniqueIndex"`
	StudentID string `json:"student_id" gorm:"not null;index:idx_fee_receipts_student_date,priority:1"`

	// Student snapshot
	StudentName        string `json:"student_name" gorm:"not null"`
	StudentAdmissionNo string `json:"student_admission_no"`
	StudentGrade       string `json:"student_grade"`
	StudentSection     string `json:"student_section"`
	GuardianName       string `json:"parent_name"`
	GuardianPhone      string `json:"parent_phone"`
	GuardianEmail      string `json:"parent_email"`

	// Payment details
	PaymentMethod   string    `json:"payment_method" gorm:"type:VARCHAR(20)"`
	PaymentDate     time.Time `json:"payment_date" gorm:"index:idx_fee_receipts_student_date,priority:2"`
	ReferenceNumber string    `json:"reference_number"`
	Notes           string    `json:"notes"`

	// Per-line {fee_type, balance_before, amount, demand_id}
	Items       datatypes.JSON `json:"receipt_items" gorm:"type:jsonb"`
	TotalAmount float64        `json:"total_amount" gorm:"type:numeric(12,2)"`

	// School snapshot
	SchoolName    string `json:"school_name"`
	SchoolAddress string `json:"school_address"`
	SchoolPhone   string `json:"school_phone"`
	SchoolEmail   string `json:"school_email"`
	SchoolLogoURL string `json:"school_logo_url"`

	CreatedAt time.Time `json:"created_at"`
}

func (receipt *FeeReceipt) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	receipt.Id = uuid.NewString()
	return
}
