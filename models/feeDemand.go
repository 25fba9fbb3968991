package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment status values derived from the demand's balance.
const (
	StatusPaid    = "paid"
	StatusPartial = "partial"
	StatusPending = "pending"
	StatusOverdue = "overdue"
)

// FeeDemand is the amount one student owes for one fee structure in one
// academic year. Invariants, also enforced by CHECK constraints:
//
//	demand_amount  = original_amount - discount_amount
//	balance_amount = demand_amount - paid_amount >= 0
type FeeDemand struct {
	Id             string       `json:"id" gorm:"primaryKey"`
	StudentID      string       `json:"student_id" gorm:"not null;index:idx_fee_demands_student_structure_year,unique,priority:1"`
	FeeStructureID string       `json:"fee_structure_id" gorm:"not null;index:idx_fee_demands_student_structure_year,unique,priority:2"`
	FeeStructure   FeeStructure `json:"-" gorm:"foreignKey:FeeStructureID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	AcademicYear   string       `json:"academic_year" gorm:"not null;index:idx_fee_demands_student_structure_year,unique,priority:3"`
	DueDate        *time.Time   `json:"due_date"`
	OriginalAmount float64      `json:"total_amount" gorm:"type:numeric(12,2)"`
	DiscountAmount float64      `json:"discount" gorm:"type:numeric(12,2)"`
	DiscountReason string       `json:"discount_reason"`
	DemandAmount   float64      `json:"demand_amount" gorm:"type:numeric(12,2)"`
	PaidAmount     float64      `json:"paid_amount" gorm:"type:numeric(12,2)"`
	BalanceAmount  float64      `json:"balance_amount" gorm:"type:numeric(12,2)"`
	PaymentStatus  string       `json:"payment_status" gorm:"type:VARCHAR(20);default:'pending'"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (demand *FeeDemand) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	demand.Id = uuid.NewString()
	return
}

// DeriveStatus returns the status implied by the paid/balance amounts.
func DeriveStatus(paid, balance float64) string {
	switch {
	case balance <= 0:
		return StatusPaid
	case paid > 0:
		return StatusPartial
	default:
		return StatusPending
	}
}
