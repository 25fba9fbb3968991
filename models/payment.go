package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment methods accepted by the cashier flow.
const (
	MethodCash   = "cash"
	MethodCheque = "cheque"
	MethodOnline = "online"
	MethodCard   = "card"
)

// Payment records money applied to exactly one fee demand. Created once,
// never updated or deleted.
type Payment struct {
	Id              string     `json:"id" gorm:"primaryKey"`
	FeeDemandID     string     `json:"fee_demand_id" gorm:"not null;index:idx_payments_demand_date,priority:1"`
	FeeDemand       FeeDemand  `json:"-" gorm:"foreignKey:FeeDemandID;references:Id;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	StudentID       string     `json:"student_id" gorm:"not null;index"`
	Amount          float64    `json:"amount" gorm:"type:numeric(12,2)"`
	PaymentMethod   string     `json:"payment_method" gorm:"type:VARCHAR(20);not null"`
	PaymentDate     time.Time  `json:"payment_date" gorm:"index:idx_payments_demand_date,priority:2"`
	ReferenceNumber string     `json:"reference_number"`
	Notes           string     `json:"notes"`
	ReceiptNo       string     `json:"receipt_no" gorm:"index"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	payment.Id = uuid.NewString()
	return
}
