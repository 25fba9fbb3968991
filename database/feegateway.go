package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolfees-backend/fees"
	"schoolfees-backend/models"
	"schoolfees-backend/utils"
)

// FeeGateway is the fees.Gateway backed by gorm and a tenant schema.
// Every operation runs in a transaction whose connection is pinned to the
// schema; ApplyPlan additionally makes a bulk action land whole or not at all.
type FeeGateway struct {
	db     *gorm.DB
	schema string
}

func NewFeeGateway(db *gorm.DB, schema string) *FeeGateway {
	return &FeeGateway{db: db, schema: schema}
}

// pinned runs fn in a transaction whose first statement pins search_path to
// the gateway's tenant schema. Pool connections carry no search_path
// guarantee; SET LOCAL scopes the pin to this transaction's connection.
func (g *FeeGateway) pinned(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if strings.TrimSpace(g.schema) == "" {
		return errors.New("tenant schema missing")
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SET LOCAL search_path = "` + g.schema + `", public`).Error; err != nil {
			return fmt.Errorf("set search_path failed: %w", err)
		}
		return fn(tx)
	})
}

func (g *FeeGateway) ActiveStructures(ctx context.Context, grade string) ([]models.FeeStructure, error) {
	var structures []models.FeeStructure
	err := g.pinned(ctx, func(tx *gorm.DB) error {
		return tx.Preload("FeeCategory").
			Where("active = ? AND grade ILIKE ?", true, grade).
			Order("id").
			Find(&structures).Error
	})
	return structures, err
}

func (g *FeeGateway) DemandsForStudent(ctx context.Context, studentID string) ([]models.FeeDemand, error) {
	var demands []models.FeeDemand
	err := g.pinned(ctx, func(tx *gorm.DB) error {
		return tx.Preload("FeeStructure.FeeCategory").
			Where("student_id = ?", studentID).
			Order("created_at DESC").
			Find(&demands).Error
	})
	return demands, err
}

// StudentWithGuardians loads the payment context student. Not part of
// fees.Gateway; the payment handlers read the student from the same pinned
// source as the demands.
func (g *FeeGateway) StudentWithGuardians(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	err := g.pinned(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Guardians").First(&student, "id = ?", id).Error
	})
	return student, err
}

func (g *FeeGateway) ApplyPlan(ctx context.Context, studentID string, plan fees.Plan, details fees.PaymentDetails) (fees.Result, error) {
	receiptNo := fees.NewReceiptNo()
	var res fees.Result
	err := g.pinned(ctx, func(tx *gorm.DB) error {
		var execErr error
		res, execErr = fees.ExecutePlan(&txApplier{tx: tx}, studentID, plan, details, receiptNo)
		return execErr
	})
	if err != nil {
		return fees.Result{}, err
	}
	return res, nil
}

func (g *FeeGateway) SaveReceipt(ctx context.Context, receipt models.FeeReceipt) error {
	return g.pinned(ctx, func(tx *gorm.DB) error {
		return tx.Create(&receipt).Error
	})
}

// txApplier performs the primitive plan writes inside one open transaction.
type txApplier struct {
	tx *gorm.DB
}

func (a *txApplier) MaterializeDemand(studentID string, row fees.PlaceholderRow, academicYear string) (models.FeeDemand, error) {
	// Re-read the structure so the demand is created from the current catalog
	// amount, not the row the client was shown.
	var structure models.FeeStructure
	if err := a.tx.First(&structure, "id = ?", row.Structure.Id).Error; err != nil {
		return models.FeeDemand{}, fmt.Errorf("fee structure not found: %w", err)
	}

	demand := models.FeeDemand{
		StudentID:      studentID,
		FeeStructureID: structure.Id,
		AcademicYear:   academicYear,
		OriginalAmount: structure.Amount,
		DiscountAmount: 0,
		DemandAmount:   structure.Amount,
		PaidAmount:     0,
		BalanceAmount:  structure.Amount,
		PaymentStatus:  models.StatusPending,
	}
	if err := a.tx.Create(&demand).Error; err != nil {
		return models.FeeDemand{}, err
	}
	return demand, nil
}

func (a *txApplier) RecordPayment(demandID, studentID string, line fees.PlanLine, details fees.PaymentDetails, receiptNo string) (fees.AppliedPayment, error) {
	var demand models.FeeDemand
	if err := a.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&demand, "id = ? AND student_id = ?", demandID, studentID).Error; err != nil {
		return fees.AppliedPayment{}, fmt.Errorf("fee demand not found: %w", err)
	}

	// Server-side guard; the balance may have moved since the client read it.
	if line.Amount > demand.BalanceAmount {
		return fees.AppliedPayment{}, fees.ErrExceedsBalance
	}

	balanceBefore := demand.BalanceAmount
	newPaid := utils.Round2(demand.PaidAmount + line.Amount)
	newBalance := utils.Round2(demand.DemandAmount - newPaid)
	newStatus := models.DeriveStatus(newPaid, newBalance)

	if err := a.tx.Model(&demand).Updates(map[string]any{
		"paid_amount":    newPaid,
		"balance_amount": newBalance,
		"payment_status": newStatus,
	}).Error; err != nil {
		return fees.AppliedPayment{}, err
	}

	payment := models.Payment{
		FeeDemandID:     demand.Id,
		StudentID:       studentID,
		Amount:          line.Amount,
		PaymentMethod:   details.Method,
		PaymentDate:     details.Date,
		ReferenceNumber: details.ReferenceNumber,
		Notes:           details.Notes,
		ReceiptNo:       receiptNo,
	}
	if err := a.tx.Create(&payment).Error; err != nil {
		return fees.AppliedPayment{}, err
	}

	return fees.AppliedPayment{
		DemandID:      demand.Id,
		FeeType:       line.Row.FeeType(),
		BalanceBefore: balanceBefore,
		Amount:        line.Amount,
		PaidAmount:    newPaid,
		BalanceAmount: newBalance,
		PaymentStatus: newStatus,
	}, nil
}
