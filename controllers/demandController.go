package controllers

import (
	"time"

	"schoolfees-backend/database"
	"schoolfees-backend/fees"
	"schoolfees-backend/middlewares"
	"schoolfees-backend/models"
	"schoolfees-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetStudentDemands returns the reconciled fee table for one student: one row
// per active structure of their grade, placeholders included. Demands whose
// structure left the catalog but still carry a balance are appended when
// include_orphaned=1.
func GetStudentDemands(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var student models.Student
	if err := tenantDB.First(&student, "id = ?", c.Params("id")).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "student not found")
	}

	schema, _ := c.Locals("schema").(string)
	gw := database.NewFeeGateway(database.DB, schema)
	structures, err := gw.ActiveStructures(c.Context(), student.Grade)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee structures")
	}
	demands, err := gw.DemandsForStudent(c.Context(), student.Id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee demands")
	}

	rows := fees.Reconcile(structures, demands, fees.ReconcileOptions{
		IncludeOrphaned: c.Query("include_orphaned") != "",
	})

	views := make([]fees.RowView, 0, len(rows))
	for _, row := range rows {
		views = append(views, fees.View(row))
	}

	return c.JSON(fiber.Map{
		"data":    views,
		"message": "success",
	})
}

type demandDTO struct {
	StudentID      string     `json:"student_id" validate:"required,uuid4"`
	FeeStructureID string     `json:"fee_structure_id" validate:"required,uuid4"`
	AcademicYear   string     `json:"academic_year" validate:"required"`
	OriginalAmount float64    `json:"original_amount" validate:"gt=0"`
	DiscountAmount float64    `json:"discount_amount" validate:"gte=0"`
	DiscountReason string     `json:"discount_reason"`
	DemandAmount   float64    `json:"demand_amount" validate:"gt=0"`
	DueDate        *time.Time `json:"due_date"`
}

type upsertDemandsDTO struct {
	Demands []demandDTO `json:"demands" validate:"required,min=1,dive"`
}

// UpsertDemands saves demand rows from the demand-generation flow. Conflicts
// on (student, structure, year) update amounts and re-derive the balance from
// the already-paid total.
func UpsertDemands(c *fiber.Ctx) error {
	var dto upsertDemandsDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	for _, d := range dto.Demands {
		if utils.Round2(d.OriginalAmount-d.DiscountAmount) != utils.Round2(d.DemandAmount) {
			return fiber.NewError(fiber.StatusBadRequest, "demand amount must equal original amount minus discount")
		}
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rows := make([]models.FeeDemand, 0, len(dto.Demands))
	for _, d := range dto.Demands {
		amount := utils.Round2(d.DemandAmount)
		rows = append(rows, models.FeeDemand{
			StudentID:      d.StudentID,
			FeeStructureID: d.FeeStructureID,
			AcademicYear:   d.AcademicYear,
			DueDate:        d.DueDate,
			OriginalAmount: utils.Round2(d.OriginalAmount),
			DiscountAmount: utils.Round2(d.DiscountAmount),
			DiscountReason: d.DiscountReason,
			DemandAmount:   amount,
			PaidAmount:     0,
			BalanceAmount:  amount,
			PaymentStatus:  models.StatusPending,
		})
	}

	err = tenantDB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "fee_structure_id"}, {Name: "academic_year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"due_date":        gorm.Expr("excluded.due_date"),
			"original_amount": gorm.Expr("excluded.original_amount"),
			"discount_amount": gorm.Expr("excluded.discount_amount"),
			"discount_reason": gorm.Expr("excluded.discount_reason"),
			"demand_amount":   gorm.Expr("excluded.demand_amount"),
			"balance_amount":  gorm.Expr("excluded.demand_amount - fee_demands.paid_amount"),
			"payment_status": gorm.Expr(`CASE
				WHEN excluded.demand_amount - fee_demands.paid_amount <= 0 THEN 'paid'
				WHEN fee_demands.paid_amount > 0 THEN 'partial'
				ELSE 'pending' END`),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(&rows).Error
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not save fee demands",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":    rows,
		"message": "Fee demands saved successfully",
	})
}
