package controllers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"schoolfees-backend/database"
	"schoolfees-backend/fees"
	"schoolfees-backend/middlewares"
	"schoolfees-backend/models"
	"schoolfees-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type paymentDTO struct {
	FeeDemandID     string  `json:"fee_demand_id" validate:"required"`
	StudentID       string  `json:"student_id" validate:"required,uuid4"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cash cheque online card"`
	PaymentDate     string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes"`
	AcademicYear    string  `json:"academic_year"`
}

type bulkPaymentLine struct {
	FeeDemandID     string  `json:"fee_demand_id" validate:"required"`
	StudentID       string  `json:"student_id" validate:"required,uuid4"`
	Amount          float64 `json:"amount"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cash cheque online card"`
	PaymentDate     string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes"`
	FeeType         string  `json:"fee_type"`
	IsNew           bool    `json:"is_new"`
	FeeStructureID  string  `json:"fee_structure_id"`
	AcademicYear    string  `json:"academic_year"`
}

type bulkPaymentDTO struct {
	Payments []bulkPaymentLine `json:"payments" validate:"required,min=1,dive"`
}

// localError maps the allocator's validation errors to 400s so they surface
// with their own messages instead of the generic handler.
func localError(err error) error {
	switch {
	case errors.Is(err, fees.ErrNoStudent),
		errors.Is(err, fees.ErrInvalidAmount),
		errors.Is(err, fees.ErrExceedsBalance),
		errors.Is(err, fees.ErrNoneSelected),
		errors.Is(err, fees.ErrNoAllocations):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func academicYearOrCurrent(year string) string {
	if year != "" {
		return year
	}
	return strconv.Itoa(time.Now().Year())
}

// ApplyPayment applies one amount to one demand row. Placeholder rows are
// materialized and paid in one atomic gateway call.
func ApplyPayment(c *fiber.Ctx) error {
	var dto paymentDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	schema, _ := c.Locals("schema").(string)
	gw := database.NewFeeGateway(database.DB, schema)

	student, err := gw.StudentWithGuardians(c.Context(), dto.StudentID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fees.ErrNoStudent.Error())
	}

	structures, err := gw.ActiveStructures(c.Context(), student.Grade)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee structures")
	}
	demands, err := gw.DemandsForStudent(c.Context(), student.Id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee demands")
	}
	rows := fees.Reconcile(structures, demands, fees.ReconcileOptions{IncludeOrphaned: true})

	row, ok := fees.FindRow(rows, dto.FeeDemandID)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "fee demand not found")
	}

	paymentDate, err := time.Parse("2006-01-02", dto.PaymentDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment date")
	}
	details := fees.PaymentDetails{
		Method:          dto.PaymentMethod,
		Date:            paymentDate,
		ReferenceNumber: dto.ReferenceNumber,
		Notes:           dto.Notes,
		AcademicYear:    academicYearOrCurrent(dto.AcademicYear),
	}

	session := fees.NewSession(student)
	if err := session.Select([]fees.DemandRow{row}); err != nil {
		return localError(err)
	}
	plan, err := fees.SinglePlan(row, dto.Amount)
	if err != nil {
		return localError(err)
	}
	if err := session.Confirm(plan); err != nil {
		return localError(err)
	}

	result, err := session.Submit(c.Context(), gw, details)
	if err != nil {
		return localError(err)
	}

	receipt := composeAndAudit(c, gw, student, details, result)

	return c.JSON(fiber.Map{
		"success":    true,
		"receipt_no": result.ReceiptNo,
		"receipt":    receipt,
		"payments":   result.Payments,
		"message":    "Payment applied successfully",
	})
}

// ApplyBulkPayment allocates one payment action across several demand rows.
// The whole action is one atomic gateway call: any failing row voids it all.
func ApplyBulkPayment(c *fiber.Ctx) error {
	var dto bulkPaymentDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	first := dto.Payments[0]
	for _, p := range dto.Payments {
		if p.StudentID != first.StudentID {
			return fiber.NewError(fiber.StatusBadRequest, "all payments must be for one student")
		}
	}

	schema, _ := c.Locals("schema").(string)
	gw := database.NewFeeGateway(database.DB, schema)

	student, err := gw.StudentWithGuardians(c.Context(), first.StudentID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fees.ErrNoStudent.Error())
	}

	structures, err := gw.ActiveStructures(c.Context(), student.Grade)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee structures")
	}
	demands, err := gw.DemandsForStudent(c.Context(), student.Id)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee demands")
	}
	rows := fees.Reconcile(structures, demands, fees.ReconcileOptions{IncludeOrphaned: true})

	selected := make([]fees.DemandRow, 0, len(dto.Payments))
	allocations := make(map[string]float64, len(dto.Payments))
	for _, p := range dto.Payments {
		row, ok := fees.FindRow(rows, p.FeeDemandID)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "fee demand not found for "+p.FeeType)
		}
		if err := fees.CheckRowRef(row, p.IsNew, p.FeeStructureID); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		selected = append(selected, row)
		allocations[row.RowID()] = utils.Round2(p.Amount)
	}

	paymentDate, err := time.Parse("2006-01-02", first.PaymentDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment date")
	}
	details := fees.PaymentDetails{
		Method:          first.PaymentMethod,
		Date:            paymentDate,
		ReferenceNumber: first.ReferenceNumber,
		Notes:           first.Notes,
		AcademicYear:    academicYearOrCurrent(first.AcademicYear),
	}

	session := fees.NewSession(student)
	if err := session.Select(selected); err != nil {
		return localError(err)
	}
	plan, err := fees.BulkPlan(selected, allocations)
	if err != nil {
		return localError(err)
	}
	if err := session.Confirm(plan); err != nil {
		return localError(err)
	}

	result, err := session.Submit(c.Context(), gw, details)
	if err != nil {
		return localError(err)
	}

	receipt := composeAndAudit(c, gw, student, details, result)

	return c.JSON(fiber.Map{
		"success":    true,
		"receipt_no": result.ReceiptNo,
		"receipt":    receipt,
		"payments":   result.Payments,
		"total":      result.Total(),
		"message":    "Bulk payment applied successfully",
	})
}

// composeAndAudit builds the receipt from cached context and stores the audit
// copy. The payment is already committed: an audit failure is logged, never
// returned.
func composeAndAudit(c *fiber.Ctx, gw *database.FeeGateway, student models.Student, details fees.PaymentDetails, result fees.Result) fees.Receipt {
	var school models.School
	if schema, _ := c.Locals("schema").(string); schema != "" {
		database.DB.Where("schema_name = ?", schema).First(&school)
	}

	receipt := fees.ComposeReceipt(school, student, details, result)

	record, err := receipt.Record(student.Id)
	if err == nil {
		err = gw.SaveReceipt(c.Context(), record)
	}
	if err != nil {
		log.Printf("receipt audit save failed for %s: %v", result.ReceiptNo, err)
	}
	return receipt
}
