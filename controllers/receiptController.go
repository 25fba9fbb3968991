package controllers

import (
	"schoolfees-backend/database"
	"schoolfees-backend/fees"
	"schoolfees-backend/models"
	"schoolfees-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetReceipts lists stored receipts, newest payment first. Filters:
// student_id, start_date and end_date (on payment_date, YYYY-MM-DD),
// limit and offset.
func GetReceipts(c *fiber.Ctx) error {
	db, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	query := db.Model(&models.FeeReceipt{})
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if start := c.Query("start_date"); start != "" {
		query = query.Where("payment_date >= ?", start)
	}
	if end := c.Query("end_date"); end != "" {
		query = query.Where("payment_date <= ?", end)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not count receipts")
	}

	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var receipts []models.FeeReceipt
	if err := query.Order("payment_date desc").Limit(limit).Offset(offset).Find(&receipts).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch receipts")
	}

	return c.JSON(fiber.Map{
		"receipts": receipts,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetReceipt returns one stored receipt by its receipt number.
func GetReceipt(c *fiber.Ctx) error {
	db, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var receipt models.FeeReceipt
	if err := db.First(&receipt, "receipt_no = ?", c.Params("receiptNo")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "receipt not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch receipt")
	}
	return c.JSON(receipt)
}

// PrintReceipt renders a stored receipt as a printable HTML document.
func PrintReceipt(c *fiber.Ctx) error {
	db, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var record models.FeeReceipt
	if err := db.First(&record, "receipt_no = ?", c.Params("receiptNo")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "receipt not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch receipt")
	}

	receipt, err := fees.ReceiptFromRecord(record)
	if err != nil {
		return fiber.NewError(fiber.StatusConflict, "receipt is not printable")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(receipt.HTML())
}
