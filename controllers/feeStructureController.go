package controllers

import (
	"schoolfees-backend/database"
	"schoolfees-backend/middlewares"
	"schoolfees-backend/models"
	"schoolfees-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type structureInput struct {
	FeeCategoryID string  `json:"fee_category_id" validate:"required"`
	Grade         string  `json:"grade" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Active        *bool   `json:"is_active"`
}

// CreateFeeStructures batch-creates catalog entries.
func CreateFeeStructures(c *fiber.Ctx) error {
	var inputs []structureInput
	if err := c.BodyParser(&inputs); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var created []models.FeeStructure
	for i, input := range inputs {
		if err := middlewares.ValidateStruct(input); err != nil {
			return err
		}
		active := true
		if input.Active != nil {
			active = *input.Active
		}
		structure := models.FeeStructure{
			FeeCategoryID: input.FeeCategoryID,
			Grade:         input.Grade,
			Amount:        utils.Round2(input.Amount),
			Active:        active,
		}
		if err := tenantDB.Create(&structure).Error; err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"message": "Could not create fee structure",
				"error":   err.Error(),
				"index":   i,
			})
		}
		created = append(created, structure)
	}

	return c.Status(201).JSON(created)
}

// GetFeeStructures lists catalog entries, optionally by grade. Inactive
// entries are included only when all=1 (the payment flow reads active only).
func GetFeeStructures(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	q := tenantDB.Model(&models.FeeStructure{}).Preload("FeeCategory")
	if c.Query("all") == "" {
		q = q.Where("active = ?", true)
	}
	if grade := c.Query("grade"); grade != "" {
		q = q.Where("grade ILIKE ?", grade)
	}

	var structures []models.FeeStructure
	if err := q.Order("id").Find(&structures).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee structures")
	}

	return c.JSON(fiber.Map{
		"structures": structures,
		"message":    "success",
	})
}

type patchStructureDTO struct {
	Grade  *string  `json:"grade"`
	Amount *float64 `json:"amount"`
	Active *bool    `json:"is_active"`
}

func UpdateFeeStructure(c *fiber.Ctx) error {
	var dto patchStructureDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	updates := utils.UpdatesFromPtrDTO(&dto, map[string]string{"is_active": "active"})
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	result := tenantDB.Model(&models.FeeStructure{}).Where("id = ?", c.Params("id")).Updates(updates)
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update fee structure")
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "fee structure not found")
	}

	var structure models.FeeStructure
	tenantDB.Preload("FeeCategory").First(&structure, "id = ?", c.Params("id"))
	return c.JSON(structure)
}
