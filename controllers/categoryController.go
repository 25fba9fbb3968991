package controllers

import (
	"schoolfees-backend/database"
	"schoolfees-backend/middlewares"
	"schoolfees-backend/models"
	"schoolfees-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type categoryDTO struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func CreateFeeCategory(c *fiber.Ctx) error {
	var dto categoryDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	category := models.FeeCategory{
		Name:        dto.Name,
		Description: dto.Description,
	}
	if err := tenantDB.Create(&category).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create fee category",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

func GetFeeCategories(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var categories []models.FeeCategory
	if err := tenantDB.Order("name").Find(&categories).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch fee categories")
	}

	return c.JSON(fiber.Map{
		"categories": categories,
		"message":    "success",
	})
}

func UpdateFeeCategory(c *fiber.Ctx) error {
	var dto categoryDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result := tenantDB.Model(&models.FeeCategory{}).Where("id = ?", c.Params("id")).Updates(map[string]any{
		"name":        dto.Name,
		"description": dto.Description,
	})
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update fee category")
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "fee category not found")
	}

	var category models.FeeCategory
	tenantDB.First(&category, "id = ?", c.Params("id"))
	return c.JSON(category)
}
