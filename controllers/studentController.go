package controllers

import (
	"schoolfees-backend/database"
	"schoolfees-backend/middlewares"
	"schoolfees-backend/models"
	"schoolfees-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type createStudentDTO struct {
	FullName    string `json:"full_name" validate:"required"`
	AdmissionNo string `json:"admission_no" validate:"required"`
	Grade       string `json:"grade" validate:"required"`
	Section     string `json:"section"`
	Guardians   []struct {
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
		Email     string `json:"email" validate:"omitempty,email"`
	} `json:"guardians" validate:"dive"`
}

func CreateStudent(c *fiber.Ctx) error {
	var dto createStudentDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	student := models.Student{
		FullName:    dto.FullName,
		AdmissionNo: dto.AdmissionNo,
		Grade:       dto.Grade,
		Section:     dto.Section,
		Active:      true,
	}
	for _, g := range dto.Guardians {
		student.Guardians = append(student.Guardians, models.Guardian{
			FirstName: g.FirstName,
			LastName:  g.LastName,
			Phone:     g.Phone,
			Email:     g.Email,
		})
	}

	if err := tenantDB.Create(&student).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create student",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(student)
}

// GetStudents is the cashier's student picker: filter by grade/section, search
// by name or admission number.
func GetStudents(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	q := tenantDB.Model(&models.Student{}).Preload("Guardians").Where("active = ?", true)
	if grade := c.Query("grade"); grade != "" {
		q = q.Where("grade = ?", grade)
	}
	if section := c.Query("section"); section != "" {
		q = q.Where("section = ?", section)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		q = q.Where("full_name ILIKE ? OR admission_no ILIKE ?", pattern, pattern)
	}

	var students []models.Student
	if err := q.Order("full_name").Find(&students).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not fetch students")
	}

	return c.JSON(fiber.Map{
		"students": students,
		"message":  "success",
	})
}

func GetStudent(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var student models.Student
	if err := tenantDB.Preload("Guardians").First(&student, "id = ?", c.Params("id")).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "student not found")
	}
	return c.JSON(student)
}

type patchStudentDTO struct {
	FullName *string `json:"full_name"`
	Grade    *string `json:"grade"`
	Section  *string `json:"section"`
	Active   *bool   `json:"active"`
}

func UpdateStudent(c *fiber.Ctx) error {
	var dto patchStudentDTO
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&dto)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	result := tenantDB.Model(&models.Student{}).Where("id = ?", c.Params("id")).Updates(updates)
	if result.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update student")
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "student not found")
	}

	var student models.Student
	tenantDB.Preload("Guardians").First(&student, "id = ?", c.Params("id"))
	return c.JSON(student)
}
