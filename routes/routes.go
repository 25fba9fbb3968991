package routes

import (
	"github.com/gofiber/fiber/v2"

	"schoolfees-backend/controllers"
	"schoolfees-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Payments manage their own transaction in the gateway so that the
	// audit receipt write stays outside the money-moving commit. They
	// register before the TenantTx group on purpose.
	protected.Post("/fees/apply-payment", controllers.ApplyPayment)
	protected.Post("/fees/bulk-payment", controllers.ApplyBulkPayment)

	// Everything else runs inside a per-request tenant transaction
	// (pins search_path and commits/rolls back)
	crud := protected.Group("")
	crud.Use(middlewares.TenantTx())

	// Students
	crud.Post("/student", controllers.CreateStudent)
	crud.Get("/students", controllers.GetStudents)
	crud.Get("/student/:id", controllers.GetStudent)
	crud.Put("/student/:id", controllers.UpdateStudent)

	// Fee categories
	crud.Post("/fees/category", controllers.CreateFeeCategory)
	crud.Get("/fees/categories", controllers.GetFeeCategories)
	crud.Put("/fees/categories/:id", controllers.UpdateFeeCategory)

	// Fee structures (batch create)
	crud.Post("/fees/structure", controllers.CreateFeeStructures)
	crud.Get("/fees/structures", controllers.GetFeeStructures)
	crud.Put("/fees/structures/:id", controllers.UpdateFeeStructure)

	// Demands (reconciled per student, plus bulk upsert)
	crud.Get("/fees/demands/:id", controllers.GetStudentDemands)
	crud.Post("/fees/demands", controllers.UpsertDemands)

	// Receipts
	crud.Get("/fees/receipts", controllers.GetReceipts)
	crud.Get("/fees/receipts/:receiptNo", controllers.GetReceipt)
	crud.Get("/fees/receipts/:receiptNo/print", controllers.PrintReceipt)
}
