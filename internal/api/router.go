package api

import (
	"snapspend/internal/api/handlers"
	"snapspend/pkg/auth"
	"snapspend/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	scanHandler *handlers.ScanHandler,
	captureHandler *handlers.CaptureHandler,
	receiptHandler *handlers.ReceiptHandler,
	budgetHandler *handlers.BudgetHandler,
	dashboardHandler *handlers.DashboardHandler,
	exportHandler *handlers.ExportHandler,
	jwtManager *auth.JWTManager,
	bodyLimitMB int,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: bodyLimitMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Auth routes (public)
	auth := app.Group("/user/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	// Standalone pipeline stages
	protected.Post("/ocr", scanHandler.OCR)
	protected.Post("/extract-details", scanHandler.ExtractDetails)

	// Capture workflow sessions
	capture := protected.Group("/capture")
	capture.Post("", captureHandler.Create)
	capture.Get("/:id", captureHandler.Get)
	capture.Post("/:id/image", captureHandler.ProcessImage)
	capture.Put("/:id/draft", captureHandler.UpdateDraft)
	capture.Post("/:id/save", captureHandler.Save)
	capture.Post("/:id/manual", captureHandler.EnterManual)
	capture.Post("/:id/manual/save", captureHandler.SaveManual)
	capture.Post("/:id/back", captureHandler.Back)
	capture.Post("/:id/reset", captureHandler.Reset)
	capture.Delete("/:id", captureHandler.Close)

	// Receipt routes
	receipts := protected.Group("/receipts")
	receipts.Get("", receiptHandler.List)
	receipts.Put("/:id", receiptHandler.Update)
	receipts.Delete("/:id", receiptHandler.Delete)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.Put("", budgetHandler.Upsert)
	budgets.Get("", budgetHandler.List)

	// Dashboard and export
	protected.Get("/dashboard", dashboardHandler.Summary)
	protected.Get("/export/receipts.xlsx", exportHandler.ReceiptsXLSX)

	return app
}
