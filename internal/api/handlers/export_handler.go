package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"snapspend/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// ReceiptsXLSX streams the user's receipts for the optional date range as a
// spreadsheet download.
func (h *ExportHandler) ReceiptsXLSX(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
	}

	data, err := h.exportService.ExportReceiptsXLSX(c.Context(), userID, start, end)
	if err != nil {
		h.logger.Error("Failed to export receipts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export receipts",
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="receipts.xlsx"`)
	return c.Send(data)
}
