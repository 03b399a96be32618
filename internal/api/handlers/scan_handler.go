package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"snapspend/internal/dto"
	"snapspend/internal/service"
)

// ScanHandler exposes the two pipeline stages as standalone endpoints, so a
// client can run OCR and structuring itself instead of going through a
// capture session.
type ScanHandler struct {
	ocrService     *service.OCRService
	extractService *service.ExtractService
	logger         *zap.Logger
}

func NewScanHandler(ocrService *service.OCRService, extractService *service.ExtractService, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		ocrService:     ocrService,
		extractService: extractService,
		logger:         logger,
	}
}

func (h *ScanHandler) OCR(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no file uploaded",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no file uploaded",
		})
	}
	defer file.Close()

	data := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, data); err != nil {
		h.logger.Error("Failed to read uploaded image", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read image",
		})
	}

	text, err := h.ocrService.ExtractText(c.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrMissingImage) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": service.ErrMissingImage.Error(),
			})
		}
		h.logger.Error("OCR failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(dto.OCRResponse{Text: text})
}

func (h *ScanHandler) ExtractDetails(c *fiber.Ctx) error {
	var req dto.ExtractDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	raw, err := h.extractService.Extract(c.Context(), req.OCRText)
	if err != nil {
		if errors.Is(err, service.ErrMissingText) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": service.ErrMissingText.Error(),
			})
		}
		h.logger.Error("Extraction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(dto.ExtractDetailsResponse{JSON: raw})
}
