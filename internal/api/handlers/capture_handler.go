package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapspend/internal/capture"
	"snapspend/internal/dto"
)

// CaptureHandler drives the scan-to-receipt workflow over HTTP. Every
// mutating endpoint returns the session's full state afterwards so the
// client can render whichever step it landed on.
type CaptureHandler struct {
	registry *capture.Registry
	logger   *zap.Logger
}

func NewCaptureHandler(registry *capture.Registry, logger *zap.Logger) *CaptureHandler {
	return &CaptureHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *CaptureHandler) Create(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	session := h.registry.Create(userID)
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(session))
}

func (h *CaptureHandler) Get(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}
	return c.JSON(sessionResponse(session))
}

// ProcessImage accepts a multipart image and runs the pipeline. Without a
// file part it re-runs processing on the already-selected image, which is
// how the client retries after a failure.
func (h *CaptureHandler) ProcessImage(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}

	var (
		name string
		mime string
		data []byte
	)
	if fileHeader, ferr := c.FormFile("image"); ferr == nil {
		file, oerr := fileHeader.Open()
		if oerr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "no file uploaded",
			})
		}
		defer file.Close()
		data = make([]byte, fileHeader.Size)
		if _, rerr := io.ReadFull(file, data); rerr != nil {
			h.logger.Error("Failed to read uploaded image", zap.Error(rerr))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to read image",
			})
		}
		name = fileHeader.Filename
		mime = fileHeader.Header.Get("Content-Type")
	}

	if err := session.Process(c.Context(), name, mime, data); err != nil {
		if isCaptureSentinel(err) {
			return captureError(c, err)
		}
		// Pipeline failure: the session is already back in upload with the
		// failure surfaced, so return its state along with the error.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   err.Error(),
			"session": sessionResponse(session),
		})
	}
	return c.JSON(sessionResponse(session))
}

func (h *CaptureHandler) UpdateDraft(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}

	var req dto.UpdateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	edit := capture.DraftEdit{
		MerchantName: req.MerchantName,
		Date:         req.Date,
		TotalAmount:  req.TotalAmount,
		LineItems:    req.LineItems,
		Category:     req.Category,
		Notes:        req.Notes,
	}
	if err := session.UpdateDraft(edit); err != nil {
		return captureError(c, err)
	}
	return c.JSON(sessionResponse(session))
}

func (h *CaptureHandler) Save(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}

	if _, err := session.Save(c.Context()); err != nil {
		if isCaptureSentinel(err) {
			return captureError(c, err)
		}
		h.logger.Error("Failed to save receipt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save receipt",
		})
	}
	return c.JSON(sessionResponse(session))
}

func (h *CaptureHandler) EnterManual(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}
	if err := session.EnterManual(); err != nil {
		return captureError(c, err)
	}
	return c.JSON(sessionResponse(session))
}

func (h *CaptureHandler) SaveManual(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}

	if _, err := session.SaveManual(c.Context()); err != nil {
		if isCaptureSentinel(err) {
			return captureError(c, err)
		}
		h.logger.Error("Failed to save receipt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save receipt",
		})
	}
	return c.JSON(sessionResponse(session))
}

func (h *CaptureHandler) Back(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}
	if err := session.Back(); err != nil {
		return captureError(c, err)
	}
	return c.JSON(sessionResponse(session))
}

func (h *CaptureHandler) Reset(c *fiber.Ctx) error {
	session, err := h.session(c)
	if err != nil {
		return captureError(c, err)
	}
	if err := session.Reset(); err != nil {
		return captureError(c, err)
	}
	return c.JSON(sessionResponse(session))
}

func (h *CaptureHandler) Close(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	confirm := c.Query("confirm") == "true"
	if err := h.registry.Close(id, userID, confirm); err != nil {
		return captureError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CaptureHandler) session(c *fiber.Ctx) (*capture.Session, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, capture.ErrSessionNotFound
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, capture.ErrSessionNotFound
	}
	return h.registry.Get(id, userID)
}

func sessionResponse(s *capture.Session) dto.CaptureSessionResponse {
	snap := s.Snapshot()
	return dto.CaptureSessionResponse{
		ID:       snap.ID.String(),
		Step:     string(snap.Step),
		Progress: snap.Progress,
		Error:    snap.Failure,
		Draft: dto.DraftResponse{
			ImageURL:     snap.Draft.ImageURL,
			OCRText:      snap.Draft.RawOCRText,
			RawJSON:      snap.Draft.RawModelText,
			MerchantName: snap.Draft.MerchantName,
			Date:         snap.Draft.Date,
			TotalAmount:  snap.Draft.TotalAmount,
			LineItems:    snap.Draft.LineItems,
			Category:     string(snap.Draft.Category),
			Notes:        snap.Draft.Notes,
		},
	}
}

func isCaptureSentinel(err error) bool {
	return errors.Is(err, capture.ErrNoImage) ||
		errors.Is(err, capture.ErrProcessingInFlight) ||
		errors.Is(err, capture.ErrInvalidStep) ||
		errors.Is(err, capture.ErrSessionClosed) ||
		errors.Is(err, capture.ErrConfirmRequired) ||
		errors.Is(err, capture.ErrSessionNotFound)
}

func captureError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, capture.ErrSessionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, capture.ErrConfirmRequired), errors.Is(err, capture.ErrProcessingInFlight):
		status = fiber.StatusConflict
	case errors.Is(err, capture.ErrSessionClosed):
		status = fiber.StatusGone
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
