package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
	"go.uber.org/zap"
)

// ErrMissingImage is returned before any external call when the caller
// supplied no image bytes.
var ErrMissingImage = errors.New("no file uploaded")

const ocrPrompt = "Extract all readable text from this image. Return plain text only."

// OCRService is a stateless gateway: image bytes in, best-effort plain text
// out. An image with no discernible text yields an empty string, which is
// valid output rather than an error.
type OCRService struct {
	gemini TextGenerator
	logger *zap.Logger
}

// TextGenerator is the slice of GeminiClient the gateways need.
type TextGenerator interface {
	GenerateText(ctx context.Context, parts []*genai.Part) (string, error)
}

func NewOCRService(gemini TextGenerator, logger *zap.Logger) *OCRService {
	return &OCRService{gemini: gemini, logger: logger}
}

func (s *OCRService) ExtractText(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	if len(imageBytes) == 0 {
		return "", ErrMissingImage
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	parts := []*genai.Part{
		{Text: ocrPrompt},
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageBytes}},
	}

	text, err := s.gemini.GenerateText(ctx, parts)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}

	text = strings.TrimSpace(sanitizeUTF8(text))

	s.logger.Info("OCR extraction completed",
		zap.Int("image_size", len(imageBytes)),
		zap.Int("text_length", len(text)),
	)

	return text, nil
}
