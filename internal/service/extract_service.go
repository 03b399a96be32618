package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
	"go.uber.org/zap"
)

// ErrMissingText is returned before any external call when there is no OCR
// text to structure.
var ErrMissingText = errors.New("ocrText missing")

const extractionPromptFormat = `You are a JSON-only extractor. Extract receipt fields from the OCR text below.
Return ONLY valid JSON (no explanations). Use these keys exactly:
{
  "merchant_name": string,
  "date": "YYYY-MM-DD",
  "total_amount": number,
  "line_items": [
    { "name": string, "price": number, "quantity": number }
  ],
  "category": one of: "Food", "Transport", "Shopping", "Health", "Entertainment", "Bills", "Groceries", "Others"
}

OCR TEXT:
%s

If a value is not present exactly, make your best guess. Date must be in YYYY-MM-DD if possible. total_amount must be a number only.`

// ExtractService is the structuring gateway: raw OCR text in, the model's
// verbatim textual response out. It does not validate JSON-ness; the response
// may still be fenced or malformed and the parser downstream must repair it.
type ExtractService struct {
	gemini TextGenerator
	logger *zap.Logger
}

func NewExtractService(gemini TextGenerator, logger *zap.Logger) *ExtractService {
	return &ExtractService{gemini: gemini, logger: logger}
}

func (s *ExtractService) Extract(ctx context.Context, ocrText string) (string, error) {
	if strings.TrimSpace(ocrText) == "" {
		return "", ErrMissingText
	}

	prompt := fmt.Sprintf(extractionPromptFormat, ocrText)

	raw, err := s.gemini.GenerateText(ctx, []*genai.Part{{Text: prompt}})
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}

	s.logger.Info("Structuring extraction completed",
		zap.Int("ocr_length", len(ocrText)),
		zap.Int("response_length", len(raw)),
	)

	return sanitizeUTF8(raw), nil
}
