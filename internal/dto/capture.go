package dto

import "snapspend/internal/models"

// DraftResponse exposes the session's transient draft, including the raw OCR
// and model text for the review screen's raw-data tab.
type DraftResponse struct {
	ImageURL     string            `json:"image_url"`
	OCRText      string            `json:"ocr_text"`
	RawJSON      string            `json:"raw_json"`
	MerchantName string            `json:"merchant_name"`
	Date         string            `json:"date"`
	TotalAmount  *float64          `json:"total_amount"`
	LineItems    []models.LineItem `json:"line_items"`
	Category     string            `json:"category"`
	Notes        string            `json:"notes"`
}

type CaptureSessionResponse struct {
	ID       string        `json:"id"`
	Step     string        `json:"step"`
	Progress string        `json:"progress,omitempty"`
	Error    string        `json:"error,omitempty"`
	Draft    DraftResponse `json:"draft"`
}

// UpdateDraftRequest replaces the editable draft fields with the review
// form's full state.
type UpdateDraftRequest struct {
	MerchantName string            `json:"merchant_name"`
	Date         string            `json:"date"`
	TotalAmount  *float64          `json:"total_amount"`
	LineItems    []models.LineItem `json:"line_items"`
	Category     string            `json:"category"`
	Notes        string            `json:"notes"`
}
