package dto

import "snapspend/internal/models"

type ReceiptResponse struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	ImageURL     string            `json:"image_url"`
	Content      string            `json:"content"`
	MerchantName string            `json:"merchant_name"`
	Date         string            `json:"date"`
	TotalAmount  *float64          `json:"total_amount"`
	LineItems    []models.LineItem `json:"line_items"`
	Category     string            `json:"category"`
	Notes        string            `json:"notes"`
	CreatedAt    string            `json:"created_at"`
}

type ListReceiptsResponse struct {
	Receipts []ReceiptResponse `json:"receipts"`
}

// UpdateReceiptRequest replaces every user-editable field of a receipt.
type UpdateReceiptRequest struct {
	MerchantName string            `json:"merchant_name"`
	Date         string            `json:"date"`
	TotalAmount  *float64          `json:"total_amount"`
	LineItems    []models.LineItem `json:"line_items"`
	Category     string            `json:"category"`
	Notes        string            `json:"notes"`
}
