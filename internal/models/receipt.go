package models

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is a single purchased item on a receipt.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Receipt is a committed receipt row, scoped to its owning user.
type Receipt struct {
	ID           uuid.UUID  `db:"id"`
	UserID       uuid.UUID  `db:"user_id"`
	ImageURL     string     `db:"image_url"`
	Content      string     `db:"content"` // raw OCR text
	MerchantName string     `db:"merchant_name"`
	Date         string     `db:"date"` // YYYY-MM-DD, or verbatim when unparsable
	TotalAmount  *float64   `db:"total_amount"`
	LineItems    []LineItem `db:"line_items"`
	Category     Category   `db:"category"`
	Notes        string     `db:"notes"`
	CreatedAt    time.Time  `db:"created_at"`
}

// CategoryBudget is the monthly budget a user set for one category.
// Unique per (user_id, category).
type CategoryBudget struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	Category     Category  `db:"category"`
	BudgetAmount float64   `db:"budget_amount"`
}
