package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapspend/internal/models"
)

// Reconciler merges machine-extracted fields with the user's in-review edits
// into the final persisted shape. Commit is a single atomic row write; a
// store failure leaves no partial state and the caller may retry.
type Reconciler struct {
	receipts ReceiptStore
	logger   *zap.Logger
}

func NewReconciler(receipts ReceiptStore, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{receipts: receipts, logger: logger}
}

// CommitReview persists an OCR-path draft as edited by the user. The total is
// whatever the user left in the field, absent when cleared.
func (r *Reconciler) CommitReview(ctx context.Context, userID uuid.UUID, d Draft) (*models.Receipt, error) {
	if d.ImageURL == "" {
		return nil, ErrNoImage
	}
	receipt := r.build(userID, d)
	receipt.TotalAmount = d.TotalAmount
	return r.insert(ctx, receipt)
}

// CommitManual persists a manual-entry draft. Any total on the draft is
// ignored; it is always recomputed from the line items.
func (r *Reconciler) CommitManual(ctx context.Context, userID uuid.UUID, d Draft) (*models.Receipt, error) {
	receipt := r.build(userID, d)
	total := SumLineItems(d.LineItems)
	receipt.TotalAmount = &total
	return r.insert(ctx, receipt)
}

func (r *Reconciler) build(userID uuid.UUID, d Draft) *models.Receipt {
	items := d.LineItems
	if items == nil {
		items = []models.LineItem{}
	}
	return &models.Receipt{
		ID:           uuid.New(),
		UserID:       userID,
		ImageURL:     d.ImageURL,
		Content:      d.RawOCRText,
		MerchantName: d.MerchantName,
		Date:         d.Date,
		LineItems:    items,
		Category:     models.NormalizeCategory(string(d.Category)),
		Notes:        d.Notes,
		CreatedAt:    time.Now().UTC(),
	}
}

func (r *Reconciler) insert(ctx context.Context, receipt *models.Receipt) (*models.Receipt, error) {
	if err := r.receipts.Insert(ctx, receipt); err != nil {
		return nil, fmt.Errorf("save receipt: %w", err)
	}
	r.logger.Info("Receipt committed",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("user_id", receipt.UserID.String()),
		zap.String("category", string(receipt.Category)),
	)
	return receipt, nil
}

// SumLineItems totals quantity by unit price over all line items. Zero values
// contribute nothing, so missing prices or quantities never fail the sum.
func SumLineItems(items []models.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Quantity * it.Price
	}
	return sum
}
