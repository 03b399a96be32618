package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapspend/internal/dto"
	"snapspend/internal/extract"
	"snapspend/internal/models"
	"snapspend/internal/repository"
)

type ReceiptService struct {
	receiptRepo *repository.ReceiptRepository
	logger      *zap.Logger
}

func NewReceiptService(receiptRepo *repository.ReceiptRepository, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		logger:      logger,
	}
}

// List returns the user's receipts newest-first, optionally filtered to a
// date range. The end bound covers that whole day.
func (s *ReceiptService) List(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*dto.ListReceiptsResponse, error) {
	receipts, err := s.receiptRepo.ListByUserID(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListReceiptsResponse{Receipts: make([]dto.ReceiptResponse, len(receipts))}
	for i, r := range receipts {
		resp.Receipts[i] = toReceiptResponse(r)
	}
	return resp, nil
}

func (s *ReceiptService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateReceiptRequest) (*dto.ReceiptResponse, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	receipt.MerchantName = req.MerchantName
	receipt.Date = extract.RepairDate(req.Date)
	receipt.TotalAmount = req.TotalAmount
	receipt.LineItems = req.LineItems
	if receipt.LineItems == nil {
		receipt.LineItems = []models.LineItem{}
	}
	receipt.Category = models.NormalizeCategory(req.Category)
	receipt.Notes = req.Notes

	if err := s.receiptRepo.Update(ctx, receipt); err != nil {
		return nil, err
	}

	resp := toReceiptResponse(receipt)
	return &resp, nil
}

func (s *ReceiptService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.receiptRepo.Delete(ctx, id, userID)
}

func toReceiptResponse(r *models.Receipt) dto.ReceiptResponse {
	items := r.LineItems
	if items == nil {
		items = []models.LineItem{}
	}
	return dto.ReceiptResponse{
		ID:           r.ID.String(),
		UserID:       r.UserID.String(),
		ImageURL:     r.ImageURL,
		Content:      r.Content,
		MerchantName: r.MerchantName,
		Date:         r.Date,
		TotalAmount:  r.TotalAmount,
		LineItems:    items,
		Category:     string(r.Category),
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
