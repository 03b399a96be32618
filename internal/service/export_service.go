package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"snapspend/internal/models"
	"snapspend/internal/repository"
)

// ExportService renders a user's receipts to an XLSX workbook.
type ExportService struct {
	receiptRepo *repository.ReceiptRepository
	logger      *zap.Logger
}

func NewExportService(receiptRepo *repository.ReceiptRepository, logger *zap.Logger) *ExportService {
	return &ExportService{
		receiptRepo: receiptRepo,
		logger:      logger,
	}
}

// ExportReceiptsXLSX returns workbook bytes for the user's receipts in the
// given date window, newest-first like the list endpoint.
func (s *ExportService) ExportReceiptsXLSX(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]byte, error) {
	receipts, err := s.receiptRepo.ListByUserID(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Receipts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Merchant", "Category", "Total", "Items", "Notes", "Image URL"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range receipts {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Date)
		write(2, r.MerchantName)
		write(3, string(r.Category))
		if r.TotalAmount != nil {
			write(4, *r.TotalAmount)
		}
		write(5, formatLineItems(r.LineItems))
		write(6, r.Notes)
		write(7, r.ImageURL)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Receipts exported",
		zap.String("user_id", userID.String()),
		zap.Int("rows", row-2),
	)

	return buf.Bytes(), nil
}

func formatLineItems(items []models.LineItem) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s x%g @ %g", it.Name, it.Quantity, it.Price)
	}
	return strings.Join(parts, "; ")
}
