package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapspend/internal/dto"
	"snapspend/internal/models"
	"snapspend/internal/repository"
)

// DashboardService derives category-budget comparisons and the daily expense
// series from already-structured receipts. Pure derivation, no writes.
type DashboardService struct {
	receiptRepo *repository.ReceiptRepository
	budgetRepo  *repository.BudgetRepository
	logger      *zap.Logger
}

func NewDashboardService(receiptRepo *repository.ReceiptRepository, budgetRepo *repository.BudgetRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		receiptRepo: receiptRepo,
		budgetRepo:  budgetRepo,
		logger:      logger,
	}
}

func (s *DashboardService) Summary(ctx context.Context, userID uuid.UUID, start, end *time.Time) (*dto.DashboardResponse, error) {
	receipts, err := s.receiptRepo.ListByUserID(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	budgets, err := s.budgetRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(receipts, budgets), nil
}

// BuildDashboard aggregates receipts into per-category totals with budget
// comparison and a date-keyed expense series. A receipt with no total
// contributes nothing to the sums but still counts.
func BuildDashboard(receipts []*models.Receipt, budgets []*models.CategoryBudget) *dto.DashboardResponse {
	budgetByCategory := make(map[models.Category]float64, len(budgets))
	for _, b := range budgets {
		budgetByCategory[b.Category] = b.BudgetAmount
	}

	categoryTotals := make(map[models.Category]float64)
	dailyTotals := make(map[string]float64)
	var totalSpend float64

	for _, r := range receipts {
		if r.TotalAmount == nil {
			continue
		}
		amount := *r.TotalAmount
		totalSpend += amount
		categoryTotals[models.NormalizeCategory(string(r.Category))] += amount
		dailyTotals[receiptDay(r)] += amount
	}

	resp := &dto.DashboardResponse{
		ReceiptCount: len(receipts),
		TotalSpend:   totalSpend,
		Categories:   make([]dto.CategorySummary, 0, len(models.AllCategories)),
		Daily:        make([]dto.DailyPoint, 0, len(dailyTotals)),
	}

	for _, c := range models.AllCategories {
		total := categoryTotals[c]
		budget := budgetByCategory[c]
		if total == 0 && budget == 0 {
			continue
		}
		resp.Categories = append(resp.Categories, dto.CategorySummary{
			Category:  string(c),
			Total:     total,
			Budget:    budget,
			Remaining: budget - total,
		})
	}

	for day, total := range dailyTotals {
		resp.Daily = append(resp.Daily, dto.DailyPoint{Date: day, Total: total})
	}
	sort.Slice(resp.Daily, func(i, j int) bool { return resp.Daily[i].Date < resp.Daily[j].Date })

	return resp
}

// receiptDay buckets a receipt by its transaction date when it parses, and by
// the commit timestamp otherwise.
func receiptDay(r *models.Receipt) string {
	if _, err := time.Parse("2006-01-02", r.Date); err == nil {
		return r.Date
	}
	return r.CreatedAt.Format("2006-01-02")
}
