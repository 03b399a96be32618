package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"snapspend/internal/models"
)

func ptr(f float64) *float64 { return &f }

func testReceipt(category models.Category, total *float64, date string) *models.Receipt {
	return &models.Receipt{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Category:    category,
		TotalAmount: total,
		Date:        date,
		CreatedAt:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildDashboardAggregation(t *testing.T) {
	receipts := []*models.Receipt{
		testReceipt(models.CategoryFood, ptr(42000), "2024-03-01"),
		testReceipt(models.CategoryFood, ptr(8000), "2024-03-01"),
		testReceipt(models.CategoryTransport, ptr(15000), "2024-03-02"),
		testReceipt(models.CategoryFood, nil, "2024-03-02"), // counted, not summed
	}
	budgets := []*models.CategoryBudget{
		{Category: models.CategoryFood, BudgetAmount: 100000},
		{Category: models.CategoryBills, BudgetAmount: 50000},
	}

	resp := BuildDashboard(receipts, budgets)

	if resp.ReceiptCount != 4 {
		t.Errorf("ReceiptCount = %d, want 4", resp.ReceiptCount)
	}
	if resp.TotalSpend != 65000 {
		t.Errorf("TotalSpend = %v, want 65000", resp.TotalSpend)
	}

	// Food, Transport and Bills have activity or a budget; the rest are
	// omitted. Order follows the category display order.
	if len(resp.Categories) != 3 {
		t.Fatalf("Categories = %+v, want 3 entries", resp.Categories)
	}
	food := resp.Categories[0]
	if food.Category != "Food" || food.Total != 50000 || food.Budget != 100000 || food.Remaining != 50000 {
		t.Errorf("Food summary = %+v", food)
	}
	transport := resp.Categories[1]
	if transport.Category != "Transport" || transport.Total != 15000 || transport.Budget != 0 {
		t.Errorf("Transport summary = %+v", transport)
	}
	bills := resp.Categories[2]
	if bills.Category != "Bills" || bills.Total != 0 || bills.Remaining != 50000 {
		t.Errorf("Bills summary = %+v", bills)
	}

	if len(resp.Daily) != 2 {
		t.Fatalf("Daily = %+v, want 2 points", resp.Daily)
	}
	if resp.Daily[0].Date != "2024-03-01" || resp.Daily[0].Total != 50000 {
		t.Errorf("Daily[0] = %+v", resp.Daily[0])
	}
	if resp.Daily[1].Date != "2024-03-02" || resp.Daily[1].Total != 15000 {
		t.Errorf("Daily[1] = %+v", resp.Daily[1])
	}
}

func TestBuildDashboardUnparsableDateBucketsByCreatedAt(t *testing.T) {
	receipts := []*models.Receipt{
		testReceipt(models.CategoryFood, ptr(1000), "sometime in March"),
	}

	resp := BuildDashboard(receipts, nil)

	if len(resp.Daily) != 1 {
		t.Fatalf("Daily = %+v, want 1 point", resp.Daily)
	}
	if resp.Daily[0].Date != "2024-03-10" {
		t.Errorf("Daily[0].Date = %q, want commit day %q", resp.Daily[0].Date, "2024-03-10")
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	resp := BuildDashboard(nil, nil)

	if resp.ReceiptCount != 0 || resp.TotalSpend != 0 {
		t.Errorf("empty dashboard = %+v", resp)
	}
	if len(resp.Categories) != 0 || len(resp.Daily) != 0 {
		t.Errorf("empty dashboard slices = %+v / %+v", resp.Categories, resp.Daily)
	}
}
