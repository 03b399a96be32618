package dto

// CategorySummary compares spend against the configured budget for one
// category. Budget is zero when the user has not set one.
type CategorySummary struct {
	Category  string  `json:"category"`
	Total     float64 `json:"total"`
	Budget    float64 `json:"budget"`
	Remaining float64 `json:"remaining"`
}

// DailyPoint is one day of the expense time series.
type DailyPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type DashboardResponse struct {
	ReceiptCount int               `json:"receipt_count"`
	TotalSpend   float64           `json:"total_spend"`
	Categories   []CategorySummary `json:"categories"`
	Daily        []DailyPoint      `json:"daily"`
}
