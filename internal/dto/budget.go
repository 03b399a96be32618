package dto

type UpsertBudgetRequest struct {
	Category     string  `json:"category"`
	BudgetAmount float64 `json:"budget_amount"`
}

type BudgetResponse struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	BudgetAmount float64 `json:"budget_amount"`
}

type ListBudgetsResponse struct {
	Budgets []BudgetResponse `json:"budgets"`
}
