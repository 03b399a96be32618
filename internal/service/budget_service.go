package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snapspend/internal/dto"
	"snapspend/internal/models"
	"snapspend/internal/repository"
)

var ErrNegativeBudget = errors.New("budget amount must not be negative")

type BudgetService struct {
	budgetRepo *repository.BudgetRepository
	logger     *zap.Logger
}

func NewBudgetService(budgetRepo *repository.BudgetRepository, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
		logger:     logger,
	}
}

// Upsert saves the budget for one (user, category) pair; a later save for
// the same pair replaces the amount rather than adding a row.
func (s *BudgetService) Upsert(ctx context.Context, userID uuid.UUID, req *dto.UpsertBudgetRequest) (*dto.BudgetResponse, error) {
	if req.BudgetAmount < 0 {
		return nil, ErrNegativeBudget
	}

	budget := &models.CategoryBudget{
		ID:           uuid.New(),
		UserID:       userID,
		Category:     models.NormalizeCategory(req.Category),
		BudgetAmount: req.BudgetAmount,
	}

	if err := s.budgetRepo.Upsert(ctx, budget); err != nil {
		return nil, err
	}

	return &dto.BudgetResponse{
		ID:           budget.ID.String(),
		Category:     string(budget.Category),
		BudgetAmount: budget.BudgetAmount,
	}, nil
}

func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) (*dto.ListBudgetsResponse, error) {
	budgets, err := s.budgetRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListBudgetsResponse{Budgets: make([]dto.BudgetResponse, len(budgets))}
	for i, b := range budgets {
		resp.Budgets[i] = dto.BudgetResponse{
			ID:           b.ID.String(),
			Category:     string(b.Category),
			BudgetAmount: b.BudgetAmount,
		}
	}
	return resp, nil
}
