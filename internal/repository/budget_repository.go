package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"snapspend/internal/models"
)

// ErrNotFound is returned when a row-scoped mutation matched nothing.
var ErrNotFound = errors.New("row not found")

type BudgetRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBudgetRepository(db *pgxpool.Pool, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert saves a budget for (user, category). The unique key guarantees at
// most one row per pair even under concurrent saves; a later save replaces
// the amount in place.
func (r *BudgetRepository) Upsert(ctx context.Context, budget *models.CategoryBudget) error {
	query := squirrel.Insert("category_budgets").
		Columns("id", "user_id", "category", "budget_amount").
		Values(budget.ID, budget.UserID, budget.Category, budget.BudgetAmount).
		Suffix("ON CONFLICT (user_id, category) DO UPDATE SET budget_amount = EXCLUDED.budget_amount").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *BudgetRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.CategoryBudget, error) {
	query := squirrel.Select("id", "user_id", "category", "budget_amount").
		From("category_budgets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("category ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*models.CategoryBudget
	for rows.Next() {
		var b models.CategoryBudget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.BudgetAmount); err != nil {
			return nil, err
		}
		budgets = append(budgets, &b)
	}

	return budgets, rows.Err()
}
