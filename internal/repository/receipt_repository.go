package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"snapspend/internal/models"
)

var receiptColumns = []string{
	"id", "user_id", "image_url", "content", "merchant_name", "date",
	"total_amount", "line_items", "category", "notes", "created_at",
}

type ReceiptRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReceiptRepository(db *pgxpool.Pool, logger *zap.Logger) *ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ReceiptRepository) Insert(ctx context.Context, receipt *models.Receipt) error {
	items, err := json.Marshal(receipt.LineItems)
	if err != nil {
		return fmt.Errorf("marshal line items: %w", err)
	}

	query := squirrel.Insert("receipts").
		Columns(receiptColumns...).
		Values(
			receipt.ID, receipt.UserID, receipt.ImageURL, receipt.Content,
			receipt.MerchantName, receipt.Date, receipt.TotalAmount, items,
			receipt.Category, receipt.Notes, receipt.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByUserID returns the user's receipts newest-first, optionally limited
// to a created_at range. The end bound is end-of-day inclusive.
func (r *ReceiptRepository) ListByUserID(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("receipts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if start != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": *start})
	}
	if end != nil {
		query = query.Where(squirrel.LtOrEq{"created_at": EndOfDay(*end)})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		var rec models.Receipt
		var items []byte
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.ImageURL, &rec.Content, &rec.MerchantName,
			&rec.Date, &rec.TotalAmount, &items, &rec.Category, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &rec.LineItems); err != nil {
				r.logger.Warn("Corrupt line_items row, skipping items",
					zap.String("receipt_id", rec.ID.String()),
					zap.Error(err),
				)
			}
		}
		receipts = append(receipts, &rec)
	}

	return receipts, rows.Err()
}

func (r *ReceiptRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("receipts").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var rec models.Receipt
	var items []byte
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&rec.ID, &rec.UserID, &rec.ImageURL, &rec.Content, &rec.MerchantName,
		&rec.Date, &rec.TotalAmount, &items, &rec.Category, &rec.Notes, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &rec.LineItems); err != nil {
			return nil, fmt.Errorf("unmarshal line items: %w", err)
		}
	}
	return &rec, nil
}

// Update rewrites the user-editable fields of one receipt. image_url, content
// and created_at are immutable after commit.
func (r *ReceiptRepository) Update(ctx context.Context, receipt *models.Receipt) error {
	items, err := json.Marshal(receipt.LineItems)
	if err != nil {
		return fmt.Errorf("marshal line items: %w", err)
	}

	query := squirrel.Update("receipts").
		Set("merchant_name", receipt.MerchantName).
		Set("date", receipt.Date).
		Set("total_amount", receipt.TotalAmount).
		Set("line_items", items).
		Set("category", receipt.Category).
		Set("notes", receipt.Notes).
		Where(squirrel.Eq{"id": receipt.ID, "user_id": receipt.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReceiptRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := squirrel.Delete("receipts").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EndOfDay pushes a date bound to 23:59:59 so the end of a filter range is
// inclusive of that whole day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
