package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haim/bookstore-api/internal/model"
)

// ErrDuplicateReceipt reports that a receipt already exists for the order.
var ErrDuplicateReceipt = errors.New("receipt already recorded")

type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.Receipt) error
}

type pgReceiptRepo struct{ pool *pgxpool.Pool }

func NewReceiptRepository(pool *pgxpool.Pool) ReceiptRepository {
	return &pgReceiptRepo{pool: pool}
}

func (r *pgReceiptRepo) Create(ctx context.Context, receipt *model.Receipt) error {
	receipt.ID = uuid.New()
	query := `INSERT INTO receipts (id, order_id, user_id, recorded_at)
			  VALUES ($1, $2, $3, NOW())
			  RETURNING recorded_at`
	err := r.pool.QueryRow(ctx, query,
		receipt.ID, receipt.OrderID, receipt.UserID,
	).Scan(&receipt.RecordedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReceipt
		}
		return fmt.Errorf("create receipt: %w", err)
	}
	return nil
}
