// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, params ListOrdersParams) ([]Order, int, error)
	UpdateStatus(ctx context.Context, id, status string) (*Order, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, user_id, items, shipping, subtotal, tax, shipping_fee, total,
	status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, items, shipping, subtotal, tax, shipping_fee,
			total, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, order, query,
		order.ID,
		order.UserID,
		order.Items,
		order.Shipping,
		order.Subtotal,
		order.Tax,
		order.ShippingFee,
		order.Total,
		order.Status,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	var order Order
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return &order, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListOrdersParams,
) ([]Order, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIdx))
		args = append(args, params.UserID)
		argIdx++
	}

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM orders WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		orderColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var orders []Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`, orderColumns)

	var order Order
	err := r.db.GetContext(ctx, &order, query, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	return &order, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete order: %w", core.ErrNotFound)
	}

	return nil
}
