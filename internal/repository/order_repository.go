package repository

import (
	"context"
	"fmt"
	"time"

	"bakebot/internal/domain"
	"bakebot/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, baker_id, customer_name, customer_email, customer_phone, total_price,
	delivery_date, notes, status, cake_details, created_at, updated_at`

// orderRepository handles orders in PostgreSQL
type orderRepository struct {
	db *database.PostgresDB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *database.PostgresDB) OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	var details []byte
	err := row.Scan(
		&o.ID,
		&o.BakerID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.TotalPrice,
		&o.DeliveryDate,
		&o.Notes,
		&o.Status,
		&details,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.CakeDetails = details
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]*domain.Order, error) {
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}

// ListByBaker returns a baker's orders, newest first
func (r *orderRepository) ListByBaker(ctx context.Context, bakerID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE baker_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.GetReadPool().Query(ctx, query, bakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return collectOrders(rows)
}

// GetByID returns nil, nil when the order does not exist for this baker
func (r *orderRepository) GetByID(ctx context.Context, bakerID, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE baker_id = $1 AND id = $2`

	o, err := scanOrder(r.db.Pool.QueryRow(ctx, query, bakerID, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

// Create inserts a new order
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, baker_id, customer_name, customer_email, customer_phone, total_price,
			delivery_date, notes, status, cake_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	var details []byte
	if len(order.CakeDetails) > 0 {
		details = order.CakeDetails
	}

	err := r.db.Pool.QueryRow(ctx, query,
		order.ID,
		order.BakerID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.TotalPrice,
		order.DeliveryDate,
		order.Notes,
		order.Status,
		details,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of an order
func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET customer_name = $3, customer_email = $4, customer_phone = $5, total_price = $6,
			delivery_date = $7, notes = $8, status = $9, updated_at = NOW()
		WHERE baker_id = $1 AND id = $2
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		order.BakerID,
		order.ID,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.TotalPrice,
		order.DeliveryDate,
		order.Notes,
		order.Status,
	).Scan(&order.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// Delete removes an order
func (r *orderRepository) Delete(ctx context.Context, bakerID, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM orders WHERE baker_id = $1 AND id = $2`, bakerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDeliveringBetween returns orders delivering in [from, to), earliest first
func (r *orderRepository) ListDeliveringBetween(ctx context.Context, bakerID string, from, to time.Time) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE baker_id = $1 AND delivery_date >= $2 AND delivery_date < $3
		ORDER BY delivery_date ASC`

	rows, err := r.db.GetReadPool().Query(ctx, query, bakerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by delivery date: %w", err)
	}
	return collectOrders(rows)
}
