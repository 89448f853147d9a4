package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/okravchenko/go-shop/internal/db"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	// Create persists the order together with its owned delivery and line
	// items. It must run inside the caller's transaction.
	Create(ctx context.Context, q db.Querier, o *Order) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*Order, error)
	List(ctx context.Context, q db.Querier) ([]Order, error)
	ListByMemberID(ctx context.Context, q db.Querier, memberID uuid.UUID) ([]Order, error)
	UpdateStatus(ctx context.Context, q db.Querier, orderID uuid.UUID, newStatus Status) error
	UpdateDeliveryStatus(ctx context.Context, q db.Querier, orderID uuid.UUID, newStatus DeliveryStatus) error
}

type postgresRepository struct{}

func NewRepository() Repository {
	return &postgresRepository{}
}

func (r *postgresRepository) Create(ctx context.Context, q db.Querier, o *Order) error {
	queryOrder := `
		INSERT INTO orders (id, member_id, status, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, queryOrder,
		o.ID,
		o.MemberID,
		string(o.Status),
		o.OrderDate,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert order: %w", err)
	}

	queryDelivery := `
		INSERT INTO deliveries (id, order_id, status, city, state, street, zipcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = q.Exec(ctx, queryDelivery,
		o.Delivery.ID,
		o.ID,
		string(o.Delivery.Status),
		o.Delivery.City,
		o.Delivery.State,
		o.Delivery.Street,
		o.Delivery.Zipcode,
		o.Delivery.CreatedAt,
		o.Delivery.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to insert delivery for order %s: %w", o.ID, err)
	}

	queryItem := `
		INSERT INTO order_items (id, order_id, item_id, price, count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i := range o.Items {
		oi := &o.Items[i]
		_, err = q.Exec(ctx, queryItem,
			oi.ID,
			o.ID,
			oi.ItemID,
			oi.Price,
			oi.Count,
			oi.CreatedAt,
			oi.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("repository: failed to insert order item for order %s: %w", o.ID, err)
		}
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, q db.Querier, orderID uuid.UUID) (*Order, error) {
	queryOrder := `
		SELECT o.id, o.member_id, o.status, o.order_date, o.created_at, o.updated_at,
		       d.id, d.status, d.city, d.state, d.street, d.zipcode, d.created_at, d.updated_at
		FROM orders o
		JOIN deliveries d ON d.order_id = o.id
		WHERE o.id = $1
	`

	var o Order
	err := q.QueryRow(ctx, queryOrder, orderID).Scan(
		&o.ID,
		&o.MemberID,
		&o.Status,
		&o.OrderDate,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.Delivery.ID,
		&o.Delivery.Status,
		&o.Delivery.City,
		&o.Delivery.State,
		&o.Delivery.Street,
		&o.Delivery.Zipcode,
		&o.Delivery.CreatedAt,
		&o.Delivery.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", orderID, err)
	}
	o.Delivery.OrderID = o.ID

	queryItems := `
		SELECT id, order_id, item_id, price, count, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := q.Query(ctx, queryItems, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items for order id %s: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]OrderItem, 0)
	for rows.Next() {
		var oi OrderItem
		err := rows.Scan(&oi.ID, &oi.OrderID, &oi.ItemID, &oi.Price, &oi.Count, &oi.CreatedAt, &oi.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item for order id %s: %w", orderID, err)
		}
		items = append(items, oi)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items for order id %s: %w", orderID, err)
	}

	o.Items = items

	return &o, nil
}

func (r *postgresRepository) List(ctx context.Context, q db.Querier) ([]Order, error) {
	return r.list(ctx, q, ``, nil)
}

func (r *postgresRepository) ListByMemberID(ctx context.Context, q db.Querier, memberID uuid.UUID) ([]Order, error) {
	return r.list(ctx, q, `WHERE o.member_id = $1`, []any{memberID})
}

func (r *postgresRepository) list(ctx context.Context, q db.Querier, where string, args []any) ([]Order, error) {
	queryOrders := `
		SELECT o.id, o.member_id, o.status, o.order_date, o.created_at, o.updated_at,
		       d.id, d.status, d.city, d.state, d.street, d.zipcode, d.created_at, d.updated_at
		FROM orders o
		JOIN deliveries d ON d.order_id = o.id
		` + where + `
		ORDER BY o.created_at DESC
	`

	orderRows, err := q.Query(ctx, queryOrders, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer orderRows.Close()

	ordersMap := make(map[uuid.UUID]*Order)
	var orderIDs []uuid.UUID

	for orderRows.Next() {
		var o Order
		err := orderRows.Scan(
			&o.ID,
			&o.MemberID,
			&o.Status,
			&o.OrderDate,
			&o.CreatedAt,
			&o.UpdatedAt,
			&o.Delivery.ID,
			&o.Delivery.Status,
			&o.Delivery.City,
			&o.Delivery.State,
			&o.Delivery.Street,
			&o.Delivery.Zipcode,
			&o.Delivery.CreatedAt,
			&o.Delivery.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		o.Delivery.OrderID = o.ID
		o.Items = make([]OrderItem, 0)
		ordersMap[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}

	if err = orderRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	if len(orderIDs) == 0 {
		return []Order{}, nil
	}

	queryItems := `
		SELECT id, order_id, item_id, price, count, created_at, updated_at
		FROM order_items
		WHERE order_id = ANY($1)
	`
	itemRows, err := q.Query(ctx, queryItems, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var oi OrderItem
		err := itemRows.Scan(&oi.ID, &oi.OrderID, &oi.ItemID, &oi.Price, &oi.Count, &oi.CreatedAt, &oi.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order item: %w", err)
		}
		if o, ok := ordersMap[oi.OrderID]; ok {
			o.Items = append(o.Items, oi)
		}
	}

	if err = itemRows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order items: %w", err)
	}

	orders := make([]Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *ordersMap[id])
	}

	return orders, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, q db.Querier, orderID uuid.UUID, newStatus Status) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	cmdTag, err := q.Exec(ctx, query, string(newStatus), time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update order status %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *postgresRepository) UpdateDeliveryStatus(ctx context.Context, q db.Querier, orderID uuid.UUID, newStatus DeliveryStatus) error {
	query := `
		UPDATE deliveries
		SET status = $1, updated_at = $2
		WHERE order_id = $3
	`
	cmdTag, err := q.Exec(ctx, query, string(newStatus), time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to update delivery status for order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
