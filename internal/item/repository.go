package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/okravchenko/go-shop/internal/db"
)

var ErrNotFound = errors.New("item not found")

type Repository interface {
	Create(ctx context.Context, q db.Querier, i *Item) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*Item, error)
	// GetByIDForUpdate locks the item row for the rest of the surrounding
	// transaction. Racing stock updates serialize on this lock.
	GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*Item, error)
	List(ctx context.Context, q db.Querier) ([]Item, error)
	Update(ctx context.Context, q db.Querier, i *Item) error
	UpdateStock(ctx context.Context, q db.Querier, id uuid.UUID, stock int64) error
}

type postgresRepository struct{}

func NewRepository() Repository {
	return &postgresRepository{}
}

const itemColumns = `id, brand, name, price, stock, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, q db.Querier, i *Item) error {
	query := `
		INSERT INTO items (id, brand, name, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query, i.ID, i.Brand, i.Name, i.Price, i.Stock, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert item: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(ctx, q, query, id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, q, query, id)
}

func (r *postgresRepository) scanOne(ctx context.Context, q db.Querier, query string, id uuid.UUID) (*Item, error) {
	var i Item
	err := q.QueryRow(ctx, query, id).Scan(
		&i.ID,
		&i.Brand,
		&i.Name,
		&i.Price,
		&i.Stock,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select item by id %s: %w", id, err)
	}

	return &i, nil
}

func (r *postgresRepository) List(ctx context.Context, q db.Querier) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var i Item
		err := rows.Scan(&i.ID, &i.Brand, &i.Name, &i.Price, &i.Stock, &i.CreatedAt, &i.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan item: %w", err)
		}
		items = append(items, i)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating items: %w", err)
	}

	return items, nil
}

func (r *postgresRepository) Update(ctx context.Context, q db.Querier, i *Item) error {
	query := `
		UPDATE items
		SET brand = $1, name = $2, price = $3, stock = $4, updated_at = $5
		WHERE id = $6
	`
	cmdTag, err := q.Exec(ctx, query, i.Brand, i.Name, i.Price, i.Stock, time.Now().UTC(), i.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update item %s: %w", i.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) UpdateStock(ctx context.Context, q db.Querier, id uuid.UUID, stock int64) error {
	query := `
		UPDATE items
		SET stock = $1, updated_at = $2
		WHERE id = $3
	`
	cmdTag, err := q.Exec(ctx, query, stock, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("repository: failed to update stock for item %s: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
