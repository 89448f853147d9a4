package item

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

var (
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrNonPositiveQuantity = errors.New("quantity must be positive")
	ErrNameRequired        = errors.New("item name is required")
)

type Item struct {
	ID        uuid.UUID `json:"id"`
	Brand     string    `json:"brand"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Stock     int64     `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(brand, name string, price, stock int64) (*Item, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if price < 0 {
		return nil, fmt.Errorf("item price must be non-negative, got %d", price)
	}
	if stock < 0 {
		return nil, fmt.Errorf("item stock must be non-negative, got %d", stock)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Item{
		ID:        id,
		Brand:     brand,
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AddStock increments the stock counter. No upper bound.
func (i *Item) AddStock(quantity int64) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	i.Stock += quantity
	return nil
}

// RemoveStock decrements the stock counter. The remainder is computed and
// checked before anything is assigned, so a failed removal leaves stock
// untouched.
func (i *Item) RemoveStock(quantity int64) error {
	if quantity <= 0 {
		return ErrNonPositiveQuantity
	}

	rest := i.Stock - quantity
	if rest < 0 {
		return fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, i.Stock, quantity)
	}
	i.Stock = rest

	return nil
}
