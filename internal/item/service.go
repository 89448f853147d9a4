package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/okravchenko/go-shop/internal/db"
)

type Service interface {
	CreateItem(ctx context.Context, brand, name string, price, stock int64) (*Item, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, brand, name string, price int64) (*Item, error)
	AddStock(ctx context.Context, id uuid.UUID, quantity int64) (*Item, error)
}

type service struct {
	db   db.Database
	repo Repository
}

func NewService(database db.Database, repo Repository) Service {
	return &service{db: database, repo: repo}
}

func (s *service) CreateItem(ctx context.Context, brand, name string, price, stock int64) (*Item, error) {
	i, err := New(brand, name, price, stock)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, s.db, i); err != nil {
		log.Error().Err(err).Msg("service: failed to create item in repository")
		return nil, fmt.Errorf("service: failed to create item: %w", err)
	}

	log.Info().Stringer("item_id", i.ID).Str("name", i.Name).Msg("service: item created")

	return i, nil
}

func (s *service) GetItemByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	i, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("item_id", id).Msg("service: failed to fetch item by id")
		return nil, fmt.Errorf("service: failed to fetch item by id: %w", err)
	}

	return i, nil
}

func (s *service) ListItems(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list items")
		return nil, fmt.Errorf("service: failed to list items: %w", err)
	}

	return items, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, brand, name string, price int64) (*Item, error) {
	if price < 0 {
		return nil, fmt.Errorf("service: item price must be non-negative, got %d", price)
	}

	var updated *Item

	err := s.db.WithTx(ctx, func(q db.Querier) error {
		i, err := s.repo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return err
		}

		i.Brand = brand
		i.Name = name
		i.Price = price

		if err := s.repo.Update(ctx, q, i); err != nil {
			return err
		}

		updated = i
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error().Err(err).Stringer("item_id", id).Msg("service: failed to update item")
		return nil, fmt.Errorf("service: failed to update item: %w", err)
	}

	return updated, nil
}

// AddStock is the restock path. Purchases decrement stock through the order
// service; this endpoint only ever raises it.
func (s *service) AddStock(ctx context.Context, id uuid.UUID, quantity int64) (*Item, error) {
	var updated *Item

	err := s.db.WithTx(ctx, func(q db.Querier) error {
		i, err := s.repo.GetByIDForUpdate(ctx, q, id)
		if err != nil {
			return err
		}

		if err := i.AddStock(quantity); err != nil {
			return err
		}

		if err := s.repo.UpdateStock(ctx, q, i.ID, i.Stock); err != nil {
			return err
		}

		updated = i
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNonPositiveQuantity) {
			return nil, err
		}
		log.Error().Err(err).Stringer("item_id", id).Msg("service: failed to add stock")
		return nil, fmt.Errorf("service: failed to add stock: %w", err)
	}

	log.Info().Stringer("item_id", id).Int64("quantity", quantity).Msg("service: stock added")

	return updated, nil
}
