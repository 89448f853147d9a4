package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/okravchenko/go-shop/internal/db"
	"github.com/okravchenko/go-shop/internal/item"
	"github.com/okravchenko/go-shop/internal/member"
)

type Service interface {
	CreateOrder(ctx context.Context, memberID, itemID uuid.UUID, count int64) (*Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersByMemberID(ctx context.Context, memberID uuid.UUID) ([]Order, error)
	UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, newStatus DeliveryStatus) error
}

type service struct {
	db         db.Database
	orderRepo  Repository
	memberRepo member.Repository
	itemRepo   item.Repository
}

func NewService(database db.Database, orderRepo Repository, memberRepo member.Repository, itemRepo item.Repository) Service {
	return &service{
		db:         database,
		orderRepo:  orderRepo,
		memberRepo: memberRepo,
		itemRepo:   itemRepo,
	}
}

// CreateOrder is one unit of work: load member and item, build the aggregate
// (which removes the purchased quantity from stock), persist the order with
// its delivery and line items, persist the new stock level. Any failure rolls
// the whole thing back, so no partial order ever survives a stock shortage.
func (s *service) CreateOrder(ctx context.Context, memberID, itemID uuid.UUID, count int64) (*Order, error) {
	var created *Order

	err := s.db.WithTx(ctx, func(q db.Querier) error {
		m, err := s.memberRepo.GetByID(ctx, q, memberID)
		if err != nil {
			return err
		}

		// The row lock serializes concurrent orders racing on the same item.
		it, err := s.itemRepo.GetByIDForUpdate(ctx, q, itemID)
		if err != nil {
			return err
		}

		oi, err := NewOrderItem(it, it.Price, count)
		if err != nil {
			return err
		}

		o, err := New(m, oi)
		if err != nil {
			return err
		}

		if err := s.orderRepo.Create(ctx, q, o); err != nil {
			return err
		}

		if err := s.itemRepo.UpdateStock(ctx, q, it.ID, it.Stock); err != nil {
			return err
		}

		created = o
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			log.Warn().Err(err).Stringer("member_id", memberID).Stringer("item_id", itemID).Msg("service: order creation rejected")
			return nil, err
		}
		log.Error().Err(err).Stringer("member_id", memberID).Stringer("item_id", itemID).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Stringer("order_id", created.ID).Stringer("member_id", memberID).Int64("total_price", created.TotalPrice()).Msg("service: order created")

	return created, nil
}

// CancelOrder is one unit of work: load the order, lock every purchased item,
// run the aggregate's cancel (which gates on delivery status and restores
// stock), persist the new order status and stock levels.
func (s *service) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		o, err := s.orderRepo.GetByID(ctx, q, orderID)
		if err != nil {
			return err
		}

		items := make(map[uuid.UUID]*item.Item, len(o.Items))
		for _, oi := range o.Items {
			if _, ok := items[oi.ItemID]; ok {
				continue
			}
			it, err := s.itemRepo.GetByIDForUpdate(ctx, q, oi.ItemID)
			if err != nil {
				return err
			}
			items[oi.ItemID] = it
		}

		if err := o.Cancel(items); err != nil {
			return err
		}

		if err := s.orderRepo.UpdateStatus(ctx, q, o.ID, o.Status); err != nil {
			return err
		}

		for _, it := range items {
			if err := s.itemRepo.UpdateStock(ctx, q, it.ID, it.Stock); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if isDomainError(err) {
			log.Warn().Err(err).Stringer("order_id", orderID).Msg("service: order cancellation rejected")
			return err
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("service: failed to cancel order")
		return fmt.Errorf("service: failed to cancel order: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Msg("service: order cancelled")

	return nil
}

func (s *service) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orderRepo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		log.Error().Err(err).Stringer("order_id", id).Msg("service: failed to fetch order by id")
		return nil, fmt.Errorf("service: failed to fetch order by id: %w", err)
	}

	return o, nil
}

func (s *service) ListOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.orderRepo.List(ctx, s.db)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *service) ListOrdersByMemberID(ctx context.Context, memberID uuid.UUID) ([]Order, error) {
	orders, err := s.orderRepo.ListByMemberID(ctx, s.db, memberID)
	if err != nil {
		log.Error().Err(err).Stringer("member_id", memberID).Msg("service: failed to list member orders")
		return nil, fmt.Errorf("service: failed to list member orders: %w", err)
	}

	return orders, nil
}

func (s *service) UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, newStatus DeliveryStatus) error {
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		o, err := s.orderRepo.GetByID(ctx, q, orderID)
		if err != nil {
			return err
		}

		if err := o.UpdateDeliveryStatus(newStatus); err != nil {
			return err
		}

		return s.orderRepo.UpdateDeliveryStatus(ctx, q, o.ID, o.Delivery.Status)
	})
	if err != nil {
		if isDomainError(err) {
			log.Warn().Err(err).Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: delivery status update rejected")
			return err
		}
		log.Error().Err(err).Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: failed to update delivery status")
		return fmt.Errorf("service: failed to update delivery status: %w", err)
	}

	log.Info().Stringer("order_id", orderID).Stringer("new_status", newStatus).Msg("service: delivery status updated")

	return nil
}

// isDomainError reports whether err is a deterministic business-rule
// violation rather than an infrastructure failure.
func isDomainError(err error) bool {
	return errors.Is(err, item.ErrInsufficientStock) ||
		errors.Is(err, item.ErrNonPositiveQuantity) ||
		errors.Is(err, item.ErrNotFound) ||
		errors.Is(err, member.ErrNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrAlreadyDelivered) ||
		errors.Is(err, ErrAlreadyCanceled) ||
		errors.Is(err, ErrInvalidDeliveryTransition) ||
		errors.Is(err, ErrNoOrderItems)
}
