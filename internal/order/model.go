package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"github.com/okravchenko/go-shop/internal/item"
	"github.com/okravchenko/go-shop/internal/member"
)

type Status string

const (
	StatusOrdered  Status = "ORDERED"
	StatusCanceled Status = "CANCELED"
)

func (s Status) String() string {
	return string(s)
}

type DeliveryStatus string

const (
	DeliveryEstablished DeliveryStatus = "ESTABLISHED"
	DeliveryProgress    DeliveryStatus = "PROGRESS"
	DeliveryDone        DeliveryStatus = "DONE"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

// Delivery status only moves forward.
var deliveryTransitions = map[DeliveryStatus]map[DeliveryStatus]bool{
	DeliveryEstablished: {
		DeliveryProgress: true,
	},
	DeliveryProgress: {
		DeliveryDone: true,
	},
	DeliveryDone: {},
}

var (
	ErrAlreadyDelivered          = errors.New("order is already delivered and cannot be cancelled")
	ErrAlreadyCanceled           = errors.New("order is already cancelled")
	ErrInvalidDeliveryTransition = errors.New("invalid delivery status transition")
	ErrNoOrderItems              = errors.New("order must contain at least one item")
)

// Delivery is owned by its Order: created with it, stored with it, never
// handed out on its own. The address fields are a copy of the member's
// address at order time.
type Delivery struct {
	ID        uuid.UUID      `json:"id"`
	OrderID   uuid.UUID      `json:"order_id"`
	Status    DeliveryStatus `json:"status"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	Street    string         `json:"street"`
	Zipcode   string         `json:"zipcode"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// OrderItem is a line item. Price and Count are snapshots taken at purchase
// time and stay fixed whatever happens to the item afterwards.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Price     int64     `json:"price"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrderItem snapshots price and count and removes the purchased quantity
// from the item's stock. On insufficient stock the error propagates and no
// line item is produced.
func NewOrderItem(it *item.Item, price, count int64) (OrderItem, error) {
	if err := it.RemoveStock(count); err != nil {
		return OrderItem{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return OrderItem{}, err
	}

	now := time.Now().UTC()
	return OrderItem{
		ID:        id,
		ItemID:    it.ID,
		Price:     price,
		Count:     count,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (oi OrderItem) TotalPrice() int64 {
	return oi.Price * oi.Count
}

// cancel gives the purchased quantity back to the item. It restores exactly
// Count, regardless of any stock or price changes since the purchase.
func (oi OrderItem) cancel(it *item.Item) error {
	return it.AddStock(oi.Count)
}

// Order is the aggregate root: it owns its Delivery and its line items.
// Member and items are referenced by id only.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	MemberID  uuid.UUID   `json:"member_id"`
	Status    Status      `json:"status"`
	OrderDate time.Time   `json:"order_date"`
	Delivery  Delivery    `json:"delivery"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// New assembles an order for the given member: status ORDERED, order date
// stamped now, delivery derived from the member's current address, every
// line item bound to the new order id.
func New(m *member.Member, items ...OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoOrderItems
	}

	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	deliveryID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	o := &Order{
		ID:        orderID,
		MemberID:  m.ID,
		Status:    StatusOrdered,
		OrderDate: now,
		Delivery: Delivery{
			ID:        deliveryID,
			OrderID:   orderID,
			Status:    DeliveryEstablished,
			City:      m.Address.City,
			State:     m.Address.State,
			Street:    m.Address.Street,
			Zipcode:   m.Address.Zipcode,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Items:     make([]OrderItem, 0, len(items)),
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, oi := range items {
		oi.OrderID = orderID
		o.Items = append(o.Items, oi)
	}

	return o, nil
}

// Cancel flips the order to CANCELED and restores the stock of every line
// item. The caller supplies the loaded items keyed by id; all of them are
// checked for presence before anything is mutated, so a missing item leaves
// the order and every stock counter untouched.
func (o *Order) Cancel(items map[uuid.UUID]*item.Item) error {
	if o.Delivery.Status == DeliveryDone {
		return ErrAlreadyDelivered
	}
	if o.Status == StatusCanceled {
		return ErrAlreadyCanceled
	}

	for _, oi := range o.Items {
		if _, ok := items[oi.ItemID]; !ok {
			return fmt.Errorf("order: item %s not loaded for cancellation", oi.ItemID)
		}
	}

	o.Status = StatusCanceled
	for _, oi := range o.Items {
		if err := oi.cancel(items[oi.ItemID]); err != nil {
			return err
		}
	}

	return nil
}

// TotalPrice sums the line totals. Recomputed on every call, never cached.
func (o *Order) TotalPrice() int64 {
	var total int64
	for _, oi := range o.Items {
		total += oi.TotalPrice()
	}
	return total
}

// UpdateDeliveryStatus advances the delivery through its state machine.
// A cancelled order has nothing left to ship.
func (o *Order) UpdateDeliveryStatus(newStatus DeliveryStatus) error {
	if o.Status == StatusCanceled {
		return ErrAlreadyCanceled
	}
	allowed, ok := deliveryTransitions[o.Delivery.Status]
	if !ok || !allowed[newStatus] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidDeliveryTransition, o.Delivery.Status, newStatus)
	}
	o.Delivery.Status = newStatus
	return nil
}
