package order_test

import (
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/okravchenko/go-shop/internal/item"
	"github.com/okravchenko/go-shop/internal/member"
	"github.com/okravchenko/go-shop/internal/order"
)

func newTestMember(t *testing.T) *member.Member {
	t.Helper()
	m, err := member.New("kim", member.Address{
		City:    "Seoul",
		State:   "Seoul",
		Street:  "Teheran-ro 1",
		Zipcode: "06234",
	})
	assert.NoError(t, err)
	return m
}

func newTestItem(t *testing.T, price, stock int64) *item.Item {
	t.Helper()
	it, err := item.New("acme", "widget", price, stock)
	assert.NoError(t, err)
	return it
}

func TestNewOrderItem(t *testing.T) {
	t.Run("snapshots_price_and_decrements_stock", func(t *testing.T) {
		it := newTestItem(t, 500, 5)

		oi, err := order.NewOrderItem(it, it.Price, 3)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), it.Stock)
		assert.Equal(t, it.ID, oi.ItemID)
		assert.Equal(t, int64(500*3), oi.TotalPrice())
	})

	t.Run("insufficient_stock_produces_no_line_item", func(t *testing.T) {
		it := newTestItem(t, 500, 2)

		_, err := order.NewOrderItem(it, it.Price, 3)
		assert.True(t, errors.Is(err, item.ErrInsufficientStock))
		assert.Equal(t, int64(2), it.Stock)
	})

	t.Run("price_snapshot_survives_item_price_change", func(t *testing.T) {
		it := newTestItem(t, 500, 5)

		oi, err := order.NewOrderItem(it, it.Price, 2)
		assert.NoError(t, err)

		it.Price = 900
		assert.Equal(t, int64(1000), oi.TotalPrice())
	})
}

func TestNew(t *testing.T) {
	t.Run("assembles_ordered_aggregate_with_member_address", func(t *testing.T) {
		m := newTestMember(t)
		it := newTestItem(t, 1000, 10)

		oi, err := order.NewOrderItem(it, it.Price, 2)
		assert.NoError(t, err)

		o, err := order.New(m, oi)
		assert.NoError(t, err)

		assert.Equal(t, order.StatusOrdered, o.Status)
		assert.Equal(t, m.ID, o.MemberID)
		assert.False(t, o.OrderDate.IsZero())
		assert.Equal(t, int64(2000), o.TotalPrice())

		assert.Equal(t, order.DeliveryEstablished, o.Delivery.Status)
		assert.Equal(t, o.ID, o.Delivery.OrderID)
		assert.Equal(t, m.Address.City, o.Delivery.City)
		assert.Equal(t, m.Address.State, o.Delivery.State)
		assert.Equal(t, m.Address.Street, o.Delivery.Street)
		assert.Equal(t, m.Address.Zipcode, o.Delivery.Zipcode)

		for _, line := range o.Items {
			assert.Equal(t, o.ID, line.OrderID)
		}
	})

	t.Run("delivery_address_is_a_snapshot", func(t *testing.T) {
		m := newTestMember(t)
		it := newTestItem(t, 1000, 10)

		oi, err := order.NewOrderItem(it, it.Price, 1)
		assert.NoError(t, err)

		o, err := order.New(m, oi)
		assert.NoError(t, err)

		m.Address = member.Address{City: "Busan", State: "Busan", Street: "Haeundae 2", Zipcode: "48094"}
		assert.Equal(t, "Seoul", o.Delivery.City)
	})

	t.Run("rejects_empty_line_items", func(t *testing.T) {
		m := newTestMember(t)

		_, err := order.New(m)
		assert.True(t, errors.Is(err, order.ErrNoOrderItems))
	})
}

func TestOrder_Cancel(t *testing.T) {
	newOrder := func(t *testing.T, it *item.Item, count int64) *order.Order {
		t.Helper()
		oi, err := order.NewOrderItem(it, it.Price, count)
		assert.NoError(t, err)
		o, err := order.New(newTestMember(t), oi)
		assert.NoError(t, err)
		return o
	}

	t.Run("restores_stock_and_flips_status", func(t *testing.T) {
		it := newTestItem(t, 1000, 5)
		o := newOrder(t, it, 3)
		assert.Equal(t, int64(2), it.Stock)

		err := o.Cancel(map[uuid.UUID]*item.Item{it.ID: it})
		assert.NoError(t, err)
		assert.Equal(t, order.StatusCanceled, o.Status)
		assert.Equal(t, int64(5), it.Stock)
	})

	t.Run("restores_exactly_count_despite_intervening_stock_changes", func(t *testing.T) {
		it := newTestItem(t, 1000, 5)
		o := newOrder(t, it, 3)
		assert.Equal(t, int64(2), it.Stock)

		// Restock between purchase and cancellation.
		assert.NoError(t, it.AddStock(8))
		assert.Equal(t, int64(10), it.Stock)

		err := o.Cancel(map[uuid.UUID]*item.Item{it.ID: it})
		assert.NoError(t, err)
		assert.Equal(t, int64(13), it.Stock)
	})

	t.Run("allowed_while_delivery_in_progress", func(t *testing.T) {
		it := newTestItem(t, 1000, 5)
		o := newOrder(t, it, 2)

		assert.NoError(t, o.UpdateDeliveryStatus(order.DeliveryProgress))

		err := o.Cancel(map[uuid.UUID]*item.Item{it.ID: it})
		assert.NoError(t, err)
		assert.Equal(t, order.StatusCanceled, o.Status)
		assert.Equal(t, int64(5), it.Stock)
	})

	t.Run("rejected_once_delivered", func(t *testing.T) {
		it := newTestItem(t, 1000, 5)
		o := newOrder(t, it, 2)

		assert.NoError(t, o.UpdateDeliveryStatus(order.DeliveryProgress))
		assert.NoError(t, o.UpdateDeliveryStatus(order.DeliveryDone))

		err := o.Cancel(map[uuid.UUID]*item.Item{it.ID: it})
		assert.True(t, errors.Is(err, order.ErrAlreadyDelivered))
		assert.Equal(t, order.StatusOrdered, o.Status)
		assert.Equal(t, int64(3), it.Stock)
	})

	t.Run("rejected_when_already_cancelled", func(t *testing.T) {
		it := newTestItem(t, 1000, 5)
		o := newOrder(t, it, 2)
		items := map[uuid.UUID]*item.Item{it.ID: it}

		assert.NoError(t, o.Cancel(items))
		err := o.Cancel(items)
		assert.True(t, errors.Is(err, order.ErrAlreadyCanceled))
		assert.Equal(t, int64(5), it.Stock)
	})

	t.Run("missing_item_leaves_everything_untouched", func(t *testing.T) {
		it := newTestItem(t, 1000, 5)
		o := newOrder(t, it, 2)

		err := o.Cancel(map[uuid.UUID]*item.Item{})
		assert.Error(t, err)
		assert.Equal(t, order.StatusOrdered, o.Status)
		assert.Equal(t, int64(3), it.Stock)
	})
}

func TestOrder_UpdateDeliveryStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    order.DeliveryStatus
		to      order.DeliveryStatus
		wantErr bool
	}{
		{name: "established_to_progress", from: order.DeliveryEstablished, to: order.DeliveryProgress},
		{name: "progress_to_done", from: order.DeliveryProgress, to: order.DeliveryDone},
		{name: "established_to_done_skips", from: order.DeliveryEstablished, to: order.DeliveryDone, wantErr: true},
		{name: "progress_to_established_backward", from: order.DeliveryProgress, to: order.DeliveryEstablished, wantErr: true},
		{name: "done_is_terminal", from: order.DeliveryDone, to: order.DeliveryProgress, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := newTestItem(t, 1000, 5)
			oi, err := order.NewOrderItem(it, it.Price, 1)
			assert.NoError(t, err)
			o, err := order.New(newTestMember(t), oi)
			assert.NoError(t, err)

			o.Delivery.Status = tt.from

			err = o.UpdateDeliveryStatus(tt.to)
			if tt.wantErr {
				assert.True(t, errors.Is(err, order.ErrInvalidDeliveryTransition))
				assert.Equal(t, tt.from, o.Delivery.Status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, o.Delivery.Status)
			}
		})
	}

	t.Run("rejected_on_cancelled_order", func(t *testing.T) {
		it := newTestItem(t, 1000, 5)
		oi, err := order.NewOrderItem(it, it.Price, 1)
		assert.NoError(t, err)
		o, err := order.New(newTestMember(t), oi)
		assert.NoError(t, err)

		assert.NoError(t, o.Cancel(map[uuid.UUID]*item.Item{it.ID: it}))

		err = o.UpdateDeliveryStatus(order.DeliveryProgress)
		assert.True(t, errors.Is(err, order.ErrAlreadyCanceled))
		assert.Equal(t, order.DeliveryEstablished, o.Delivery.Status)
	})
}

func TestOrder_TotalPrice(t *testing.T) {
	m := newTestMember(t)
	first := newTestItem(t, 1000, 10)
	second := newTestItem(t, 250, 10)

	oi1, err := order.NewOrderItem(first, first.Price, 2)
	assert.NoError(t, err)
	oi2, err := order.NewOrderItem(second, second.Price, 4)
	assert.NoError(t, err)

	o, err := order.New(m, oi1, oi2)
	assert.NoError(t, err)

	assert.Equal(t, int64(2000+1000), o.TotalPrice())
}
