package item_test

import (
	"errors"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/okravchenko/go-shop/internal/item"
)

func TestItem_RemoveStock(t *testing.T) {
	tests := []struct {
		name      string
		stock     int64
		quantity  int64
		wantStock int64
		wantErrIs error
	}{
		{
			name:      "removes_within_stock",
			stock:     10,
			quantity:  4,
			wantStock: 6,
		},
		{
			name:      "removes_exact_stock",
			stock:     5,
			quantity:  5,
			wantStock: 0,
		},
		{
			name:      "insufficient_stock_leaves_stock_unchanged",
			stock:     3,
			quantity:  5,
			wantStock: 3,
			wantErrIs: item.ErrInsufficientStock,
		},
		{
			name:      "zero_quantity_rejected",
			stock:     3,
			quantity:  0,
			wantStock: 3,
			wantErrIs: item.ErrNonPositiveQuantity,
		},
		{
			name:      "negative_quantity_rejected",
			stock:     3,
			quantity:  -2,
			wantStock: 3,
			wantErrIs: item.ErrNonPositiveQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := item.New("acme", "widget", 1000, tt.stock)
			assert.NoError(t, err)

			err = it.RemoveStock(tt.quantity)
			if tt.wantErrIs != nil {
				assert.True(t, errors.Is(err, tt.wantErrIs))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStock, it.Stock)
		})
	}
}

func TestItem_AddStock(t *testing.T) {
	it, err := item.New("acme", "widget", 1000, 2)
	assert.NoError(t, err)

	assert.NoError(t, it.AddStock(8))
	assert.Equal(t, int64(10), it.Stock)

	err = it.AddStock(0)
	assert.True(t, errors.Is(err, item.ErrNonPositiveQuantity))
	assert.Equal(t, int64(10), it.Stock)
}

func TestItem_AddThenRemoveRoundTrip(t *testing.T) {
	it, err := item.New("acme", "widget", 1000, 7)
	assert.NoError(t, err)

	assert.NoError(t, it.AddStock(3))
	assert.NoError(t, it.RemoveStock(3))
	assert.Equal(t, int64(7), it.Stock)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		itemName  string
		price     int64
		stock     int64
		wantErr   bool
		wantErrIs error
	}{
		{name: "valid", itemName: "widget", price: 100, stock: 5},
		{name: "empty_name", itemName: "", price: 100, stock: 5, wantErr: true, wantErrIs: item.ErrNameRequired},
		{name: "negative_price", itemName: "widget", price: -1, stock: 5, wantErr: true},
		{name: "negative_stock", itemName: "widget", price: 100, stock: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := item.New("acme", tt.itemName, tt.price, tt.stock)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantErrIs != nil {
					assert.True(t, errors.Is(err, tt.wantErrIs))
				}
				assert.Nil(t, it)
			} else {
				assert.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, it.ID)
			}
		})
	}
}
