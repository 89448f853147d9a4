package member

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
)

var ErrNameRequired = errors.New("member name is required")

// Address is a value: constructed with all four fields and never mutated.
// Deliveries copy it at order creation time.
type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

type Member struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   Address   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New is the only valid construction path for a Member.
func New(name string, address Address) (*Member, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Member{
		ID:        id,
		Name:      name,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
