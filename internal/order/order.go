// Package order implements order composition: turning juice specifications
// into persisted orders with derived pricing.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/juice-shop/internal/catalog"
)

// ErrNotFound is returned when no order exists for a payment ID.
var ErrNotFound = errors.New("order not found")

// Juice is a composed drink owned by exactly one order. Price is the sum of
// the resolved fruit prices plus the liquid price, frozen at composition time
// and never recomputed; later catalog price changes do not affect it.
type Juice struct {
	ID     int64
	Price  int64
	Liquid catalog.Liquid
	Fruits []catalog.Fruit
}

// Order aggregates juices with a derived total price. PaymentID is the
// opaque external handle used for all later lookups and updates.
type Order struct {
	ID        int64
	PaymentID string
	Price     int64
	OrderAt   time.Time
	IsPaid    bool
	Juices    []Juice
}

// JuiceSpec is one requested juice: a liquid name plus fruit names.
type JuiceSpec struct {
	Fruits []string
	Liquid string
}

// JuiceRecord is a reporting row: a juice joined with its owning order's
// timestamp and total.
type JuiceRecord struct {
	Juice
	OrderAt    time.Time
	OrderTotal int64
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order aggregate (order, juices, juice-fruit links)
	// in a single transaction and fills in generated IDs.
	Create(ctx context.Context, o *Order) error
	// ByPaymentID loads the full aggregate, or ErrNotFound.
	ByPaymentID(ctx context.Context, paymentID string) (*Order, error)
	// SetPaid updates the payment flag and returns the updated aggregate,
	// or ErrNotFound. The flag may be toggled in either direction.
	SetPaid(ctx context.Context, paymentID string, isPaid bool) (*Order, error)
	// ListJuices returns every juice ever ordered, joined with its order.
	ListJuices(ctx context.Context) ([]JuiceRecord, error)
}
