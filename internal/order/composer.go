package order

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/juice-shop/internal/catalog"
)

// NewPaymentID generates an opaque 10-character payment handle.
func NewPaymentID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:10]
}

// Composer builds orders from juice specifications. The clock and payment ID
// generator are injectable so tests get deterministic output.
type Composer struct {
	catalog catalog.Repository
	orders  Repository

	now       func() time.Time
	paymentID func() string
}

// ComposerOption customizes a Composer.
type ComposerOption func(*Composer)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) { c.now = now }
}

// WithPaymentIDs overrides the payment ID generator.
func WithPaymentIDs(gen func() string) ComposerOption {
	return func(c *Composer) { c.paymentID = gen }
}

// NewComposer creates a Composer with the required dependencies.
func NewComposer(cat catalog.Repository, orders Repository, opts ...ComposerOption) *Composer {
	c := &Composer{
		catalog:   cat,
		orders:    orders,
		now:       func() time.Time { return time.Now().UTC() },
		paymentID: NewPaymentID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Place composes and persists an order from the given juice specs, in input
// order.
//
// Resolution is deliberately asymmetric: an unknown fruit is skipped and the
// juice is still built from the remaining fruits, while an unknown liquid
// discards the whole juice, including any fruit prices it had accumulated.
// Neither case is an error. Only store failures abort the operation.
func (c *Composer) Place(ctx context.Context, specs []JuiceSpec) (*Order, error) {
	o := &Order{
		PaymentID: c.paymentID(),
		OrderAt:   c.now(),
		IsPaid:    false,
	}

	var total int64
	for _, spec := range specs {
		var (
			juicePrice int64
			fruits     []catalog.Fruit
		)
		for _, name := range spec.Fruits {
			fruit, err := c.catalog.FruitByName(ctx, name)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					continue
				}
				return nil, errors.Wrapf(err, "resolve fruit %q", name)
			}
			fruits = append(fruits, *fruit)
			juicePrice += fruit.Price
		}

		liquid, err := c.catalog.LiquidByName(ctx, spec.Liquid)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "resolve liquid %q", spec.Liquid)
		}
		juicePrice += liquid.Price

		o.Juices = append(o.Juices, Juice{
			Price:  juicePrice,
			Liquid: *liquid,
			Fruits: fruits,
		})
		total += juicePrice
	}
	o.Price = total

	if err := c.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}
