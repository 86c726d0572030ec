package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/juice-shop/internal/catalog"
)

// --- Mock implementations ---

type mockCatalog struct {
	catalog.Repository

	fruits  map[string]catalog.Fruit
	liquids map[string]catalog.Liquid
	err     error
}

func (m *mockCatalog) FruitByName(_ context.Context, name string) (*catalog.Fruit, error) {
	if m.err != nil {
		return nil, m.err
	}
	f, ok := m.fruits[name]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &f, nil
}

func (m *mockCatalog) LiquidByName(_ context.Context, name string) (*catalog.Liquid, error) {
	if m.err != nil {
		return nil, m.err
	}
	l, ok := m.liquids[name]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &l, nil
}

type mockOrders struct {
	Repository

	created *Order
	err     error
}

func (m *mockOrders) Create(_ context.Context, o *Order) error {
	if m.err != nil {
		return m.err
	}
	o.ID = 1
	m.created = o
	return nil
}

func testCatalog() *mockCatalog {
	return &mockCatalog{
		fruits: map[string]catalog.Fruit{
			"banana": {ID: 1, Name: "banana", Price: 450},
			"orange": {ID: 2, Name: "orange", Price: 400},
			"mango":  {ID: 3, Name: "mango", Price: 600},
		},
		liquids: map[string]catalog.Liquid{
			"water": {ID: 1, Name: "water", Price: 200},
			"milk":  {ID: 2, Name: "milk", Price: 300},
		},
	}
}

// --- Tests ---

func TestPlace_DerivedPricing(t *testing.T) {
	orders := &mockOrders{}
	c := NewComposer(testCatalog(), orders)

	o, err := c.Place(context.Background(), []JuiceSpec{
		{Fruits: []string{"banana", "orange"}, Liquid: "water"},
		{Fruits: []string{"mango"}, Liquid: "milk"},
	})
	require.NoError(t, err)
	require.Len(t, o.Juices, 2)

	assert.Equal(t, int64(450+400+200), o.Juices[0].Price)
	assert.Equal(t, int64(600+300), o.Juices[1].Price)
	assert.Equal(t, o.Juices[0].Price+o.Juices[1].Price, o.Price)
	assert.False(t, o.IsPaid)
	assert.NotEmpty(t, o.PaymentID)
	require.NotNil(t, orders.created, "order must be persisted")
	assert.Equal(t, o, orders.created)
}

func TestPlace_UnknownFruitSkipped(t *testing.T) {
	c := NewComposer(testCatalog(), &mockOrders{})

	o, err := c.Place(context.Background(), []JuiceSpec{
		{Fruits: []string{"banana", "durian", "orange"}, Liquid: "water"},
	})
	require.NoError(t, err)
	require.Len(t, o.Juices, 1)

	// The juice is still created from the fruits that resolved.
	require.Len(t, o.Juices[0].Fruits, 2)
	assert.Equal(t, "banana", o.Juices[0].Fruits[0].Name)
	assert.Equal(t, "orange", o.Juices[0].Fruits[1].Name)
	assert.Equal(t, int64(450+400+200), o.Juices[0].Price)
	assert.Equal(t, o.Juices[0].Price, o.Price)
}

func TestPlace_UnknownLiquidDropsJuice(t *testing.T) {
	c := NewComposer(testCatalog(), &mockOrders{})

	o, err := c.Place(context.Background(), []JuiceSpec{
		{Fruits: []string{"banana"}, Liquid: "water"},
		{Fruits: []string{"mango", "orange"}, Liquid: "lava"},
		{Fruits: []string{"orange"}, Liquid: "milk"},
	})
	require.NoError(t, err)

	// The middle juice is gone entirely and its fruit prices do not leak
	// into the order total.
	require.Len(t, o.Juices, 2)
	assert.Equal(t, "water", o.Juices[0].Liquid.Name)
	assert.Equal(t, "milk", o.Juices[1].Liquid.Name)
	assert.Equal(t, int64(450+200+400+300), o.Price)
}

func TestPlace_EmptySpecs(t *testing.T) {
	orders := &mockOrders{}
	c := NewComposer(testCatalog(), orders)

	o, err := c.Place(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, o.Juices)
	assert.Zero(t, o.Price)
	assert.NotNil(t, orders.created)
}

func TestPlace_Deterministic(t *testing.T) {
	at := time.Date(2020, 1, 1, 5, 0, 0, 0, time.UTC)
	mk := func() *Order {
		c := NewComposer(testCatalog(), &mockOrders{},
			WithClock(func() time.Time { return at }),
			WithPaymentIDs(func() string { return "fixedid123" }),
		)
		o, err := c.Place(context.Background(), []JuiceSpec{
			{Fruits: []string{"banana"}, Liquid: "milk"},
		})
		require.NoError(t, err)
		return o
	}

	first, second := mk(), mk()
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, at, first.OrderAt)
	assert.Equal(t, "fixedid123", first.PaymentID)
}

func TestPlace_StoreErrors(t *testing.T) {
	t.Run("catalog failure aborts", func(t *testing.T) {
		cat := testCatalog()
		cat.err = errors.New("db down")
		c := NewComposer(cat, &mockOrders{})

		_, err := c.Place(context.Background(), []JuiceSpec{
			{Fruits: []string{"banana"}, Liquid: "water"},
		})
		require.Error(t, err)
	})

	t.Run("create failure aborts", func(t *testing.T) {
		c := NewComposer(testCatalog(), &mockOrders{err: errors.New("insert failed")})

		_, err := c.Place(context.Background(), []JuiceSpec{
			{Fruits: []string{"banana"}, Liquid: "water"},
		})
		require.Error(t, err)
	})
}

func TestNewPaymentID(t *testing.T) {
	a, b := NewPaymentID(), NewPaymentID()
	assert.Len(t, a, 10)
	assert.NotEqual(t, a, b)
}
