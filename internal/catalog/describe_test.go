package catalog

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	Repository

	fruits  map[string]Fruit
	liquids map[string]Liquid
}

func (m *mockRepo) FruitByName(_ context.Context, name string) (*Fruit, error) {
	f, ok := m.fruits[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *mockRepo) LiquidByName(_ context.Context, name string) (*Liquid, error) {
	l, ok := m.liquids[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func describeRepo() *mockRepo {
	vitC := Vitamin{ID: 1, Name: "C", Description: "ascorbic acid"}
	vitB6 := Vitamin{ID: 2, Name: "B6", Description: "pyridoxine"}
	return &mockRepo{
		fruits: map[string]Fruit{
			"banana": {ID: 1, Name: "banana", Description: "a tropical fruit", Vitamins: []Vitamin{vitC, vitB6}},
			"orange": {ID: 2, Name: "orange", Description: "a citrus fruit", Vitamins: []Vitamin{vitC}},
		},
		liquids: map[string]Liquid{
			"water": {ID: 1, Name: "water", Description: "supports hydration"},
		},
	}
}

func TestDescribe(t *testing.T) {
	desc, err := Describe(context.Background(), describeRepo(), []string{"banana", "orange"}, "water")
	require.NoError(t, err)

	require.Len(t, desc.Fruits, 2)
	assert.Equal(t, Ingredient{Name: "banana", Description: "a tropical fruit"}, desc.Fruits[0])
	assert.Equal(t, Ingredient{Name: "orange", Description: "a citrus fruit"}, desc.Fruits[1])

	// One vitamin entry per (fruit, vitamin) pair: C appears twice because
	// both fruits carry it.
	require.Len(t, desc.Vitamins, 3)
	assert.Equal(t, "C", desc.Vitamins[0].Name)
	assert.Equal(t, "B6", desc.Vitamins[1].Name)
	assert.Equal(t, "C", desc.Vitamins[2].Name)

	assert.Equal(t, Ingredient{Name: "water", Description: "supports hydration"}, desc.Liquid)
}

// Missing ingredients propagate as errors here, unlike order composition
// which silently filters them.
func TestDescribe_MissingIngredientFails(t *testing.T) {
	t.Run("unknown fruit", func(t *testing.T) {
		_, err := Describe(context.Background(), describeRepo(), []string{"banana", "durian"}, "water")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("unknown liquid", func(t *testing.T) {
		_, err := Describe(context.Background(), describeRepo(), []string{"banana"}, "lava")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
