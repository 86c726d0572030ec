package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// Ingredient is a name/description pair used in juice descriptions.
type Ingredient struct {
	Name        string
	Description string
}

// JuiceDescription bundles the descriptive info for a prospective juice.
// Vitamins holds one entry per (fruit, vitamin) pair, so a vitamin shared by
// several fruits appears several times.
type JuiceDescription struct {
	Fruits   []Ingredient
	Vitamins []Ingredient
	Liquid   Ingredient
}

// Describe resolves every ingredient of a prospective juice and returns the
// descriptive bundle. Unlike order composition, a missing fruit or liquid is
// an error here: the caller asked about a specific recipe and a partial
// answer would be misleading.
func Describe(ctx context.Context, repo Repository, fruitNames []string, liquidName string) (*JuiceDescription, error) {
	var desc JuiceDescription

	for _, name := range fruitNames {
		fruit, err := repo.FruitByName(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(err, "fruit %q", name)
		}
		desc.Fruits = append(desc.Fruits, Ingredient{
			Name:        fruit.Name,
			Description: fruit.Description,
		})
		for _, v := range fruit.Vitamins {
			desc.Vitamins = append(desc.Vitamins, Ingredient{
				Name:        v.Name,
				Description: v.Description,
			})
		}
	}

	liquid, err := repo.LiquidByName(ctx, liquidName)
	if err != nil {
		return nil, errors.Wrapf(err, "liquid %q", liquidName)
	}
	desc.Liquid = Ingredient{
		Name:        liquid.Name,
		Description: liquid.Description,
	}

	return &desc, nil
}
