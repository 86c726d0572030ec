// Package catalog holds the juice shop ingredient catalog: fruits, liquids,
// vitamins and their associations.
package catalog

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a catalog lookup by name misses. Absence is a
// routine outcome here: order composition filters on it instead of failing.
var ErrNotFound = errors.New("catalog entry not found")

// Vitamin is referenced by fruits; it has no price of its own.
type Vitamin struct {
	ID          int64
	Name        string
	Description string
}

// Fruit is a priced catalog ingredient with an additive vitamin set.
// Price is in integer currency subunits (cents).
type Fruit struct {
	ID          int64
	Name        string
	Price       int64
	Description string
	Image       string
	Vitamins    []Vitamin
}

// Liquid is the base of a juice. Price is in integer currency subunits.
type Liquid struct {
	ID          int64
	Name        string
	Price       int64
	Description string
	Image       string
}

// FruitInput carries the attributes for a fruit upsert. Price must already be
// converted to subunits. Vitamins lists vitamin names to attach; unknown
// names are ignored and existing associations are never removed.
type FruitInput struct {
	Name        string
	Price       int64
	Description string
	Image       string
	Vitamins    []string
}

// LiquidInput carries the attributes for a liquid upsert.
type LiquidInput struct {
	Name        string
	Price       int64
	Description string
	Image       string
}

// VitaminInput carries the attributes for a vitamin upsert.
type VitaminInput struct {
	Name        string
	Description string
}

// Repository defines the catalog store operations.
//
// Upserts look up the existing row by the lowercased incoming name but store
// the name with the case the client sent. Clients depend on the asymmetry,
// so implementations must preserve it.
// The *ByName lookups are exact matches and return ErrNotFound on miss.
type Repository interface {
	UpsertFruit(ctx context.Context, in FruitInput) (*Fruit, error)
	UpsertLiquid(ctx context.Context, in LiquidInput) (*Liquid, error)
	UpsertVitamin(ctx context.Context, in VitaminInput) (*Vitamin, error)

	ListFruits(ctx context.Context) ([]Fruit, error)
	ListLiquids(ctx context.Context) ([]Liquid, error)

	FruitByName(ctx context.Context, name string) (*Fruit, error)
	LiquidByName(ctx context.Context, name string) (*Liquid, error)
	VitaminByName(ctx context.Context, name string) (*Vitamin, error)
}
