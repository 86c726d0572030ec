package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/juice-shop/internal/catalog"
	"github.com/xenking/juice-shop/internal/postgres"
)

type vitaminJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type fruitJSON struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Vitamins    []string        `json:"vitamins"`
}

type liquidJSON struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

type seedFile struct {
	Vitamins []vitaminJSON `json:"vitamins"`
	Fruits   []fruitJSON   `json:"fruits"`
	Liquids  []liquidJSON  `json:"liquids"`
}

func main() {
	var (
		databaseURL string
		seedPath    string
		reset       bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&seedPath, "seed-file", "db/seed/catalog.json", "path to catalog seed JSON file")
	flag.BoolVar(&reset, "reset", false, "drop all tables before seeding")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, seedPath, reset); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, seedPath string, reset bool) error {
	slog.Info("reading seed file", slog.String("path", seedPath))

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return errors.Wrap(err, "read seed file")
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if reset {
		slog.Info("resetting schema")
		if err := postgres.ResetSchema(ctx, pool); err != nil {
			return errors.Wrap(err, "reset schema")
		}
	}

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewCatalogRepository(pool)

	// Vitamins go first so fruit upserts can attach them by name.
	slog.Info("upserting vitamins", slog.Int("count", len(seed.Vitamins)))

	for _, v := range seed.Vitamins {
		if _, err := repo.UpsertVitamin(ctx, catalog.VitaminInput{
			Name:        v.Name,
			Description: v.Description,
		}); err != nil {
			return errors.Wrapf(err, "upsert vitamin %s", v.Name)
		}
		slog.Info("upserted vitamin", slog.String("name", v.Name))
	}

	// Fruits and liquids are independent; load them concurrently.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("upserting fruits", slog.Int("count", len(seed.Fruits)))
		for _, f := range seed.Fruits {
			if _, err := repo.UpsertFruit(gctx, catalog.FruitInput{
				Name:        f.Name,
				Price:       catalog.ToSubunits(f.Price),
				Description: f.Description,
				Image:       f.Image,
				Vitamins:    f.Vitamins,
			}); err != nil {
				return errors.Wrapf(err, "upsert fruit %s", f.Name)
			}
			slog.Info("upserted fruit", slog.String("name", f.Name))
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("upserting liquids", slog.Int("count", len(seed.Liquids)))
		for _, l := range seed.Liquids {
			if _, err := repo.UpsertLiquid(gctx, catalog.LiquidInput{
				Name:        l.Name,
				Price:       catalog.ToSubunits(l.Price),
				Description: l.Description,
				Image:       l.Image,
			}); err != nil {
				return errors.Wrapf(err, "upsert liquid %s", l.Name)
			}
			slog.Info("upserted liquid", slog.String("name", l.Name))
		}
		return nil
	})

	return g.Wait()
}
