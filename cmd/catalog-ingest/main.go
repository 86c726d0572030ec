// Command catalog-ingest bulk-loads fruits from gzip-compressed JSON-lines
// dumps. Supplier dumps repeat entries heavily, so a bloom filter skips names
// already ingested in this run; the false positive rate is low enough that an
// occasionally skipped fruit is recovered on the next ingest.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/juice-shop/internal/catalog"
	"github.com/xenking/juice-shop/internal/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001
	progressEvery = 100_000
)

type fruitLine struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Vitamins    []string        `json:"vitamins"`
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one dump file is required: catalog-ingest [flags] dump.gz ...")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewCatalogRepository(pool)
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	var total, skipped uint64
	for _, path := range files {
		slog.Info("ingesting dump", slog.String("path", path))

		if err := streamGzFile(ctx, path, func(line []byte) error {
			total++
			if total%progressEvery == 0 {
				slog.Info("ingest progress",
					slog.Uint64("lines", total),
					slog.Uint64("skipped", skipped),
				)
			}

			var f fruitLine
			if err := json.Unmarshal(line, &f); err != nil {
				return errors.Wrapf(err, "parse line %d", total)
			}
			if f.Name == "" {
				skipped++
				return nil
			}
			if seen.TestString(f.Name) {
				skipped++
				return nil
			}
			seen.AddString(f.Name)

			if _, err := repo.UpsertFruit(ctx, catalog.FruitInput{
				Name:        f.Name,
				Price:       catalog.ToSubunits(f.Price),
				Description: f.Description,
				Image:       f.Image,
				Vitamins:    f.Vitamins,
			}); err != nil {
				return errors.Wrapf(err, "upsert fruit %s", f.Name)
			}
			return nil
		}); err != nil {
			return errors.Wrapf(err, "ingest %s", path)
		}
	}

	slog.Info("ingest finished",
		slog.Uint64("lines", total),
		slog.Uint64("skipped", skipped),
	)
	return nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
