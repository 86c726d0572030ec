package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/juice-shop/internal/catalog"
)

const (
	// Upsert lookups match the stored name against the lowercased input;
	// the stored name itself keeps whatever case the client sent.
	findFruitIDSQL  = `SELECT id FROM fruits WHERE name = lower($1)`
	findLiquidIDSQL = `SELECT id FROM liquids WHERE name = lower($1)`

	insertFruitSQL = `INSERT INTO fruits (name, price, description, image)
		VALUES ($1, $2, $3, $4) RETURNING id`
	updateFruitSQL = `UPDATE fruits SET name = $2, price = $3, description = $4, image = $5
		WHERE id = $1`

	insertLiquidSQL = `INSERT INTO liquids (name, price, description, image)
		VALUES ($1, $2, $3, $4) RETURNING id`
	updateLiquidSQL = `UPDATE liquids SET name = $2, price = $3, description = $4, image = $5
		WHERE id = $1`

	upsertVitaminSQL = `INSERT INTO vitamins (name, description)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
		RETURNING id, name, description`

	// Unknown vitamin names resolve to no rows and are silently ignored;
	// the conflict clause keeps repeated upserts additive.
	attachVitaminsSQL = `INSERT INTO fruit_vitamins (fruit_id, vitamin_id)
		SELECT $1, v.id FROM vitamins v WHERE v.name = ANY($2)
		ON CONFLICT DO NOTHING`

	fruitsWithVitaminsSQL = `SELECT f.id, f.name, f.price, f.description, f.image,
			v.id, v.name, v.description
		FROM fruits f
		LEFT JOIN fruit_vitamins fv ON fv.fruit_id = f.id
		LEFT JOIN vitamins v ON v.id = fv.vitamin_id`

	listFruitsSQL    = fruitsWithVitaminsSQL + ` ORDER BY f.id, v.id`
	fruitByIDSQL     = fruitsWithVitaminsSQL + ` WHERE f.id = $1 ORDER BY v.id`
	fruitByNameSQL   = fruitsWithVitaminsSQL + ` WHERE f.name = $1 ORDER BY v.id`
	listLiquidsSQL   = `SELECT id, name, price, description, image FROM liquids ORDER BY id`
	liquidByIDSQL    = `SELECT id, name, price, description, image FROM liquids WHERE id = $1`
	liquidByNameSQL  = `SELECT id, name, price, description, image FROM liquids WHERE name = $1`
	vitaminByNameSQL = `SELECT id, name, description FROM vitamins WHERE name = $1`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
// Every externally invoked write runs in a single transaction.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository that uses the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// UpsertFruit creates or updates a fruit by its lowercased name, attaches any
// resolvable vitamins, and returns the fruit with vitamins loaded.
func (r *CatalogRepository) UpsertFruit(ctx context.Context, in catalog.FruitInput) (*catalog.Fruit, error) {
	var fruit *catalog.Fruit
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, findFruitIDSQL, in.Name).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx, insertFruitSQL, in.Name, in.Price, in.Description, in.Image).Scan(&id); err != nil {
				return errors.Wrapf(err, "insert fruit %q", in.Name)
			}
		case err != nil:
			return errors.Wrapf(err, "find fruit %q", in.Name)
		default:
			if _, err := tx.Exec(ctx, updateFruitSQL, id, in.Name, in.Price, in.Description, in.Image); err != nil {
				return errors.Wrapf(err, "update fruit %q", in.Name)
			}
		}

		if len(in.Vitamins) > 0 {
			if _, err := tx.Exec(ctx, attachVitaminsSQL, id, in.Vitamins); err != nil {
				return errors.Wrapf(err, "attach vitamins to fruit %q", in.Name)
			}
		}

		loaded, err := queryOneFruit(ctx, tx, fruitByIDSQL, id)
		if err != nil {
			return errors.Wrapf(err, "reload fruit %q", in.Name)
		}
		fruit = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fruit, nil
}

// UpsertLiquid creates or updates a liquid by its lowercased name.
func (r *CatalogRepository) UpsertLiquid(ctx context.Context, in catalog.LiquidInput) (*catalog.Liquid, error) {
	var liquid *catalog.Liquid
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, findLiquidIDSQL, in.Name).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx, insertLiquidSQL, in.Name, in.Price, in.Description, in.Image).Scan(&id); err != nil {
				return errors.Wrapf(err, "insert liquid %q", in.Name)
			}
		case err != nil:
			return errors.Wrapf(err, "find liquid %q", in.Name)
		default:
			if _, err := tx.Exec(ctx, updateLiquidSQL, id, in.Name, in.Price, in.Description, in.Image); err != nil {
				return errors.Wrapf(err, "update liquid %q", in.Name)
			}
		}

		var l catalog.Liquid
		if err := tx.QueryRow(ctx, liquidByIDSQL, id).
			Scan(&l.ID, &l.Name, &l.Price, &l.Description, &l.Image); err != nil {
			return errors.Wrapf(err, "reload liquid %q", in.Name)
		}
		liquid = &l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return liquid, nil
}

// UpsertVitamin creates or updates a vitamin by exact name.
func (r *CatalogRepository) UpsertVitamin(ctx context.Context, in catalog.VitaminInput) (*catalog.Vitamin, error) {
	var v catalog.Vitamin
	err := r.pool.QueryRow(ctx, upsertVitaminSQL, in.Name, in.Description).
		Scan(&v.ID, &v.Name, &v.Description)
	if err != nil {
		return nil, errors.Wrapf(err, "upsert vitamin %q", in.Name)
	}
	return &v, nil
}

// ListFruits returns all fruits with their vitamins.
func (r *CatalogRepository) ListFruits(ctx context.Context) ([]catalog.Fruit, error) {
	rows, err := r.pool.Query(ctx, listFruitsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list fruits")
	}
	return collectFruits(rows)
}

// ListLiquids returns all liquids.
func (r *CatalogRepository) ListLiquids(ctx context.Context) ([]catalog.Liquid, error) {
	rows, err := r.pool.Query(ctx, listLiquidsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list liquids")
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Liquid, error) {
		var l catalog.Liquid
		err := row.Scan(&l.ID, &l.Name, &l.Price, &l.Description, &l.Image)
		return l, err
	})
}

// FruitByName returns the fruit with the exact given name, with vitamins.
func (r *CatalogRepository) FruitByName(ctx context.Context, name string) (*catalog.Fruit, error) {
	f, err := queryOneFruit(ctx, r.pool, fruitByNameSQL, name)
	if err != nil {
		return nil, errors.Wrapf(err, "fruit %q", name)
	}
	return f, nil
}

// LiquidByName returns the liquid with the exact given name.
func (r *CatalogRepository) LiquidByName(ctx context.Context, name string) (*catalog.Liquid, error) {
	var l catalog.Liquid
	err := r.pool.QueryRow(ctx, liquidByNameSQL, name).
		Scan(&l.ID, &l.Name, &l.Price, &l.Description, &l.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "liquid %q", name)
	}
	return &l, nil
}

// VitaminByName returns the vitamin with the exact given name.
func (r *CatalogRepository) VitaminByName(ctx context.Context, name string) (*catalog.Vitamin, error) {
	var v catalog.Vitamin
	err := r.pool.QueryRow(ctx, vitaminByNameSQL, name).
		Scan(&v.ID, &v.Name, &v.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "vitamin %q", name)
	}
	return &v, nil
}

// queryOneFruit runs a fruits-with-vitamins query expected to match a single
// fruit and folds the joined rows into it. Returns catalog.ErrNotFound when
// the query matches nothing.
func queryOneFruit(ctx context.Context, q querier, sql string, arg any) (*catalog.Fruit, error) {
	rows, err := q.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	fruits, err := collectFruits(rows)
	if err != nil {
		return nil, err
	}
	if len(fruits) == 0 {
		return nil, catalog.ErrNotFound
	}
	return &fruits[0], nil
}

// collectFruits folds LEFT JOINed fruit/vitamin rows into fruits with vitamin
// slices. Rows must be ordered by fruit id.
func collectFruits(rows pgx.Rows) ([]catalog.Fruit, error) {
	defer rows.Close()

	var fruits []catalog.Fruit
	for rows.Next() {
		var (
			f     catalog.Fruit
			vID   *int64
			vName *string
			vDesc *string
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Price, &f.Description, &f.Image, &vID, &vName, &vDesc); err != nil {
			return nil, errors.Wrap(err, "scan fruit row")
		}

		if len(fruits) == 0 || fruits[len(fruits)-1].ID != f.ID {
			fruits = append(fruits, f)
		}
		if vID != nil {
			last := &fruits[len(fruits)-1]
			last.Vitamins = append(last.Vitamins, catalog.Vitamin{
				ID:          *vID,
				Name:        *vName,
				Description: *vDesc,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate fruit rows")
	}
	return fruits, nil
}
