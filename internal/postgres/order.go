package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/juice-shop/internal/catalog"
	"github.com/xenking/juice-shop/internal/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (payment_id, price, order_at, is_paid)
		VALUES ($1, $2, $3, $4) RETURNING id`
	insertJuiceSQL = `INSERT INTO juices (order_id, liquid_id, price)
		VALUES ($1, $2, $3) RETURNING id`
	// Conflict clause keeps juice fruit membership a set.
	insertJuiceFruitSQL = `INSERT INTO juice_fruits (juice_id, fruit_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`

	orderByPaymentIDSQL = `SELECT id, payment_id, price, order_at, is_paid
		FROM orders WHERE payment_id = $1`
	setPaidSQL = `UPDATE orders SET is_paid = $2 WHERE payment_id = $1 RETURNING id`

	// Juices joined with their liquid, for one order or for the full report.
	orderJuicesSQL = `SELECT j.id, j.price, l.id, l.name, l.price, l.description, l.image
		FROM juices j
		JOIN liquids l ON l.id = j.liquid_id
		WHERE j.order_id = $1
		ORDER BY j.id`
	allJuicesSQL = `SELECT j.id, j.price, l.id, l.name, l.price, l.description, l.image,
			o.order_at, o.price
		FROM juices j
		JOIN liquids l ON l.id = j.liquid_id
		JOIN orders o ON o.id = j.order_id
		ORDER BY j.id`

	juiceFruitsSQL = `SELECT jf.juice_id, f.id, f.name, f.price, f.description, f.image
		FROM juice_fruits jf
		JOIN fruits f ON f.id = jf.fruit_id
		WHERE jf.juice_id = ANY($1)
		ORDER BY jf.juice_id, f.id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order aggregate in one transaction: the order row, one
// juice row per composed juice, and the juice-fruit links. Generated IDs are
// written back into the aggregate.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertOrderSQL, o.PaymentID, o.Price, o.OrderAt, o.IsPaid).Scan(&o.ID); err != nil {
			return errors.Wrapf(err, "insert order %q", o.PaymentID)
		}

		for i := range o.Juices {
			j := &o.Juices[i]
			if err := tx.QueryRow(ctx, insertJuiceSQL, o.ID, j.Liquid.ID, j.Price).Scan(&j.ID); err != nil {
				return errors.Wrapf(err, "insert juice for order %q", o.PaymentID)
			}
			for _, f := range j.Fruits {
				if _, err := tx.Exec(ctx, insertJuiceFruitSQL, j.ID, f.ID); err != nil {
					return errors.Wrapf(err, "link fruit %q to juice", f.Name)
				}
			}
		}
		return nil
	})
}

// ByPaymentID loads the full order aggregate. Juice fruit and liquid data
// reflect the current catalog rows; only the juice and order prices were
// frozen at composition time.
func (r *OrderRepository) ByPaymentID(ctx context.Context, paymentID string) (*order.Order, error) {
	return loadOrder(ctx, r.pool, paymentID)
}

// SetPaid flips the payment flag and returns the updated aggregate. The
// update and reload share one transaction.
func (r *OrderRepository) SetPaid(ctx context.Context, paymentID string, isPaid bool) (*order.Order, error) {
	var o *order.Order
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx, setPaidSQL, paymentID, isPaid).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return order.ErrNotFound
			}
			return errors.Wrapf(err, "update payment status %q", paymentID)
		}
		loaded, err := loadOrder(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		o = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListJuices returns every juice ever ordered joined with its owning order's
// timestamp and total. The report has no pagination; it scans everything.
func (r *OrderRepository) ListJuices(ctx context.Context) ([]order.JuiceRecord, error) {
	rows, err := r.pool.Query(ctx, allJuicesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list juices")
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.JuiceRecord, error) {
		var rec order.JuiceRecord
		err := row.Scan(
			&rec.ID, &rec.Price,
			&rec.Liquid.ID, &rec.Liquid.Name, &rec.Liquid.Price, &rec.Liquid.Description, &rec.Liquid.Image,
			&rec.OrderAt, &rec.OrderTotal,
		)
		return rec, err
	})
	if err != nil {
		return nil, errors.Wrap(err, "collect juices")
	}

	ids := make([]int64, len(records))
	index := make(map[int64]*order.JuiceRecord, len(records))
	for i := range records {
		ids[i] = records[i].ID
		index[records[i].ID] = &records[i]
	}
	if err := attachJuiceFruits(ctx, r.pool, ids, func(juiceID int64, f catalog.Fruit) {
		rec := index[juiceID]
		rec.Fruits = append(rec.Fruits, f)
	}); err != nil {
		return nil, err
	}

	return records, nil
}

// loadOrder assembles the order aggregate: order row, juices with liquids,
// then fruits for all juices in one query.
func loadOrder(ctx context.Context, q querier, paymentID string) (*order.Order, error) {
	var o order.Order
	err := q.QueryRow(ctx, orderByPaymentIDSQL, paymentID).
		Scan(&o.ID, &o.PaymentID, &o.Price, &o.OrderAt, &o.IsPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "load order %q", paymentID)
	}

	rows, err := q.Query(ctx, orderJuicesSQL, o.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "load juices for order %q", paymentID)
	}
	o.Juices, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Juice, error) {
		var j order.Juice
		err := row.Scan(
			&j.ID, &j.Price,
			&j.Liquid.ID, &j.Liquid.Name, &j.Liquid.Price, &j.Liquid.Description, &j.Liquid.Image,
		)
		return j, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "collect juices for order %q", paymentID)
	}

	ids := make([]int64, len(o.Juices))
	index := make(map[int64]*order.Juice, len(o.Juices))
	for i := range o.Juices {
		ids[i] = o.Juices[i].ID
		index[o.Juices[i].ID] = &o.Juices[i]
	}
	if err := attachJuiceFruits(ctx, q, ids, func(juiceID int64, f catalog.Fruit) {
		j := index[juiceID]
		j.Fruits = append(j.Fruits, f)
	}); err != nil {
		return nil, errors.Wrapf(err, "load fruits for order %q", paymentID)
	}

	return &o, nil
}

// attachJuiceFruits streams the fruits of the given juices to fn.
func attachJuiceFruits(ctx context.Context, q querier, juiceIDs []int64, fn func(juiceID int64, f catalog.Fruit)) error {
	if len(juiceIDs) == 0 {
		return nil
	}

	rows, err := q.Query(ctx, juiceFruitsSQL, juiceIDs)
	if err != nil {
		return errors.Wrap(err, "query juice fruits")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			juiceID int64
			f       catalog.Fruit
		)
		if err := rows.Scan(&juiceID, &f.ID, &f.Name, &f.Price, &f.Description, &f.Image); err != nil {
			return errors.Wrap(err, "scan juice fruit row")
		}
		fn(juiceID, f)
	}
	return errors.Wrap(rows.Err(), "iterate juice fruits")
}
