package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/juice-shop/internal/catalog"
)

// listJuices reports every juice ever ordered, joined with its owning
// order's timestamp and total. The report is an unbounded full scan.
func (h *Handler) listJuices(w http.ResponseWriter, r *http.Request) {
	records, err := h.orders.ListJuices(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("juices")
	e.ArrStart()
	for i := range records {
		rec := &records[i]
		e.ObjStart()
		e.FieldStart("id")
		e.Int64(rec.ID)
		e.FieldStart("price")
		encodePrice(&e, rec.Price)
		e.FieldStart("fruits")
		e.ArrStart()
		for _, f := range rec.Fruits {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(f.Name)
			e.FieldStart("price")
			encodePrice(&e, f.Price)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.FieldStart("liquid")
		e.ObjStart()
		e.FieldStart("name")
		e.Str(rec.Liquid.Name)
		e.FieldStart("price")
		encodePrice(&e, rec.Liquid.Price)
		e.ObjEnd()
		e.FieldStart("order_datetime")
		e.Str(rec.OrderAt.UTC().Format(http.TimeFormat))
		e.FieldStart("order_total")
		encodePrice(&e, rec.OrderTotal)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, &e)
}

// describeJuice resolves every ingredient of a prospective juice and returns
// the descriptive bundle. Missing ingredients are an error here, not a
// filter: the client asked about a specific recipe.
func (h *Handler) describeJuice(w http.ResponseWriter, r *http.Request) {
	var (
		fruits []string
		liquid string
	)
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "fruits":
				fruits, err = decodeStrArr(d)
			case "liquid":
				liquid, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid juice description payload")
		return
	}

	desc, err := catalog.Describe(r.Context(), h.catalog, fruits, liquid)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("fruits")
	encodeIngredients(&e, desc.Fruits)
	e.FieldStart("vitamins")
	encodeIngredients(&e, desc.Vitamins)
	e.FieldStart("liquid")
	e.ObjStart()
	e.FieldStart("name")
	e.Str(desc.Liquid.Name)
	e.FieldStart("description")
	e.Str(desc.Liquid.Description)
	e.ObjEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, &e)
}

func encodeIngredients(e *jx.Encoder, items []catalog.Ingredient) {
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("name")
		e.Str(it.Name)
		e.FieldStart("description")
		e.Str(it.Description)
		e.ObjEnd()
	}
	e.ArrEnd()
}
