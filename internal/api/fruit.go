package api

import (
	"net/http"
	"strings"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/juice-shop/internal/catalog"
)

// listFruits returns every fruit with its vitamins, descriptions included.
func (h *Handler) listFruits(w http.ResponseWriter, r *http.Request) {
	fruits, err := h.catalog.ListFruits(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("fruits")
	e.ArrStart()
	for i := range fruits {
		f := &fruits[i]
		e.ObjStart()
		e.FieldStart("name")
		e.Str(f.Name)
		e.FieldStart("price")
		encodePrice(&e, f.Price)
		e.FieldStart("description")
		e.Str(f.Description)
		e.FieldStart("image")
		e.Str(f.Image)
		e.FieldStart("vitamins")
		e.ArrStart()
		for _, v := range f.Vitamins {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(v.Name)
			e.FieldStart("description")
			e.Str(v.Description)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, &e)
}

type storeFruitRequest struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
	Vitamins    []string
}

// storeFruit upserts a fruit by name and returns its projection.
func (h *Handler) storeFruit(w http.ResponseWriter, r *http.Request) {
	var req storeFruitRequest
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "name":
				req.Name, err = d.Str()
			case "price":
				req.Price, err = decodeDecimal(d)
			case "description":
				req.Description, err = d.Str()
			case "image":
				req.Image, err = d.Str()
			case "vitamins":
				req.Vitamins, err = decodeStrArr(d)
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fruit payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	fruit, err := h.catalog.UpsertFruit(r.Context(), catalog.FruitInput{
		Name:        req.Name,
		Price:       catalog.ToSubunits(req.Price),
		Description: req.Description,
		Image:       req.Image,
		Vitamins:    req.Vitamins,
	})
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	encodeFruitProjection(&e, fruit)
	writeJSON(w, http.StatusOK, &e)
}

// decodeDecimal reads a JSON number (or numeric string) as a decimal.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	raw := strings.Trim(string(n), `"`)
	return decimal.NewFromString(raw)
}
