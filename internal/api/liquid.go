package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/juice-shop/internal/catalog"
)

// listLiquids returns every liquid in the catalog.
func (h *Handler) listLiquids(w http.ResponseWriter, r *http.Request) {
	liquids, err := h.catalog.ListLiquids(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("liquids")
	e.ArrStart()
	for i := range liquids {
		encodeLiquidProjection(&e, &liquids[i])
	}
	e.ArrEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, &e)
}

type storeLiquidRequest struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Image       string
}

// storeLiquid upserts a liquid by name and returns its projection.
func (h *Handler) storeLiquid(w http.ResponseWriter, r *http.Request) {
	var req storeLiquidRequest
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
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid liquid payload")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	liquid, err := h.catalog.UpsertLiquid(r.Context(), catalog.LiquidInput{
		Name:        req.Name,
		Price:       catalog.ToSubunits(req.Price),
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	encodeLiquidProjection(&e, liquid)
	writeJSON(w, http.StatusOK, &e)
}
