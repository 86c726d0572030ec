package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/juice-shop/internal/order"
)

// placeOrder composes an order from the requested juices and returns the
// persisted projection with derived pricing and a fresh payment ID.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var (
		specs    []order.JuiceSpec
		hasOrder bool
	)
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "order" {
				return d.Skip()
			}
			hasOrder = true
			return d.Arr(func(d *jx.Decoder) error {
				var spec order.JuiceSpec
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "fruits":
						spec.Fruits, err = decodeStrArr(d)
					case "liquid":
						spec.Liquid, err = d.Str()
					default:
						err = d.Skip()
					}
					return err
				}); err != nil {
					return err
				}
				specs = append(specs, spec)
				return nil
			})
		})
	})
	if err != nil || !hasOrder {
		writeError(w, http.StatusBadRequest, "invalid order payload")
		return
	}

	placed, err := h.composer.Place(r.Context(), specs)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	encodeOrderProjection(&e, placed)
	writeJSON(w, http.StatusOK, &e)
}

// getOrder returns the projected order for a payment ID.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.ByPaymentID(r.Context(), r.PathValue("payment_id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeNotFoundText(w)
			return
		}
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	encodeOrderProjection(&e, o)
	writeJSON(w, http.StatusOK, &e)
}

// updatePayment sets the is_paid flag of an order. The flag carries no
// terminal state; it may be flipped in either direction.
func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	var (
		isPaid  bool
		hasFlag bool
	)
	err := decodeBody(r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "is_paid" {
				return d.Skip()
			}
			var err error
			isPaid, err = d.Bool()
			hasFlag = err == nil
			return err
		})
	})
	if err != nil || !hasFlag {
		writeError(w, http.StatusBadRequest, "invalid payment payload")
		return
	}

	o, err := h.orders.SetPaid(r.Context(), r.PathValue("payment_id"), isPaid)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeNotFoundText(w)
			return
		}
		writeInternal(w, r, err)
		return
	}

	var e jx.Encoder
	encodeOrderProjection(&e, o)
	writeJSON(w, http.StatusOK, &e)
}

// encodeOrderProjection writes the full order shape. The timestamp uses the
// HTTP-date convention ("Wed, 01 Jan 2020 05:00:00 GMT") and all prices are
// converted to display values recursively.
func encodeOrderProjection(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("price")
	encodePrice(e, o.Price)
	e.FieldStart("order_at")
	e.Str(o.OrderAt.UTC().Format(http.TimeFormat))
	e.FieldStart("is_paid")
	e.Bool(o.IsPaid)
	e.FieldStart("payment_id")
	e.Str(o.PaymentID)
	e.FieldStart("juices")
	e.ArrStart()
	for i := range o.Juices {
		encodeJuiceProjection(e, &o.Juices[i])
	}
	e.ArrEnd()
	e.ObjEnd()
}
