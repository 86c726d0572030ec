package api

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/juice-shop/internal/catalog"
	"github.com/xenking/juice-shop/internal/order"
)

const notFoundBody = "Resource not found"

// writeJSON flushes the encoder to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError responds with the project's JSON error shape.
func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, &e)
}

// writeNotFoundText responds with the plain-text 404 body that order lookup
// clients expect.
func writeNotFoundText(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, notFoundBody)
}

// writeInternal logs the error with the request-scoped logger and responds
// with an opaque 500.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// encodePrice writes a subunit amount as its decimal display value.
func encodePrice(e *jx.Encoder, subunits int64) {
	e.Float64(catalog.DisplayPrice(subunits))
}

// encodeFruitProjection writes the store-endpoint fruit shape. Vitamin
// descriptions are deliberately omitted here; only the catalog listing
// includes them.
func encodeFruitProjection(e *jx.Encoder, f *catalog.Fruit) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(f.Name)
	e.FieldStart("price")
	encodePrice(e, f.Price)
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
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// encodeLiquidProjection writes the full liquid shape.
func encodeLiquidProjection(e *jx.Encoder, l *catalog.Liquid) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(l.Name)
	e.FieldStart("price")
	encodePrice(e, l.Price)
	e.FieldStart("description")
	e.Str(l.Description)
	e.FieldStart("image")
	e.Str(l.Image)
	e.ObjEnd()
}

// encodeJuiceProjection writes the nested juice shape used inside orders:
// name/price pairs only, prices divided recursively.
func encodeJuiceProjection(e *jx.Encoder, j *order.Juice) {
	e.ObjStart()
	e.FieldStart("price")
	encodePrice(e, j.Price)
	e.FieldStart("liquid")
	e.ObjStart()
	e.FieldStart("name")
	e.Str(j.Liquid.Name)
	e.FieldStart("price")
	encodePrice(e, j.Liquid.Price)
	e.ObjEnd()
	e.FieldStart("fruits")
	e.ArrStart()
	for _, f := range j.Fruits {
		e.ObjStart()
		e.FieldStart("name")
		e.Str(f.Name)
		e.FieldStart("price")
		encodePrice(e, f.Price)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// decodeBody reads and decodes a JSON request body with fn. A failure maps
// to an InvalidRequest error for the caller to turn into a 400.
func decodeBody(r *http.Request, fn func(d *jx.Decoder) error) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	d := jx.DecodeBytes(body)
	if err := fn(d); err != nil {
		return errors.Wrap(err, "decode body")
	}
	return nil
}

// decodeStrArr decodes a JSON array of strings.
func decodeStrArr(d *jx.Decoder) ([]string, error) {
	var out []string
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}
