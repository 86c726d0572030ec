// Package api exposes the juice shop over an HTTP JSON surface and owns the
// wire projections of every entity.
package api

import (
	"net/http"

	"github.com/xenking/juice-shop/internal/catalog"
	"github.com/xenking/juice-shop/internal/order"
)

// Handler serves the /v1 API, delegating business logic to the catalog
// repository and the order composer.
type Handler struct {
	catalog  catalog.Repository
	orders   order.Repository
	composer *order.Composer
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(cat catalog.Repository, orders order.Repository, composer *order.Composer) *Handler {
	return &Handler{
		catalog:  cat,
		orders:   orders,
		composer: composer,
	}
}

// Routes returns the API route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/fruits", h.listFruits)
	mux.HandleFunc("PUT /v1/fruits/store", h.storeFruit)
	mux.HandleFunc("GET /v1/liquids", h.listLiquids)
	mux.HandleFunc("PUT /v1/liquids/store", h.storeLiquid)
	mux.HandleFunc("GET /v1/juices", h.listJuices)
	mux.HandleFunc("POST /v1/juice/description", h.describeJuice)
	mux.HandleFunc("POST /v1/order", h.placeOrder)
	mux.HandleFunc("GET /v1/order/{payment_id}", h.getOrder)
	mux.HandleFunc("PUT /v1/order/{payment_id}", h.updatePayment)

	return mux
}
