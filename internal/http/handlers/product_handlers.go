package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

func productResponse(p models.Product) ProductResponse {
	return ProductResponse{
		Product:        p,
		LowStock:       p.LowStock(),
		OutOfStock:     p.OutOfStock(),
		FormattedPrice: formatter.Currency(p.Price),
	}
}

// ListProductsHandler godoc
// @Summary List catalogue products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains"
// @Param category query string false "Exact category"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param low_stock query bool false "Only products at or under their stock threshold"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit, max 100"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/products [get]
func ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := analytics.ProductFilter{Name: q.Get("name"), Category: q.Get("category")}

	var err error
	if filter.MinPrice, err = queryFloat(q, "min_price"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if filter.MaxPrice, err = queryFloat(q, "max_price"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		http.Error(w, "min_price cannot be greater than max_price", http.StatusBadRequest)
		return
	}
	if filter.LowStock, err = queryBool(q, "low_stock"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if filter.Offset, filter.Limit, err = pagination(q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, err := backendClient.ListProducts(r.Context())
	if err != nil {
		backendError(w, err, "products")
		return
	}

	page, total := analytics.FilterProducts(products, filter)
	data := make([]ProductResponse, 0, len(page))
	for _, p := range page {
		data = append(data, productResponse(p))
	}
	respond(w, ProductsSearchResult{Data: data, Meta: pageMeta(total, filter.Offset, filter.Limit)})
}

// GetProductHandler godoc
// @Summary Product detail with sales performance
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} ProductDetailResponse
// @Failure 404 {string} string "Product not found"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/products/{id} [get]
func GetProductHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := backendClient.GetProduct(r.Context(), id)
	if err != nil {
		backendError(w, err, "product")
		return
	}
	txs, err := backendClient.ListTransactions(r.Context())
	if err != nil {
		backendError(w, err, "transactions")
		return
	}

	perf := analytics.ProductStats(txs, product)
	respond(w, ProductDetailResponse{
		Product:          productResponse(product),
		Performance:      perf,
		FormattedRevenue: formatter.Currency(perf.Revenue),
	})
}
