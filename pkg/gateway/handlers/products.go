package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

// ListProductsHandler serves GET /api/products with optional category and
// limit parameters.
type ListProductsHandler struct {
	Gateway catalog.Gateway
}

func (h ListProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filters := types.SearchFilters{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}
	products, err := h.Gateway.SearchProducts(r.Context(), filters)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if limit, convErr := strconv.Atoi(raw); convErr == nil && limit >= 0 && limit < len(products) {
			products = products[:limit]
		}
	}
	if products == nil {
		products = []types.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
	})
}

// GetProductHandler serves GET /api/products/{id}.
type GetProductHandler struct {
	Gateway catalog.Gateway
}

func (h GetProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	product, err := h.Gateway.ProductByID(r.Context(), id)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// SearchProductsHandler serves POST /api/products/search with a
// SearchFilters body.
type SearchProductsHandler struct {
	Gateway catalog.Gateway
}

func (h SearchProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var filters types.SearchFilters
	if !decodeBody(w, r, &filters) {
		return
	}
	products, err := h.Gateway.SearchProducts(r.Context(), filters)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if products == nil {
		products = []types.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
	})
}

// CategoriesHandler serves GET /api/categories.
type CategoriesHandler struct {
	Gateway catalog.Gateway
}

func (h CategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Gateway.Categories(r.Context())
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}
