package handlers

import (
	"net/http"
	"strings"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

// PlaceOrderHandler serves POST /api/orders.
type PlaceOrderHandler struct {
	Gateway catalog.Gateway
}

type placeOrderRequest struct {
	Customer       types.Customer    `json:"customer"`
	Items          []types.OrderItem `json:"items"`
	CheckoutSource string            `json:"checkout_source"`
}

func (h PlaceOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Customer.Name) == "" || strings.TrimSpace(req.Customer.Email) == "" {
		writeDetail(w, http.StatusBadRequest, "customer name and email are required")
		return
	}
	if len(req.Items) == 0 {
		writeDetail(w, http.StatusBadRequest, "order items are required")
		return
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.PricebookEntryID) == "" || item.Quantity < 1 {
			writeDetail(w, http.StatusBadRequest, "each item needs a pricebook_entry_id and a positive quantity")
			return
		}
	}
	if req.CheckoutSource == "" {
		req.CheckoutSource = "Web"
	}

	receipt, err := h.Gateway.PlaceOrder(r.Context(), req.Customer, req.Items, req.CheckoutSource)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// CustomerOrdersHandler serves GET /api/orders/customer/{email}.
type CustomerOrdersHandler struct {
	Gateway catalog.Gateway
}

func (h CustomerOrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PathValue("email"))
	if email == "" {
		writeDetail(w, http.StatusBadRequest, "email is required")
		return
	}
	orders, err := h.Gateway.OrdersByEmail(r.Context(), email)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if orders == nil {
		orders = []types.OrderStatus{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}
