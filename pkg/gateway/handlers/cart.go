package handlers

import (
	"net/http"
	"strings"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/sessions"
)

// CartHandler serves the per-session REST cart endpoints. The cart lives on
// the same session state the websocket relay mutates, so a cart built over
// REST is visible to the voice assistant and vice versa.
type CartHandler struct {
	Registry *sessions.Registry
	Gateway  catalog.Gateway
}

type cartAddRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session")
	var req cartAddRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeDetail(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := h.Gateway.ProductByID(r.Context(), req.ProductID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	state := h.Registry.StateFor(sessionID)
	cart, total := state.AddToCart(product, req.Quantity)
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart, "total": total})
}

func (h CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := h.Registry.StateFor(r.PathValue("session"))
	writeJSON(w, http.StatusOK, map[string]any{
		"cart":  state.Cart(),
		"total": state.CartTotal(),
	})
}

func (h CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	state := h.Registry.StateFor(r.PathValue("session"))
	var req cartQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cart := state.SetCartQuantity(r.PathValue("product_id"), req.Quantity)
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart, "total": state.CartTotal()})
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	state := h.Registry.StateFor(r.PathValue("session"))
	cart := state.RemoveFromCart(r.PathValue("product_id"))
	writeJSON(w, http.StatusOK, map[string]any{"cart": cart, "total": state.CartTotal()})
}

func (h CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	state := h.Registry.StateFor(r.PathValue("session"))
	state.ClearCart()
	writeJSON(w, http.StatusOK, map[string]any{"cart": state.Cart(), "total": 0.0})
}
