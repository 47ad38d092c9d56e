// Package server assembles the HTTP surface: REST catalog/cart/order
// endpoints, health probes, and the websocket chat endpoint.
package server

import (
	"log/slog"
	"net/http"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/sessions"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/config"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/handlers"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/mw"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux

	gateway  catalog.Gateway
	registry *sessions.Registry
}

func New(cfg config.Config, logger *slog.Logger, gateway catalog.Gateway, registry *sessions.Registry) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		gateway:  gateway,
		registry: registry,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg, Gateway: s.gateway})

	s.mux.Handle("GET /api/products", handlers.ListProductsHandler{Gateway: s.gateway})
	s.mux.Handle("GET /api/products/{id}", handlers.GetProductHandler{Gateway: s.gateway})
	s.mux.Handle("POST /api/products/search", handlers.SearchProductsHandler{Gateway: s.gateway})
	s.mux.Handle("GET /api/categories", handlers.CategoriesHandler{Gateway: s.gateway})

	cart := handlers.CartHandler{Registry: s.registry, Gateway: s.gateway}
	s.mux.HandleFunc("POST /api/cart/{session}/add", cart.Add)
	s.mux.HandleFunc("GET /api/cart/{session}", cart.Get)
	s.mux.HandleFunc("PUT /api/cart/{session}/items/{product_id}", cart.SetQuantity)
	s.mux.HandleFunc("DELETE /api/cart/{session}/items/{product_id}", cart.RemoveItem)
	s.mux.HandleFunc("DELETE /api/cart/{session}", cart.Clear)

	s.mux.Handle("POST /api/orders", handlers.PlaceOrderHandler{Gateway: s.gateway})
	s.mux.Handle("GET /api/orders/customer/{email}", handlers.CustomerOrdersHandler{Gateway: s.gateway})

	s.mux.Handle("GET /ws/chat/{session_id}", handlers.ChatHandler{
		Config:   s.cfg,
		Registry: s.registry,
		Logger:   s.logger,
	})
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg.CORSAllowedOrigins, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}
