package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/sessions"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/config"
)

type stubGateway struct {
	products []types.Product
	orders   []types.OrderStatus
	receipt  types.OrderReceipt

	searchErr error
	placeErr  error

	lastFilters  types.SearchFilters
	lastCustomer types.Customer
	lastItems    []types.OrderItem
	lastSource   string
}

func (g *stubGateway) SearchProducts(_ context.Context, filters types.SearchFilters) ([]types.Product, error) {
	g.lastFilters = filters
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	if filters.Category == "" {
		return g.products, nil
	}
	var out []types.Product
	for _, p := range g.products {
		if strings.EqualFold(p.Category, filters.Category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *stubGateway) ProductByID(_ context.Context, id string) (types.Product, error) {
	for _, p := range g.products {
		if p.ID == id {
			return p, nil
		}
	}
	return types.Product{}, catalog.ErrNotFound
}

func (g *stubGateway) ProductByName(_ context.Context, name string) (types.Product, error) {
	for _, p := range g.products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return types.Product{}, catalog.ErrNotFound
}

func (g *stubGateway) Categories(context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range g.products {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (g *stubGateway) PlaceOrder(_ context.Context, customer types.Customer, items []types.OrderItem, source string) (types.OrderReceipt, error) {
	g.lastCustomer = customer
	g.lastItems = items
	g.lastSource = source
	if g.placeErr != nil {
		return types.OrderReceipt{}, g.placeErr
	}
	return g.receipt, nil
}

func (g *stubGateway) OrderStatus(_ context.Context, orderNumber string) (types.OrderStatus, error) {
	for _, o := range g.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return types.OrderStatus{}, catalog.ErrNotFound
}

func (g *stubGateway) OrdersByEmail(context.Context, string) ([]types.OrderStatus, error) {
	return g.orders, nil
}

func (g *stubGateway) Ping(context.Context) error { return nil }

func demoProducts() []types.Product {
	return []types.Product{
		{ID: "p1", Name: "Leather Belt", Price: 39.99, Category: "belts", PricebookEntryID: "pbe1"},
		{ID: "p2", Name: "Canvas Wallet", Price: 25, Category: "wallets", PricebookEntryID: "pbe2"},
		{ID: "p3", Name: "Suede Belt", Price: 59.5, Category: "belts", PricebookEntryID: "pbe3"},
	}
}

func testMux(gw catalog.Gateway, reg *sessions.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /api/products", ListProductsHandler{Gateway: gw})
	mux.Handle("GET /api/products/{id}", GetProductHandler{Gateway: gw})
	mux.Handle("POST /api/products/search", SearchProductsHandler{Gateway: gw})
	mux.Handle("GET /api/categories", CategoriesHandler{Gateway: gw})
	cart := CartHandler{Registry: reg, Gateway: gw}
	mux.HandleFunc("POST /api/cart/{session}/add", cart.Add)
	mux.HandleFunc("GET /api/cart/{session}", cart.Get)
	mux.HandleFunc("PUT /api/cart/{session}/items/{product_id}", cart.SetQuantity)
	mux.HandleFunc("DELETE /api/cart/{session}/items/{product_id}", cart.RemoveItem)
	mux.HandleFunc("DELETE /api/cart/{session}", cart.Clear)
	mux.Handle("POST /api/orders", PlaceOrderHandler{Gateway: gw})
	mux.Handle("GET /api/orders/customer/{email}", CustomerOrdersHandler{Gateway: gw})
	return mux
}

func newTestRegistry(t *testing.T) *sessions.Registry {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	return sessions.NewRegistry(nil, nil, logger)
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-6
}

func decodeResp(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestListProducts(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodGet, "/api/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Products []types.Product `json:"products"`
		Count    int             `json:"count"`
	}
	decodeResp(t, rec, &resp)
	if resp.Count != 3 || len(resp.Products) != 3 {
		t.Fatalf("count = %d, products = %d, want 3", resp.Count, len(resp.Products))
	}
}

func TestListProductsCategoryAndLimit(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodGet, "/api/products?category=belts&limit=1", nil)
	var resp struct {
		Products []types.Product `json:"products"`
		Count    int             `json:"count"`
	}
	decodeResp(t, rec, &resp)
	if gw.lastFilters.Category != "belts" {
		t.Fatalf("category filter = %q, want belts", gw.lastFilters.Category)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1 after limit", resp.Count)
	}
}

func TestGetProductNotFound(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodGet, "/api/products/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp map[string]string
	decodeResp(t, rec, &resp)
	if resp["detail"] != "not found" {
		t.Fatalf("detail = %q, want %q", resp["detail"], "not found")
	}
}

func TestSearchProductsForwardsFilters(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodPost, "/api/products/search", types.SearchFilters{Query: "belt", PriceMax: 50})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gw.lastFilters.Query != "belt" || gw.lastFilters.PriceMax != 50 {
		t.Fatalf("filters not forwarded: %+v", gw.lastFilters)
	}
}

func TestSearchProductsRejectsBadBody(t *testing.T) {
	gw := &stubGateway{}
	mux := testMux(gw, newTestRegistry(t))

	req := httptest.NewRequest(http.MethodPost, "/api/products/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCategories(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodGet, "/api/categories", nil)
	var resp struct {
		Categories []string `json:"categories"`
	}
	decodeResp(t, rec, &resp)
	if len(resp.Categories) != 2 {
		t.Fatalf("categories = %v, want belts and wallets", resp.Categories)
	}
}

func TestCartAddMergesDuplicates(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	reg := newTestRegistry(t)
	mux := testMux(gw, reg)

	doJSON(t, mux, http.MethodPost, "/api/cart/s1/add", cartAddRequest{ProductID: "p1", Quantity: 1})
	rec := doJSON(t, mux, http.MethodPost, "/api/cart/s1/add", cartAddRequest{ProductID: "p1", Quantity: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Cart  types.Cart `json:"cart"`
		Total float64    `json:"total"`
	}
	decodeResp(t, rec, &resp)
	if len(resp.Cart) != 1 {
		t.Fatalf("cart lines = %d, want 1 merged line", len(resp.Cart))
	}
	if resp.Cart[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", resp.Cart[0].Quantity)
	}
	if !closeTo(resp.Total, 39.99*3) {
		t.Fatalf("total = %v, want %v", resp.Total, 39.99*3)
	}
}

func TestCartAddClampsQuantity(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodPost, "/api/cart/s1/add", cartAddRequest{ProductID: "p2", Quantity: -4})
	var resp struct {
		Cart types.Cart `json:"cart"`
	}
	decodeResp(t, rec, &resp)
	if len(resp.Cart) != 1 || resp.Cart[0].Quantity != 1 {
		t.Fatalf("cart = %+v, want single line with quantity 1", resp.Cart)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodPost, "/api/cart/s1/add", cartAddRequest{ProductID: "ghost", Quantity: 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCartLifecycle(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	reg := newTestRegistry(t)
	mux := testMux(gw, reg)

	doJSON(t, mux, http.MethodPost, "/api/cart/s1/add", cartAddRequest{ProductID: "p1", Quantity: 1})
	doJSON(t, mux, http.MethodPost, "/api/cart/s1/add", cartAddRequest{ProductID: "p2", Quantity: 1})

	rec := doJSON(t, mux, http.MethodPut, "/api/cart/s1/items/p2", cartQuantityRequest{Quantity: 4})
	var resp struct {
		Cart  types.Cart `json:"cart"`
		Total float64    `json:"total"`
	}
	decodeResp(t, rec, &resp)
	if !closeTo(resp.Total, 39.99+4*25) {
		t.Fatalf("total after quantity update = %v, want %v", resp.Total, 39.99+4*25)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/cart/s1/items/p1", nil)
	decodeResp(t, rec, &resp)
	if len(resp.Cart) != 1 || resp.Cart[0].Product.ID != "p2" {
		t.Fatalf("cart after remove = %+v, want only p2", resp.Cart)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/api/cart/s1", nil)
	decodeResp(t, rec, &resp)
	if len(resp.Cart) != 0 || resp.Total != 0 {
		t.Fatalf("cart after clear = %+v total %v, want empty", resp.Cart, resp.Total)
	}
}

func TestCartIsolatedPerSession(t *testing.T) {
	gw := &stubGateway{products: demoProducts()}
	mux := testMux(gw, newTestRegistry(t))

	doJSON(t, mux, http.MethodPost, "/api/cart/s1/add", cartAddRequest{ProductID: "p1", Quantity: 1})

	rec := doJSON(t, mux, http.MethodGet, "/api/cart/s2", nil)
	var resp struct {
		Cart types.Cart `json:"cart"`
	}
	decodeResp(t, rec, &resp)
	if len(resp.Cart) != 0 {
		t.Fatalf("session s2 cart = %+v, want empty", resp.Cart)
	}
}

func TestPlaceOrder(t *testing.T) {
	gw := &stubGateway{receipt: types.OrderReceipt{OrderNumber: "00000101", OrderID: "o1", TotalAmount: 39.99, ItemsCount: 1}}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodPost, "/api/orders", placeOrderRequest{
		Customer: types.Customer{Name: "Dana", Email: "dana@example.com"},
		Items:    []types.OrderItem{{PricebookEntryID: "pbe1", Quantity: 1}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var receipt types.OrderReceipt
	decodeResp(t, rec, &receipt)
	if receipt.OrderNumber != "00000101" {
		t.Fatalf("order number = %q", receipt.OrderNumber)
	}
	if gw.lastSource != "Web" {
		t.Fatalf("checkout source = %q, want Web default", gw.lastSource)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	gw := &stubGateway{}
	mux := testMux(gw, newTestRegistry(t))

	cases := []struct {
		name string
		req  placeOrderRequest
	}{
		{"missing customer", placeOrderRequest{Items: []types.OrderItem{{PricebookEntryID: "pbe1", Quantity: 1}}}},
		{"no items", placeOrderRequest{Customer: types.Customer{Name: "Dana", Email: "d@e.com"}}},
		{"bad item", placeOrderRequest{
			Customer: types.Customer{Name: "Dana", Email: "d@e.com"},
			Items:    []types.OrderItem{{PricebookEntryID: "", Quantity: 1}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/orders", tc.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestPlaceOrderGatewayFailure(t *testing.T) {
	gw := &stubGateway{placeErr: context.DeadlineExceeded}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodPost, "/api/orders", placeOrderRequest{
		Customer: types.Customer{Name: "Dana", Email: "dana@example.com"},
		Items:    []types.OrderItem{{PricebookEntryID: "pbe1", Quantity: 1}},
	})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestCustomerOrders(t *testing.T) {
	gw := &stubGateway{orders: []types.OrderStatus{{OrderNumber: "00000101", Status: "Draft"}}}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodGet, "/api/orders/customer/dana@example.com", nil)
	var resp struct {
		Orders []types.OrderStatus `json:"orders"`
		Count  int                 `json:"count"`
	}
	decodeResp(t, rec, &resp)
	if resp.Count != 1 || resp.Orders[0].Status != "Draft" {
		t.Fatalf("orders = %+v", resp)
	}
}

func TestReadyHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	ReadyHandler{
		Config:  config.Config{OpenAIAPIKey: "sk-test"},
		Gateway: &stubGateway{},
	}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	ReadyHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var resp struct {
		OK     bool     `json:"ok"`
		Issues []string `json:"issues"`
	}
	decodeResp(t, rec, &resp)
	if resp.OK || len(resp.Issues) != 2 {
		t.Fatalf("ready response = %+v, want two issues", resp)
	}
}

func TestCustomerOrdersEmpty(t *testing.T) {
	gw := &stubGateway{}
	mux := testMux(gw, newTestRegistry(t))

	rec := doJSON(t, mux, http.MethodGet, "/api/orders/customer/nobody@example.com", nil)
	var resp struct {
		Orders []types.OrderStatus `json:"orders"`
		Count  int                 `json:"count"`
	}
	decodeResp(t, rec, &resp)
	if resp.Count != 0 || len(resp.Orders) != 0 {
		t.Fatalf("orders = %+v, want empty", resp)
	}
}
