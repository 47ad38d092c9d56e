// Package catalog is the gateway to the product catalog and order backend.
// The orchestrator only depends on the Gateway interface; the Postgres store
// in this package is the production implementation.
package catalog

import (
	"context"
	"errors"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

// ErrNotFound is returned when a product or order lookup matches nothing.
var ErrNotFound = errors.New("catalog: not found")

// Gateway exposes the synchronous catalog/order operations the tool
// dispatcher and the REST handlers consume. Reads are safe to retry;
// PlaceOrder is not.
type Gateway interface {
	SearchProducts(ctx context.Context, filters types.SearchFilters) ([]types.Product, error)
	ProductByID(ctx context.Context, id string) (types.Product, error)
	ProductByName(ctx context.Context, name string) (types.Product, error)
	Categories(ctx context.Context) ([]string, error)

	PlaceOrder(ctx context.Context, customer types.Customer, items []types.OrderItem, checkoutSource string) (types.OrderReceipt, error)
	OrderStatus(ctx context.Context, orderNumber string) (types.OrderStatus, error)
	OrdersByEmail(ctx context.Context, email string) ([]types.OrderStatus, error)

	Ping(ctx context.Context) error
}

// PaymentProcessor authorizes payment for an order total. Implementations
// must treat a failure as non-fatal to the order itself.
type PaymentProcessor interface {
	Authorize(ctx context.Context, amount float64, currency, orderNumber, customerEmail string) (reference string, err error)
}

// Mailer delivers the order confirmation. Best effort.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, receipt types.OrderReceipt) error
}
