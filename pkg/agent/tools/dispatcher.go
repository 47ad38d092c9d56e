// Package tools executes exactly one catalog/order operation per tool call
// from the realtime model, converting every failure into a result the
// conversation can recover from.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/catalog"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/session"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/interpret"
)

// Call is one tool invocation emitted by the upstream service. It is
// consumed exactly once.
type Call struct {
	CallID    string
	Name      string
	Arguments json.RawMessage
}

// Result is the outcome shape sent back upstream (serialized) and consumed
// by the relay for state-sync notifications.
type Result struct {
	Success bool
	Message string
	Fields  map[string]any
}

// MarshalJSON flattens Fields next to success/message.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["success"] = r.Success
	if r.Message != "" {
		out["message"] = r.Message
	}
	return json.Marshal(out)
}

func failure(err error) Result {
	message := "tool execution failed"
	var ce *core.Error
	if errors.As(err, &ce) {
		message = ce.Message
	} else if err != nil {
		message = err.Error()
	}
	return Result{Success: false, Message: message}
}

// Dispatcher maps tool calls onto the catalog gateway and applies their side
// effects to the session state. It is the only cart writer; the relay invokes
// it from the single goroutine that owns upstream-event handling, which keeps
// mutations serialized per session.
type Dispatcher struct {
	gateway     catalog.Gateway
	interpreter interpret.Interpreter
	logger      *slog.Logger
}

func NewDispatcher(gateway catalog.Gateway, interpreter interpret.Interpreter, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{gateway: gateway, interpreter: interpreter, logger: logger}
}

// Dispatch executes the call against state. It never returns an error: every
// fault becomes a failure Result so the conversation continues.
func (d *Dispatcher) Dispatch(ctx context.Context, state *session.State, call Call) Result {
	switch call.Name {
	case NameSearchProducts:
		return d.searchProducts(ctx, call.Arguments)
	case NameAddToCart:
		return d.addToCart(ctx, state, call.Arguments)
	case NamePlaceOrder:
		return d.placeOrder(ctx, state, call.Arguments)
	case NameLookupOrder:
		return d.lookupOrder(ctx, call.Arguments)
	default:
		d.logger.Warn("unknown tool requested", "tool", call.Name, "call_id", call.CallID)
		return failure(core.NewUnknownToolError(call.Name))
	}
}

// looksLikeSentence is the heuristic gate for LLM filter extraction: anything
// longer than two words is treated as natural language rather than a keyword.
func looksLikeSentence(query string) bool {
	return len(strings.Fields(query)) > 2
}

func (d *Dispatcher) searchProducts(ctx context.Context, args json.RawMessage) Result {
	var filters types.SearchFilters
	if err := decodeArgs(args, &filters); err != nil {
		return failure(err)
	}

	if d.interpreter != nil && looksLikeSentence(filters.Query) {
		extracted, err := d.interpreter.Interpret(ctx, filters.Query)
		if err != nil {
			// Fall back to treating the raw text as a keyword filter.
			d.logger.Warn("query interpretation failed, using raw keyword", "error", err)
		} else {
			filters = extracted
		}
	}

	products, err := d.gateway.SearchProducts(ctx, filters)
	if err != nil {
		return failure(core.NewGatewayError(err))
	}
	if products == nil {
		products = []types.Product{}
	}
	return Result{
		Success: true,
		Fields: map[string]any{
			"products": products,
			"count":    len(products),
		},
	}
}

type addToCartArgs struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

func (d *Dispatcher) addToCart(ctx context.Context, state *session.State, args json.RawMessage) Result {
	var a addToCartArgs
	if err := decodeArgs(args, &a); err != nil {
		return failure(err)
	}
	if strings.TrimSpace(a.ProductName) == "" {
		return failure(core.NewInvalidArgumentsError("product_name is required"))
	}
	if a.Quantity < 1 {
		a.Quantity = 1
	}

	product, err := d.gateway.ProductByName(ctx, a.ProductName)
	if errors.Is(err, catalog.ErrNotFound) {
		return Result{Success: false, Message: "Product not found"}
	}
	if err != nil {
		return failure(core.NewGatewayError(err))
	}

	_, total := state.AddToCart(product, a.Quantity)
	return Result{
		Success: true,
		Message: fmt.Sprintf("Added %dx %s to cart", a.Quantity, product.Name),
		Fields:  map[string]any{"cart_total": total},
	}
}

type placeOrderArgs struct {
	Customer       types.Customer    `json:"customer"`
	Items          []types.OrderItem `json:"items"`
	CheckoutSource string            `json:"checkout_source"`
}

func (d *Dispatcher) placeOrder(ctx context.Context, state *session.State, args json.RawMessage) Result {
	var a placeOrderArgs
	if err := decodeArgs(args, &a); err != nil {
		return failure(err)
	}
	if strings.TrimSpace(a.Customer.Name) == "" || strings.TrimSpace(a.Customer.Email) == "" {
		return failure(core.NewInvalidArgumentsError("customer name and email are required"))
	}
	if len(a.Items) == 0 {
		return failure(core.NewInvalidArgumentsError("order items are required"))
	}
	for _, item := range a.Items {
		if strings.TrimSpace(item.PricebookEntryID) == "" || item.Quantity < 1 {
			return failure(core.NewInvalidArgumentsError("each item needs a pricebook_entry_id and a positive quantity"))
		}
	}
	if a.CheckoutSource == "" {
		a.CheckoutSource = "Voice"
	}

	receipt, err := d.gateway.PlaceOrder(ctx, a.Customer, a.Items, a.CheckoutSource)
	if err != nil {
		// No session mutation on failure.
		return failure(core.NewGatewayError(err))
	}

	state.CompleteOrder(a.Customer, receipt.OrderNumber)
	return Result{
		Success: true,
		Fields: map[string]any{
			"order_number": receipt.OrderNumber,
			"order_id":     receipt.OrderID,
			"total_amount": receipt.TotalAmount,
			"items_count":  receipt.ItemsCount,
		},
	}
}

type lookupOrderArgs struct {
	OrderNumber string `json:"order_number"`
	Email       string `json:"email"`
}

func (d *Dispatcher) lookupOrder(ctx context.Context, args json.RawMessage) Result {
	var a lookupOrderArgs
	if err := decodeArgs(args, &a); err != nil {
		return failure(err)
	}

	if a.OrderNumber != "" {
		status, err := d.gateway.OrderStatus(ctx, a.OrderNumber)
		if errors.Is(err, catalog.ErrNotFound) {
			return Result{Success: false, Message: "No orders found"}
		}
		if err != nil {
			return failure(core.NewGatewayError(err))
		}
		return Result{
			Success: true,
			Fields: map[string]any{
				"order_number":   status.OrderNumber,
				"status":         status.Status,
				"effective_date": status.EffectiveDate,
				"total_amount":   status.TotalAmount,
			},
		}
	}

	if a.Email != "" {
		orders, err := d.gateway.OrdersByEmail(ctx, a.Email)
		if err != nil {
			return failure(core.NewGatewayError(err))
		}
		if len(orders) > 0 {
			return Result{Success: true, Fields: map[string]any{"orders": orders}}
		}
	}

	return Result{Success: false, Message: "No orders found"}
}

func decodeArgs(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return core.NewInvalidArgumentsError(fmt.Sprintf("malformed tool arguments: %v", err))
	}
	return nil
}
