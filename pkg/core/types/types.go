// Package types holds the shopping data model shared by the catalog gateway,
// the tool dispatcher, and the client-facing relay.
package types

import "strings"

// Product is a catalog entry, immutable once loaded from the store.
type Product struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Description      string  `json:"description"`
	Color            string  `json:"color"`
	Size             string  `json:"size"`
	ProductCode      string  `json:"product_code"`
	Category         string  `json:"category"`
	ImageURL         string  `json:"image_url"`
	PricebookEntryID string  `json:"pricebook_entry_id"`
}

// Customer identifies the person placing an order.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// SearchFilters narrows a catalog search. Zero values mean "no filter".
type SearchFilters struct {
	Query    string  `json:"query,omitempty"`
	Category string  `json:"category,omitempty"`
	PriceMin float64 `json:"price_min,omitempty"`
	PriceMax float64 `json:"price_max,omitempty"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
}

// Empty reports whether no filter field is set.
func (f SearchFilters) Empty() bool {
	return strings.TrimSpace(f.Query) == "" &&
		strings.TrimSpace(f.Category) == "" &&
		f.PriceMin == 0 && f.PriceMax == 0 &&
		strings.TrimSpace(f.Color) == "" &&
		strings.TrimSpace(f.Size) == ""
}

// OrderItem is one requested line of an order, keyed by pricebook entry.
type OrderItem struct {
	PricebookEntryID string `json:"pricebook_entry_id"`
	Quantity         int    `json:"quantity"`
}

// OrderReceipt is returned by a successful order placement.
type OrderReceipt struct {
	OrderNumber string  `json:"order_number"`
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
	ItemsCount  int     `json:"items_count"`
}

// OrderStatus is one order summary from a status lookup.
type OrderStatus struct {
	OrderNumber   string  `json:"order_number"`
	Status        string  `json:"status"`
	EffectiveDate string  `json:"effective_date"`
	TotalAmount   float64 `json:"total_amount"`
}
