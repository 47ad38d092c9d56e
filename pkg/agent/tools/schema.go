package tools

// Tool names advertised to the realtime model.
const (
	NameSearchProducts = "search_products"
	NameAddToCart      = "add_to_cart"
	NamePlaceOrder     = "place_salesforce_order"
	NameLookupOrder    = "lookup_order_status"
)

// Schema is one function-tool definition in the shape the realtime API
// expects inside session.update.
type Schema struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Catalog returns the tool schemas exposed to the upstream service.
func Catalog() []Schema {
	return []Schema{
		{
			Type:        "function",
			Name:        NameSearchProducts,
			Description: "Search for products in the catalog by category, price range, color, or size",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Free-text search query (e.g., 'shoes', 'wallet')",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Product category",
						"enum":        []string{"Accessories", "Footwear", "Watches"},
					},
					"price_max": map[string]any{
						"type":        "number",
						"description": "Maximum price in USD",
					},
					"price_min": map[string]any{
						"type":        "number",
						"description": "Minimum price in USD",
					},
					"color": map[string]any{
						"type":        "string",
						"description": "Product color preference",
					},
					"size": map[string]any{
						"type":        "string",
						"description": "Product size or size range",
					},
				},
				"required": []string{},
			},
		},
		{
			Type:        "function",
			Name:        NameAddToCart,
			Description: "Add a product to the shopping cart. First search for products, then use the exact product name from search results.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product_name": map[string]any{
						"type":        "string",
						"description": "Name of the product to add (e.g., 'Men's Sports Running Shoes - Grey')",
					},
					"quantity": map[string]any{
						"type":        "integer",
						"description": "Quantity to add",
						"minimum":     1,
						"default":     1,
					},
				},
				"required": []string{"product_name"},
			},
		},
		{
			Type:        "function",
			Name:        NamePlaceOrder,
			Description: "Create an order in the store backend with cart items. MUST confirm with customer before calling.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"customer": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":  map[string]any{"type": "string", "description": "Customer full name"},
							"email": map[string]any{"type": "string", "description": "Customer email address"},
							"phone": map[string]any{"type": "string", "description": "Customer phone number"},
						},
						"required": []string{"name", "email"},
					},
					"items": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"pricebook_entry_id": map[string]any{
									"type":        "string",
									"description": "PricebookEntry ID",
								},
								"quantity": map[string]any{
									"type":    "integer",
									"minimum": 1,
								},
							},
							"required": []string{"pricebook_entry_id", "quantity"},
						},
					},
					"checkout_source": map[string]any{
						"type":    "string",
						"enum":    []string{"Voice", "Web"},
						"default": "Voice",
					},
				},
				"required": []string{"customer", "items"},
			},
		},
		{
			Type:        "function",
			Name:        NameLookupOrder,
			Description: "Look up order status by order number or customer email",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"order_number": map[string]any{
						"type":        "string",
						"description": "Order number (e.g., 00000103)",
					},
					"email": map[string]any{
						"type":        "string",
						"description": "Customer email to find their orders",
					},
				},
				"required": []string{},
			},
		},
	}
}
