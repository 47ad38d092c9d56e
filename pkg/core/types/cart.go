package types

// CartLine pairs a product with a quantity. A cart holds at most one line per
// product id; repeated adds merge into the existing line.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is an ordered sequence of cart lines. It is not safe for concurrent
// use; callers serialize access through session.State.
type Cart []CartLine

// Add merges product into the cart, incrementing the quantity of an existing
// line for the same product id instead of appending a duplicate.
func (c Cart) Add(product Product, quantity int) Cart {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c {
		if c[i].Product.ID == product.ID {
			c[i].Quantity += quantity
			return c
		}
	}
	return append(c, CartLine{Product: product, Quantity: quantity})
}

// Remove drops the line for the given product id, if present.
func (c Cart) Remove(productID string) Cart {
	out := c[:0]
	for _, line := range c {
		if line.Product.ID != productID {
			out = append(out, line)
		}
	}
	return out
}

// SetQuantity replaces a line's quantity; zero or negative removes the line.
func (c Cart) SetQuantity(productID string, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	for i := range c {
		if c[i].Product.ID == productID {
			c[i].Quantity = quantity
			break
		}
	}
	return c
}

// Total returns the price of the cart's contents.
func (c Cart) Total() float64 {
	var total float64
	for _, line := range c {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

// Clone returns an independent copy so readers never observe a cart being
// mutated underneath them.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Items converts the cart into order items for placement.
func (c Cart) Items() []OrderItem {
	items := make([]OrderItem, 0, len(c))
	for _, line := range c {
		items = append(items, OrderItem{
			PricebookEntryID: line.Product.PricebookEntryID,
			Quantity:         line.Quantity,
		})
	}
	return items
}
