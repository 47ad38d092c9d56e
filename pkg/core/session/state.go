// Package session holds the mutable per-session shopping state. Exactly one
// upstream client and at most one relay share a State; every mutation goes
// through a method that takes the internal lock, and reads hand out copies so
// display paths never observe partial updates.
package session

import (
	"sync"
	"time"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

// LogEntry is one line of the conversation log.
type LogEntry struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// State is the per-session record. The zero value is not usable; construct
// with New.
type State struct {
	mu sync.Mutex

	sessionID   string
	cart        types.Cart
	customer    *types.Customer
	orderNumber string
	log         []LogEntry
	audioMode   bool
}

func New(sessionID string) *State {
	return &State{sessionID: sessionID}
}

func (s *State) SessionID() string { return s.sessionID }

// AddToCart merges the product into the cart and returns the new total and a
// snapshot of the cart after the mutation.
func (s *State) AddToCart(product types.Product, quantity int) (types.Cart, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Add(product, quantity)
	return s.cart.Clone(), s.cart.Total()
}

// RemoveFromCart drops a line by product id.
func (s *State) RemoveFromCart(productID string) types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.Remove(productID)
	return s.cart.Clone()
}

// SetCartQuantity replaces a line's quantity (<=0 removes).
func (s *State) SetCartQuantity(productID string, quantity int) types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = s.cart.SetQuantity(productID, quantity)
	return s.cart.Clone()
}

// ClearCart empties the cart without touching order state.
func (s *State) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
}

// Cart returns a consistent snapshot.
func (s *State) Cart() types.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// CartTotal computes the total over a consistent snapshot.
func (s *State) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// CompleteOrder records a successful placement: customer and order number are
// set and the cart is cleared in the same critical section, so no reader can
// observe an order number alongside a stale cart.
func (s *State) CompleteOrder(customer types.Customer, orderNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customer = &customer
	s.orderNumber = orderNumber
	s.cart = nil
}

// Customer returns a copy of the stored customer, if any.
func (s *State) Customer() (types.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer == nil {
		return types.Customer{}, false
	}
	return *s.customer, true
}

// OrderNumber returns the order number from the last successful placement.
func (s *State) OrderNumber() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderNumber, s.orderNumber != ""
}

// AppendLog records one conversation turn.
func (s *State) AppendLog(speaker, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, LogEntry{Speaker: speaker, Text: text, Timestamp: time.Now().UTC()})
}

// Log returns a copy of the conversation log.
func (s *State) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, len(s.log))
	copy(out, s.log)
	return out
}

// SetAudioMode flips the playable-audio gate.
func (s *State) SetAudioMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audioMode = on
}

func (s *State) AudioMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audioMode
}
