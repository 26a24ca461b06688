package client

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

const cartLoadErrMsg = "Failed to load your cart."

type addCartItemRequest struct {
	BookID   uint `json:"bookId"`
	Quantity int  `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartStore mirrors the session's server-side cart. Totals, discounts and
// stock-adjusted quantities always come from the gateway; on success the
// snapshot is replaced wholesale, on failure it is left untouched.
type CartStore struct {
	mu      sync.RWMutex
	gw      *gateway
	session *Session
	notify  Notifier

	cart     *models.Cart
	errMsg   string
	inflight int
	seq      uint64
}

// begin marks a request in flight and hands out its sequence token.
// Only the response to the newest token is applied; late responses from
// overlapping requests are dropped instead of clobbering fresher state.
func (s *CartStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.seq++
	return s.seq
}

// finish completes the round trip for token. It reports whether the response
// was applied.
func (s *CartStore) finish(token uint64, cart *models.Cart, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		s.inflight--
	}
	if token != s.seq {
		// A newer request (or a Reset) superseded this one.
		return false
	}
	if errMsg != "" {
		s.errMsg = errMsg
		return false
	}
	s.errMsg = ""
	if cart != nil {
		s.cart = cart
	}
	return true
}

// Get refreshes the cart snapshot. Silently does nothing when the session is
// not authenticated; callers gate navigation themselves. On failure the stale
// snapshot stays visible and Err carries a fixed message.
func (s *CartStore) Get(ctx context.Context) {
	if !s.session.IsAuthenticated() {
		return
	}
	token := s.begin()

	var cart models.Cart
	if err := s.gw.do(ctx, http.MethodGet, "/cart", nil, nil, &cart); err != nil {
		s.finish(token, nil, cartLoadErrMsg)
		return
	}
	s.finish(token, &cart, "")
}

// Add puts quantity copies of a book into the cart. Adding an already-carted
// book increments its quantity server-side.
func (s *CartStore) Add(ctx context.Context, bookID uint, quantity int) Result {
	if quantity < 1 {
		return failed("Quantity must be at least 1")
	}
	if !s.session.IsAuthenticated() {
		return failed("Please sign in to use the cart")
	}
	token := s.begin()

	var cart models.Cart
	err := s.gw.do(ctx, http.MethodPost, "/cart", nil,
		addCartItemRequest{BookID: bookID, Quantity: quantity}, &cart)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, nil, msg)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, &cart, "")
	s.notify.Success("Book added to cart")
	return succeeded("Book added to cart")
}

// UpdateItem sets a cart item's quantity. Quantity must stay >= 1; removing
// an item goes through RemoveItem, never through a zero quantity.
func (s *CartStore) UpdateItem(ctx context.Context, itemID uint, quantity int) Result {
	if quantity < 1 {
		return failed("Quantity must be at least 1; remove the item instead")
	}
	if !s.session.IsAuthenticated() {
		return failed("Please sign in to use the cart")
	}
	token := s.begin()

	var cart models.Cart
	err := s.gw.do(ctx, http.MethodPut, "/cart/items/"+strconv.FormatUint(uint64(itemID), 10),
		nil, updateCartItemRequest{Quantity: quantity}, &cart)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, nil, msg)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, &cart, "")
	s.notify.Success("Cart updated")
	return succeeded("Cart updated")
}

// RemoveItem deletes one item by its cart-item id (not its book id).
func (s *CartStore) RemoveItem(ctx context.Context, itemID uint) Result {
	if !s.session.IsAuthenticated() {
		return failed("Please sign in to use the cart")
	}
	token := s.begin()

	var cart models.Cart
	err := s.gw.do(ctx, http.MethodDelete, "/cart/items/"+strconv.FormatUint(uint64(itemID), 10),
		nil, nil, &cart)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, nil, msg)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, &cart, "")
	s.notify.Success("Item removed from cart")
	return succeeded("Item removed from cart")
}

// Clear empties the whole cart. The UI confirms with the user first.
func (s *CartStore) Clear(ctx context.Context) Result {
	if !s.session.IsAuthenticated() {
		return failed("Please sign in to use the cart")
	}
	token := s.begin()

	var cart models.Cart
	err := s.gw.do(ctx, http.MethodDelete, "/cart", nil, nil, &cart)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, nil, msg)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, &cart, "")
	s.notify.Success("Cart cleared")
	return succeeded("Cart cleared")
}

// Reset restores the initial state without a network call. Invoked on logout
// so the next session never sees this cart. In-flight responses are dropped.
func (s *CartStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = nil
	s.errMsg = ""
	s.inflight = 0
	s.seq++
}

// Cart returns a copy of the current snapshot, or nil.
func (s *CartStore) Cart() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	cart := *s.cart
	cart.Items = append([]models.CartItem(nil), s.cart.Items...)
	return &cart
}

func (s *CartStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Err returns the last operation's error message, empty when healthy.
func (s *CartStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
