package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

const ordersLoadErrMsg = "Failed to load orders."

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// orderStatusEvent mirrors the gateway's websocket push payload.
type orderStatusEvent struct {
	OrderID uint               `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

// OrderStore tracks the session's orders plus a single current-order
// projection. Listings are replaced wholesale; successful cancel/status
// mutations patch the matching entry in place instead of forcing a re-fetch,
// so the collections are only guaranteed mutually consistent immediately
// after a successful mutation.
type OrderStore struct {
	mu      sync.RWMutex
	gw      *gateway
	session *Session
	notify  Notifier

	orders     []models.Order
	current    *models.Order
	pagination Pagination
	errMsg     string
	inflight   int
	seq        uint64
}

func (s *OrderStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.seq++
	return s.seq
}

// finish completes the round trip for token; apply mutates the store state
// and only runs when the response is still the newest one.
func (s *OrderStore) finish(token uint64, errMsg string, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		s.inflight--
	}
	if token != s.seq {
		return false
	}
	if errMsg != "" {
		s.errMsg = errMsg
		return false
	}
	s.errMsg = ""
	if apply != nil {
		apply()
	}
	return true
}

// patchOrder replaces the order's entry in the listing and the current
// projection wherever the id matches. Callers hold the write lock.
func (s *OrderStore) patchOrder(order models.Order) {
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = order
			break
		}
	}
	if s.current != nil && s.current.ID == order.ID {
		s.current = &order
	}
}

// Fetch loads the caller's own orders for the current pagination settings.
// Silent no-op without an authenticated session.
func (s *OrderStore) Fetch(ctx context.Context) {
	if !s.session.IsAuthenticated() {
		return
	}
	token := s.begin()

	s.mu.RLock()
	query := pagingQuery(s.pagination)
	s.mu.RUnlock()

	var payload pagedPayload
	if err := s.gw.do(ctx, http.MethodGet, "/orders", query, nil, &payload); err != nil {
		s.finish(token, ordersLoadErrMsg, nil)
		return
	}
	var orders []models.Order
	if err := json.Unmarshal(payload.Items, &orders); err != nil {
		s.finish(token, ordersLoadErrMsg, nil)
		return
	}
	s.finish(token, "", func() {
		s.orders = orders
		s.pagination = Pagination{
			PageNumber: payload.PageNumber,
			PageSize:   payload.PageSize,
			TotalCount: payload.TotalCount,
		}
	})
}

// FetchByID replaces the current-order projection. The projection is cleared
// before the round trip so stale data is never shown under a new id.
func (s *OrderStore) FetchByID(ctx context.Context, id uint) {
	if !s.session.IsAuthenticated() {
		return
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	token := s.begin()

	var order models.Order
	err := s.gw.do(ctx, http.MethodGet, "/orders/"+strconv.FormatUint(uint64(id), 10),
		nil, nil, &order)
	if err != nil {
		s.finish(token, errMessage(err), nil)
		return
	}
	s.finish(token, "", func() { s.current = &order })
}

// Place converts the session's live server-side cart into an order. The cart
// contents are not sent; the gateway reads them itself. On success the new
// order becomes the current projection.
func (s *OrderStore) Place(ctx context.Context) (*models.Order, Result) {
	if !s.session.IsAuthenticated() {
		return nil, failed("Please sign in to place an order")
	}
	token := s.begin()

	var order models.Order
	if err := s.gw.do(ctx, http.MethodPost, "/orders", nil, struct{}{}, &order); err != nil {
		msg := errMessage(err)
		s.finish(token, msg, nil)
		s.notify.Error(msg)
		return nil, failed(msg)
	}
	s.finish(token, "", func() { s.current = &order })
	s.notify.Success("Order placed. Claim code: " + order.ClaimCode)
	placed := order
	return &placed, succeeded("Order placed")
}

// Cancel asks the gateway to cancel the order; the server decides whether the
// transition is still legal. On success the local copies are patched in place.
func (s *OrderStore) Cancel(ctx context.Context, id uint) Result {
	if !s.session.IsAuthenticated() {
		return failed("Please sign in first")
	}
	token := s.begin()

	var order models.Order
	err := s.gw.do(ctx, http.MethodPost,
		"/orders/"+strconv.FormatUint(uint64(id), 10)+"/cancel", nil, struct{}{}, &order)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, msg, nil)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, "", func() { s.patchOrder(order) })
	s.notify.Success("Order cancelled")
	return succeeded("Order cancelled")
}

// FetchByClaimCode resolves an order from its pickup token (staff path).
// Same clear-then-replace contract as FetchByID.
func (s *OrderStore) FetchByClaimCode(ctx context.Context, claimCode string) {
	if !s.session.IsAuthenticated() {
		return
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	token := s.begin()

	var order models.Order
	err := s.gw.do(ctx, http.MethodGet, "/staff/orders/claim/"+url.PathEscape(claimCode),
		nil, nil, &order)
	if err != nil {
		s.finish(token, errMessage(err), nil)
		return
	}
	s.finish(token, "", func() { s.current = &order })
}

// UpdateStatus moves an order to a new status (staff path). The client never
// validates the transition graph itself; it renders whatever the server
// accepts or rejects.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) Result {
	if !s.session.IsAuthenticated() {
		return failed("Please sign in first")
	}
	token := s.begin()

	var order models.Order
	err := s.gw.do(ctx, http.MethodPut,
		"/staff/orders/"+strconv.FormatUint(uint64(id), 10)+"/status",
		nil, updateOrderStatusRequest{Status: status}, &order)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, msg, nil)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, "", func() { s.patchOrder(order) })
	s.notify.Success("Order status updated")
	return succeeded("Order status updated")
}

// FetchAll loads orders across all users (staff path), optionally filtered by
// status. Replaces the listing and pagination wholesale, like Fetch.
func (s *OrderStore) FetchAll(ctx context.Context, status models.OrderStatus) {
	if !s.session.IsAuthenticated() {
		return
	}
	token := s.begin()

	s.mu.RLock()
	query := pagingQuery(s.pagination)
	s.mu.RUnlock()
	if status != "" {
		query.Set("status", string(status))
	}

	var payload pagedPayload
	if err := s.gw.do(ctx, http.MethodGet, "/staff/orders", query, nil, &payload); err != nil {
		s.finish(token, ordersLoadErrMsg, nil)
		return
	}
	var orders []models.Order
	if err := json.Unmarshal(payload.Items, &orders); err != nil {
		s.finish(token, ordersLoadErrMsg, nil)
		return
	}
	s.finish(token, "", func() {
		s.orders = orders
		s.pagination = Pagination{
			PageNumber: payload.PageNumber,
			PageSize:   payload.PageSize,
			TotalCount: payload.TotalCount,
		}
	})
}

// SetPagination merges a partial update; callers can change just the page
// number without re-specifying the page size.
func (s *OrderStore) SetPagination(u PaginationUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.merge(u)
}

// Listen subscribes to the gateway's order-status push feed and patches
// matching orders in place as events arrive. Blocks until ctx is cancelled or
// the connection drops.
func (s *OrderStore) Listen(ctx context.Context) error {
	header := http.Header{}
	if token := s.gw.session.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.gw.wsURL("/orders/ws"), header)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event orderStatusEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		s.mu.Lock()
		for i := range s.orders {
			if s.orders[i].ID == event.OrderID {
				s.orders[i].Status = event.Status
				break
			}
		}
		if s.current != nil && s.current.ID == event.OrderID {
			s.current.Status = event.Status
		}
		s.mu.Unlock()
	}
}

// Reset restores the initial state. Invoked on logout.
func (s *OrderStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
	s.current = nil
	s.pagination = Pagination{}
	s.errMsg = ""
	s.inflight = 0
	s.seq++
}

// Orders returns a copy of the current listing.
func (s *OrderStore) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.orders...)
}

// Current returns a copy of the current-order projection, or nil.
func (s *OrderStore) Current() *models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	order := *s.current
	order.Items = append([]models.OrderItem(nil), s.current.Items...)
	return &order
}

func (s *OrderStore) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

func (s *OrderStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *OrderStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// pagingQuery renders pagination as the gateway's query parameters. Zero
// values are omitted so the server applies its defaults.
func pagingQuery(p Pagination) url.Values {
	query := url.Values{}
	if p.PageNumber > 0 {
		query.Set("pageNumber", strconv.Itoa(p.PageNumber))
	}
	if p.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return query
}
