package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

const wishlistLoadErrMsg = "Failed to load your wishlist."

type addWishlistRequest struct {
	BookID uint `json:"bookId"`
}

// WishlistStore is a reduced CartStore: a paginated list of saved book
// references without pricing aggregation. Pricing fields on items are
// display-only mirrors refreshed on every list reload.
type WishlistStore struct {
	mu      sync.RWMutex
	gw      *gateway
	session *Session
	notify  Notifier

	items      []models.WishlistItem
	pagination Pagination
	errMsg     string
	inflight   int
	seq        uint64
}

func (s *WishlistStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.seq++
	return s.seq
}

func (s *WishlistStore) finish(token uint64, errMsg string, apply func()) bool {
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

// Fetch reloads the wishlist for the current pagination settings. Silent
// no-op without an authenticated session.
func (s *WishlistStore) Fetch(ctx context.Context) {
	if !s.session.IsAuthenticated() {
		return
	}
	token := s.begin()

	s.mu.RLock()
	query := pagingQuery(s.pagination)
	s.mu.RUnlock()

	var payload pagedPayload
	if err := s.gw.do(ctx, http.MethodGet, "/whitelist", query, nil, &payload); err != nil {
		s.finish(token, wishlistLoadErrMsg, nil)
		return
	}
	var items []models.WishlistItem
	if err := json.Unmarshal(payload.Items, &items); err != nil {
		s.finish(token, wishlistLoadErrMsg, nil)
		return
	}
	s.finish(token, "", func() {
		s.items = items
		s.pagination = Pagination{
			PageNumber: payload.PageNumber,
			PageSize:   payload.PageSize,
			TotalCount: payload.TotalCount,
		}
	})
}

// Contains probes wishlist membership for "already saved" UI state. On any
// failure it degrades to false rather than surfacing an error; a
// false-negative badge beats blocking the page.
func (s *WishlistStore) Contains(ctx context.Context, bookID uint) bool {
	if !s.session.IsAuthenticated() {
		return false
	}

	var saved bool
	err := s.gw.do(ctx, http.MethodGet,
		"/whitelist/check/"+strconv.FormatUint(uint64(bookID), 10), nil, nil, &saved)
	if err != nil {
		return false
	}
	return saved
}

// Add saves a book, then re-fetches the list so the snapshot comes from the
// server rather than a local append.
func (s *WishlistStore) Add(ctx context.Context, bookID uint) Result {
	if !s.session.IsAuthenticated() {
		return failed("Please sign in to use the wishlist")
	}
	token := s.begin()

	err := s.gw.do(ctx, http.MethodPost, "/whitelist", nil,
		addWishlistRequest{BookID: bookID}, nil)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, msg, nil)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, "", nil)
	s.Fetch(ctx)
	s.notify.Success("Book added to wishlist")
	return succeeded("Book added to wishlist")
}

// Remove deletes a wishlist entry by its item id, then re-fetches.
func (s *WishlistStore) Remove(ctx context.Context, itemID uint) Result {
	if !s.session.IsAuthenticated() {
		return failed("Please sign in to use the wishlist")
	}
	token := s.begin()

	err := s.gw.do(ctx, http.MethodDelete,
		"/whitelist/"+strconv.FormatUint(uint64(itemID), 10), nil, nil, nil)
	if err != nil {
		msg := errMessage(err)
		s.finish(token, msg, nil)
		s.notify.Error(msg)
		return failed(msg)
	}
	s.finish(token, "", nil)
	s.Fetch(ctx)
	s.notify.Success("Book removed from wishlist")
	return succeeded("Book removed from wishlist")
}

// SetPagination merges a partial update.
func (s *WishlistStore) SetPagination(u PaginationUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.merge(u)
}

// Reset restores the initial state. Invoked on logout.
func (s *WishlistStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.pagination = Pagination{}
	s.errMsg = ""
	s.inflight = 0
	s.seq++
}

// Items returns a copy of the current listing.
func (s *WishlistStore) Items() []models.WishlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WishlistItem(nil), s.items...)
}

func (s *WishlistStore) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

func (s *WishlistStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *WishlistStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
