package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

const catalogLoadErrMsg = "Failed to load books."

// CatalogFilters describes the browse view's filter state.
type CatalogFilters struct {
	Search string
	SortBy string
	Order  string
	OnSale *bool
}

// CatalogStore is a read-mostly cache of book listings. No authentication is
// required; browsing is public.
type CatalogStore struct {
	mu sync.RWMutex
	gw *gateway

	books      []models.Book
	current    *models.Book
	filters    CatalogFilters
	pagination Pagination
	errMsg     string
	inflight   int
	seq        uint64
}

func (s *CatalogStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.seq++
	return s.seq
}

func (s *CatalogStore) finish(token uint64, errMsg string, apply func()) bool {
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

// Fetch loads the listing for the current filters and pagination.
func (s *CatalogStore) Fetch(ctx context.Context) {
	token := s.begin()

	s.mu.RLock()
	query := pagingQuery(s.pagination)
	filters := s.filters
	s.mu.RUnlock()

	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.SortBy != "" {
		query.Set("sortBy", filters.SortBy)
	}
	if filters.Order != "" {
		query.Set("order", filters.Order)
	}
	if filters.OnSale != nil {
		query.Set("onSale", strconv.FormatBool(*filters.OnSale))
	}

	var payload pagedPayload
	if err := s.gw.do(ctx, http.MethodGet, "/books", query, nil, &payload); err != nil {
		s.finish(token, catalogLoadErrMsg, nil)
		return
	}
	var books []models.Book
	if err := json.Unmarshal(payload.Items, &books); err != nil {
		s.finish(token, catalogLoadErrMsg, nil)
		return
	}
	s.finish(token, "", func() {
		s.books = books
		s.pagination = Pagination{
			PageNumber: payload.PageNumber,
			PageSize:   payload.PageSize,
			TotalCount: payload.TotalCount,
		}
	})
}

// FetchBook replaces the current-book projection, clearing it first so stale
// data never shows under a new id.
func (s *CatalogStore) FetchBook(ctx context.Context, id uint) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	token := s.begin()

	var book models.Book
	err := s.gw.do(ctx, http.MethodGet, "/books/"+strconv.FormatUint(uint64(id), 10),
		nil, nil, &book)
	if err != nil {
		s.finish(token, errMessage(err), nil)
		return
	}
	s.finish(token, "", func() { s.current = &book })
}

// SetFilters replaces the filter state and rewinds to the first page.
func (s *CatalogStore) SetFilters(f CatalogFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
	s.pagination.PageNumber = 1
}

// SetPagination merges a partial update.
func (s *CatalogStore) SetPagination(u PaginationUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.merge(u)
}

// Reset restores the initial state.
func (s *CatalogStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = nil
	s.current = nil
	s.filters = CatalogFilters{}
	s.pagination = Pagination{}
	s.errMsg = ""
	s.inflight = 0
	s.seq++
}

// Books returns a copy of the current listing.
func (s *CatalogStore) Books() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Book(nil), s.books...)
}

// Current returns a copy of the current-book projection, or nil.
func (s *CatalogStore) Current() *models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	book := *s.current
	return &book
}

func (s *CatalogStore) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

func (s *CatalogStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *CatalogStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
