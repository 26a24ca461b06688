package client

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

// fakeGateway is an in-memory gateway implementing the REST contract the
// stores consume. All money math goes through models.Cart.Recalculate so the
// server-authoritative totals in tests are the real ones.
type fakeGateway struct {
	t   *testing.T
	srv *httptest.Server

	mu        sync.Mutex
	books     map[uint]models.Book
	cartItems []models.CartItem
	nextItem  uint
	orders    []models.Order
	nextOrder uint
	wishlist  []models.WishlistItem
	nextWish  uint

	discountPercent  float64
	discountMinItems int

	requests int
	failWith string // when set, every request fails with this message

	cartGets  int
	onCartGet func(call int) // sequencing hook, runs before the cart snapshot

	wsUpgrader websocket.Upgrader
	wsConns    map[*websocket.Conn]bool
}

func newFakeGateway(t *testing.T) *fakeGateway {
	gin.SetMode(gin.TestMode)
	f := &fakeGateway{
		t: t,
		books: map[uint]models.Book{
			1: {ID: 1, Title: "The Go Programming Language", Author: "Donovan", Price: 20.00, Stock: 10},
			2: {ID: 2, Title: "Release It!", Author: "Nygard", Price: 15.00, OnSale: true, DiscountPercentage: 20, Stock: 5},
			3: {ID: 3, Title: "Out of Stock Stories", Author: "Nobody", Price: 9.99, Stock: 0},
		},
		discountPercent:  10,
		discountMinItems: 5,
		wsConns:          map[*websocket.Conn]bool{},
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.mu.Lock()
		f.requests++
		fail := f.failWith
		f.mu.Unlock()
		if fail != "" {
			c.JSON(http.StatusBadRequest, models.Fail(fail))
			c.Abort()
		}
	})

	authed := r.Group("/", func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.JSON(http.StatusUnauthorized, models.Fail("Authorization header is missing"))
			c.Abort()
		}
	})

	r.GET("/books", f.getBooks)
	r.GET("/books/:id", f.getBook)

	authed.GET("/cart", f.getCart)
	authed.POST("/cart", f.addToCart)
	authed.PUT("/cart/items/:itemId", f.updateCartItem)
	authed.DELETE("/cart/items/:itemId", f.removeCartItem)
	authed.DELETE("/cart", f.clearCart)

	authed.GET("/orders", f.getOrders)
	authed.GET("/orders/ws", f.orderEvents)
	authed.GET("/orders/:id", f.getOrder)
	authed.POST("/orders", f.placeOrder)
	authed.POST("/orders/:id/cancel", f.cancelOrder)

	authed.GET("/staff/orders/claim/:claimCode", f.getOrderByClaim)
	authed.PUT("/staff/orders/:id/status", f.updateOrderStatus)

	authed.GET("/whitelist", f.getWishlist)
	authed.GET("/whitelist/check/:bookId", f.checkWishlist)
	authed.POST("/whitelist", f.addWishlist)
	authed.DELETE("/whitelist/:id", f.removeWishlist)

	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGateway) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeGateway) setFailure(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = msg
}

// snapshotCart builds the enveloped cart exactly like the real gateway.
// Callers hold f.mu.
func (f *fakeGateway) snapshotCart() models.Cart {
	cart := models.Cart{ID: 1, UserID: "u1", Items: append([]models.CartItem(nil), f.cartItems...)}
	cart.Recalculate(f.discountPercent, f.discountMinItems)
	return cart
}

func (f *fakeGateway) getCart(c *gin.Context) {
	f.mu.Lock()
	f.cartGets++
	call := f.cartGets
	hook := f.onCartGet
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}

	f.mu.Lock()
	cart := f.snapshotCart()
	f.mu.Unlock()
	c.JSON(http.StatusOK, models.OK(cart))
}

func (f *fakeGateway) addToCart(c *gin.Context) {
	var input struct {
		BookID   uint `json:"bookId"`
		Quantity int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid input"))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	book, ok := f.books[input.BookID]
	if !ok {
		c.JSON(http.StatusBadRequest, models.Fail("Book does not exist"))
		return
	}
	book.ApplyPricing()

	for i := range f.cartItems {
		if f.cartItems[i].BookID == input.BookID {
			if book.Stock < f.cartItems[i].Quantity+input.Quantity {
				c.JSON(http.StatusBadRequest, models.Fail("Not enough stock for "+book.Title))
				return
			}
			f.cartItems[i].Quantity += input.Quantity
			c.JSON(http.StatusOK, models.OK(f.snapshotCart()))
			return
		}
	}

	if book.Stock < input.Quantity {
		c.JSON(http.StatusBadRequest, models.Fail("Not enough stock for "+book.Title))
		return
	}
	f.nextItem++
	f.cartItems = append(f.cartItems, models.CartItem{
		ID:        f.nextItem,
		CartID:    1,
		BookID:    book.ID,
		BookTitle: book.Title,
		UnitPrice: book.DiscountedPrice,
		Quantity:  input.Quantity,
		AddedAt:   time.Now(),
	})
	c.JSON(http.StatusOK, models.OK(f.snapshotCart()))
}

func (f *fakeGateway) updateCartItem(c *gin.Context) {
	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid input"))
		return
	}
	itemID, _ := strconv.Atoi(c.Param("itemId"))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cartItems {
		if f.cartItems[i].ID == uint(itemID) {
			f.cartItems[i].Quantity = input.Quantity
			c.JSON(http.StatusOK, models.OK(f.snapshotCart()))
			return
		}
	}
	c.JSON(http.StatusNotFound, models.Fail("Cart item not found"))
}

func (f *fakeGateway) removeCartItem(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("itemId"))

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cartItems {
		if f.cartItems[i].ID == uint(itemID) {
			f.cartItems = append(f.cartItems[:i], f.cartItems[i+1:]...)
			c.JSON(http.StatusOK, models.OK(f.snapshotCart()))
			return
		}
	}
	c.JSON(http.StatusNotFound, models.Fail("Cart item not found"))
}

func (f *fakeGateway) clearCart(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartItems = nil
	c.JSON(http.StatusOK, models.OK(f.snapshotCart()))
}

func (f *fakeGateway) placeOrder(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cartItems) == 0 {
		c.JSON(http.StatusBadRequest, models.Fail("cart is empty"))
		return
	}
	cart := f.snapshotCart()

	f.nextOrder++
	order := models.Order{
		ID:                 f.nextOrder,
		UserID:             "u1",
		OrderRef:           "ref-" + strconv.Itoa(int(f.nextOrder)),
		ClaimCode:          "CLAIM" + strconv.Itoa(int(f.nextOrder)),
		TotalAmount:        cart.TotalPrice,
		DiscountPercentage: cart.DiscountPercentage,
		DiscountAmount:     cart.DiscountAmount,
		FinalAmount:        cart.FinalPrice,
		Status:             models.OrderStatusPending,
		CreatedAt:          time.Now(),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			BookID:    item.BookID,
			BookTitle: item.BookTitle,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	f.orders = append(f.orders, order)
	f.cartItems = nil
	c.JSON(http.StatusCreated, models.OKMessage(order, "Order placed successfully"))
}

func (f *fakeGateway) getOrders(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusOK, models.OK(models.PagedData{
		Items:      append([]models.Order(nil), f.orders...),
		TotalCount: int64(len(f.orders)),
		PageNumber: 1,
		PageSize:   10,
	}))
}

func (f *fakeGateway) findOrder(id uint) *models.Order {
	for i := range f.orders {
		if f.orders[i].ID == id {
			return &f.orders[i]
		}
	}
	return nil
}

func (f *fakeGateway) getOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	if order := f.findOrder(uint(id)); order != nil {
		c.JSON(http.StatusOK, models.OK(*order))
		return
	}
	c.JSON(http.StatusNotFound, models.Fail("Order not found"))
}

func (f *fakeGateway) cancelOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	order := f.findOrder(uint(id))
	if order == nil {
		c.JSON(http.StatusNotFound, models.Fail("Order not found"))
		return
	}
	if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
		c.JSON(http.StatusBadRequest, models.Fail("Order can no longer be cancelled"))
		return
	}
	order.Status = models.OrderStatusCancelled
	c.JSON(http.StatusOK, models.OKMessage(*order, "Order cancelled"))
}

func (f *fakeGateway) getOrderByClaim(c *gin.Context) {
	code := c.Param("claimCode")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ClaimCode == code {
			c.JSON(http.StatusOK, models.OK(f.orders[i]))
			return
		}
	}
	c.JSON(http.StatusNotFound, models.Fail("No order matches that claim code"))
}

func (f *fakeGateway) updateOrderStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid input"))
		return
	}
	newStatus, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}
	id, _ := strconv.Atoi(c.Param("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	order := f.findOrder(uint(id))
	if order == nil {
		c.JSON(http.StatusNotFound, models.Fail("Order not found"))
		return
	}
	legal := order.Status.CanTransitionTo(newStatus) ||
		(newStatus == models.OrderStatusRefunded && order.Status.Refundable())
	if !legal {
		c.JSON(http.StatusBadRequest, models.Fail(
			"Cannot move order from "+string(order.Status)+" to "+string(newStatus)))
		return
	}
	order.Status = newStatus
	c.JSON(http.StatusOK, models.OKMessage(*order, "Order status updated"))
}

func (f *fakeGateway) orderEvents(c *gin.Context) {
	conn, err := f.wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.wsConns[conn] = true
	f.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			f.mu.Lock()
			delete(f.wsConns, conn)
			f.mu.Unlock()
			return
		}
	}
}

// pushStatus broadcasts a status event to every websocket subscriber.
func (f *fakeGateway) pushStatus(orderID uint, status models.OrderStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.wsConns {
		_ = conn.WriteJSON(orderStatusEvent{OrderID: orderID, Status: status})
	}
}

func (f *fakeGateway) getWishlist(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]models.WishlistItem, len(f.wishlist))
	copy(items, f.wishlist)
	for i := range items {
		if book, ok := f.books[items[i].BookID]; ok {
			items[i].MirrorBook(&book)
		}
	}
	c.JSON(http.StatusOK, models.OK(models.PagedData{
		Items:      items,
		TotalCount: int64(len(items)),
		PageNumber: 1,
		PageSize:   20,
	}))
}

func (f *fakeGateway) checkWishlist(c *gin.Context) {
	bookID, _ := strconv.Atoi(c.Param("bookId"))
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.wishlist {
		if item.BookID == uint(bookID) {
			c.JSON(http.StatusOK, models.OK(true))
			return
		}
	}
	c.JSON(http.StatusOK, models.OK(false))
}

func (f *fakeGateway) addWishlist(c *gin.Context) {
	var input struct {
		BookID uint `json:"bookId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid input"))
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[input.BookID]; !ok {
		c.JSON(http.StatusBadRequest, models.Fail("Book does not exist"))
		return
	}
	for _, item := range f.wishlist {
		if item.BookID == input.BookID {
			c.JSON(http.StatusCreated, models.OKMessage(nil, "Book added to wishlist"))
			return
		}
	}
	f.nextWish++
	f.wishlist = append(f.wishlist, models.WishlistItem{
		ID: f.nextWish, UserID: "u1", BookID: input.BookID, CreatedAt: time.Now(),
	})
	c.JSON(http.StatusCreated, models.OKMessage(nil, "Book added to wishlist"))
}

func (f *fakeGateway) removeWishlist(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.wishlist {
		if f.wishlist[i].ID == uint(id) {
			f.wishlist = append(f.wishlist[:i], f.wishlist[i+1:]...)
			c.JSON(http.StatusOK, models.OKMessage(nil, "Book removed from wishlist"))
			return
		}
	}
	c.JSON(http.StatusNotFound, models.Fail("Wishlist item not found"))
}

func (f *fakeGateway) getBooks(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var books []models.Book
	for _, book := range f.books {
		book.ApplyPricing()
		books = append(books, book)
	}
	c.JSON(http.StatusOK, models.OK(models.PagedData{
		Items:      books,
		TotalCount: int64(len(books)),
		PageNumber: 1,
		PageSize:   20,
	}))
}

func (f *fakeGateway) getBook(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	f.mu.Lock()
	defer f.mu.Unlock()
	if book, ok := f.books[uint(id)]; ok {
		book.ApplyPricing()
		c.JSON(http.StatusOK, models.OK(book))
		return
	}
	c.JSON(http.StatusNotFound, models.Fail("Book not found"))
}

// recordingNotifier captures toast messages for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) counts() (successes, errors int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.errors)
}

// testToken mints a parseable session token. The fake gateway only checks
// header presence; the client checks the exp claim locally.
func testToken(t *testing.T, role models.UserRole, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "u1",
		"role":    string(role),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// newTestClient returns a signed-in client wired against a fresh fake gateway.
func newTestClient(t *testing.T) (*Client, *fakeGateway, *recordingNotifier) {
	t.Helper()
	fake := newFakeGateway(t)
	notifier := &recordingNotifier{}
	c := New(Config{BaseURL: fake.srv.URL}, WithNotifier(notifier))
	c.Session.SetCredentials(testToken(t, models.RoleCustomer, time.Hour), models.User{
		ID: "u1", Email: "reader@example.com", Role: models.RoleCustomer,
	})
	return c, fake, notifier
}
