package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asim1O1/Shelf-Society-sub000/auth"
	cartControllers "github.com/Asim1O1/Shelf-Society-sub000/controllers/cart"
	catalogControllers "github.com/Asim1O1/Shelf-Society-sub000/controllers/catalog"
	orderControllers "github.com/Asim1O1/Shelf-Society-sub000/controllers/order"
	staffControllers "github.com/Asim1O1/Shelf-Society-sub000/controllers/staff"
	wishlistControllers "github.com/Asim1O1/Shelf-Society-sub000/controllers/wishlist"
	"github.com/Asim1O1/Shelf-Society-sub000/middleware"
)

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	SetupAuthRoutes(r, db)
	SetupCatalogRoutes(r, db)
	SetupStorefrontRoutes(r, db)
	SetupStaffRoutes(r, db)
}

// SetupAuthRoutes registers the public /auth/* endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db))
		authGroup.POST("/login", auth.LoginHandler(db))
	}
}

// SetupCatalogRoutes registers the public browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	books := r.Group("/books")
	{
		books.GET("", catalogControllers.GetBooks(db))
		books.GET("/:id", catalogControllers.GetBookByID(db))
	}
}

// SetupStorefrontRoutes registers the JWT-protected customer endpoints.
func SetupStorefrontRoutes(r *gin.Engine, db *gorm.DB) {
	cart := r.Group("/cart")
	cart.Use(middleware.ValidateToken)
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("", cartControllers.AddToCart(db))
		cart.PUT("/items/:itemId", cartControllers.UpdateCartItem(db))
		cart.DELETE("/items/:itemId", cartControllers.RemoveCartItem(db))
		cart.DELETE("", cartControllers.ClearCart(db))
	}

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		orders.POST("", orderControllers.PlaceOrderHandler(db))
		orders.GET("", orderControllers.GetMyOrdersHandler(db))
		// websocket endpoint for real-time status updates
		orders.GET("/ws", orderControllers.OrderEventsHandler)
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))
		orders.POST("/:id/cancel", orderControllers.CancelOrderHandler(db))
	}

	wishlist := r.Group("/whitelist")
	wishlist.Use(middleware.ValidateToken)
	{
		wishlist.GET("", wishlistControllers.GetWishlist(db))
		wishlist.GET("/check/:bookId", wishlistControllers.CheckBookInWishlist(db))
		wishlist.POST("", wishlistControllers.AddToWishlist(db))
		wishlist.DELETE("/:id", wishlistControllers.RemoveFromWishlist(db))
	}
}

// SetupStaffRoutes registers the privileged /staff/* endpoints.
func SetupStaffRoutes(r *gin.Engine, db *gorm.DB) {
	staff := r.Group("/staff")
	staff.Use(middleware.ValidateToken, middleware.RequireStaff)
	{
		staff.GET("/orders", staffControllers.GetAllOrders(db))
		staff.GET("/orders/export", staffControllers.ExportOrdersToExcel(db))
		staff.GET("/orders/claim/:claimCode", staffControllers.GetOrderByClaimCode(db))
		staff.PUT("/orders/:id/status", staffControllers.UpdateOrderStatus(db))

		staff.POST("/books/import", staffControllers.ImportBooksFromExcel(db))
		staff.PUT("/books/:id/sale", staffControllers.SetBookSale(db))
	}
}
