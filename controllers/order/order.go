package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cartControllers "github.com/Asim1O1/Shelf-Society-sub000/controllers/cart"
	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

func parsePaging(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return page, size
}

// generateOrderRef returns a unique order reference, e.g. 20250908130500-<uuid4>.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// generateClaimCode returns the opaque pickup token handed to the customer.
func generateClaimCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
}

// PlaceOrder converts the user's live cart into an order. Stock is locked and
// deducted inside one transaction; the cart is emptied on success.
func PlaceOrder(db *gorm.DB, userID string) (*models.Order, error) {
	cart, err := cartControllers.LoadCart(db, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, errors.New("cart is empty")
	}

	order := models.Order{
		UserID:             userID,
		OrderRef:           generateOrderRef(),
		ClaimCode:          generateClaimCode(),
		TotalAmount:        cart.TotalPrice,
		DiscountPercentage: cart.DiscountPercentage,
		DiscountAmount:     cart.DiscountAmount,
		FinalAmount:        cart.FinalPrice,
		Status:             models.OrderStatusPending,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, item := range cart.Items {
			var book models.Book
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&book, item.BookID).Error; err != nil {
				return err
			}
			if book.Stock < item.Quantity {
				return errors.New("insufficient stock for: " + item.BookTitle)
			}
			book.Stock -= item.Quantity
			if err := tx.Save(&book).Error; err != nil {
				return err
			}

			order.Items = append(order.Items, models.OrderItem{
				BookID:    item.BookID,
				BookTitle: item.BookTitle,
				BookImage: item.BookImage,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
				Subtotal:  item.Subtotal,
			})
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Restock returns order item quantities to book stock. Used on cancellation.
func Restock(tx *gorm.DB, items []models.OrderItem) error {
	for _, item := range items {
		if err := tx.Model(&models.Book{}).Where("id = ?", item.BookID).
			Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}
	return nil
}

// POST /orders
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := PlaceOrder(db, c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
			return
		}
		BroadcastStatus(order)
		c.JSON(http.StatusCreated, models.OKMessage(order, "Order placed successfully"))
	}
}

// GET /orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		page, size := parsePaging(c)

		var total int64
		if err := db.Model(&models.Order{}).Where("user_id = ?", userID).
			Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch orders"))
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Offset((page - 1) * size).
			Limit(size).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch orders"))
			return
		}

		c.JSON(http.StatusOK, models.OK(models.PagedData{
			Items:      orders,
			TotalCount: total,
			PageNumber: page,
			PageSize:   size,
		}))
	}
}

// GET /orders/:id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var order models.Order
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
			Preload("Items").
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("Order not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch order"))
			return
		}
		c.JSON(http.StatusOK, models.OK(order))
	}
}

// POST /orders/:id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var order models.Order
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
			Preload("Items").
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("Order not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch order"))
			return
		}

		if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
			c.JSON(http.StatusBadRequest, models.Fail("Order can no longer be cancelled"))
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := Restock(tx, order.Items); err != nil {
				return err
			}
			order.Status = models.OrderStatusCancelled
			return tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", order.Status).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to cancel order"))
			return
		}

		BroadcastStatus(&order)
		c.JSON(http.StatusOK, models.OKMessage(order, "Order cancelled"))
	}
}
