package cartControllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

type AddCartItemInput struct {
	BookID   uint `json:"bookId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// DiscountPolicy reads the cart-level bulk discount settings. The discount
// applies once the cart holds at least minItems units.
func DiscountPolicy() (percent float64, minItems int) {
	percent = 10
	minItems = 5
	if v := os.Getenv("CART_DISCOUNT_PERCENT"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			percent = p
		}
	}
	if v := os.Getenv("CART_DISCOUNT_MIN_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			minItems = n
		}
	}
	return percent, minItems
}

// LoadCart fetches the user's cart with items and recomputed aggregates.
func LoadCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where(models.Cart{UserID: userID}).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("added_at ASC") }).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	percent, minItems := DiscountPolicy()
	cart.Recalculate(percent, minItems)
	return &cart, nil
}

func respondWithCart(c *gin.Context, db *gorm.DB, userID string) {
	cart, err := LoadCart(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch cart"))
		return
	}
	c.JSON(http.StatusOK, models.OK(cart))
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondWithCart(c, db, c.GetString("user_id"))
	}
}

// POST /cart
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		var book models.Book
		if err := db.First(&book, input.BookID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusBadRequest, models.Fail("Book does not exist"))
			} else {
				c.JSON(http.StatusInternalServerError, models.Fail("Failed to validate book"))
			}
			return
		}
		book.ApplyPricing()

		cart, err := LoadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch cart"))
			return
		}

		// Adding an already-carted book increments its quantity.
		var item models.CartItem
		err = db.Where("cart_id = ? AND book_id = ?", cart.ID, input.BookID).First(&item).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			if book.Stock < input.Quantity {
				c.JSON(http.StatusBadRequest, models.Fail("Not enough stock for "+book.Title))
				return
			}
			item = models.CartItem{
				CartID:    cart.ID,
				BookID:    book.ID,
				BookTitle: book.Title,
				BookImage: book.Image,
				UnitPrice: book.DiscountedPrice,
				Quantity:  input.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, models.Fail("Failed to add item to cart"))
				return
			}
		case err != nil:
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch cart item"))
			return
		default:
			if book.Stock < item.Quantity+input.Quantity {
				c.JSON(http.StatusBadRequest, models.Fail("Not enough stock for "+book.Title))
				return
			}
			item.Quantity += input.Quantity
			item.AddedAt = time.Now()
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, models.Fail("Failed to update cart item"))
				return
			}
		}

		respondWithCart(c, db, userID)
	}
}

// PUT /cart/items/:itemId
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		itemID := c.Param("itemId")

		var input UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		cart, err := LoadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch cart"))
			return
		}

		var item models.CartItem
		if err := db.Where("cart_id = ? AND id = ?", cart.ID, itemID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, models.Fail("Cart item not found"))
			return
		}

		var book models.Book
		if err := db.First(&book, item.BookID).Error; err == nil && book.Stock < input.Quantity {
			c.JSON(http.StatusBadRequest, models.Fail("Not enough stock for "+item.BookTitle))
			return
		}

		item.Quantity = input.Quantity
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update cart item"))
			return
		}

		respondWithCart(c, db, userID)
	}
}

// DELETE /cart/items/:itemId
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		itemID := c.Param("itemId")

		cart, err := LoadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch cart"))
			return
		}

		result := db.Where("cart_id = ? AND id = ?", cart.ID, itemID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to remove item"))
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, models.Fail("Cart item not found"))
			return
		}

		respondWithCart(c, db, userID)
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		cart, err := LoadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch cart"))
			return
		}

		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to clear cart"))
			return
		}

		respondWithCart(c, db, userID)
	}
}
