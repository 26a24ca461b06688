package wishlistControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

type AddWishlistInput struct {
	BookID uint `json:"bookId" binding:"required"`
}

func parsePaging(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// GET /whitelist
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		page, size := parsePaging(c)

		var total int64
		if err := db.Model(&models.WishlistItem{}).Where("user_id = ?", userID).
			Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch wishlist"))
			return
		}

		var items []models.WishlistItem
		if err := db.Where("user_id = ?", userID).
			Preload("Book").
			Order("created_at DESC").
			Offset((page - 1) * size).
			Limit(size).
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch wishlist"))
			return
		}
		for i := range items {
			items[i].MirrorBook(items[i].Book)
		}

		c.JSON(http.StatusOK, models.OK(models.PagedData{
			Items:      items,
			TotalCount: total,
			PageNumber: page,
			PageSize:   size,
		}))
	}
}

// GET /whitelist/check/:bookId
func CheckBookInWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var count int64
		if err := db.Model(&models.WishlistItem{}).
			Where("user_id = ? AND book_id = ?", userID, c.Param("bookId")).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to check wishlist"))
			return
		}
		c.JSON(http.StatusOK, models.OK(count > 0))
	}
}

// POST /whitelist
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var input AddWishlistInput
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

		item := models.WishlistItem{UserID: userID, BookID: input.BookID}
		if err := db.Where(models.WishlistItem{UserID: userID, BookID: input.BookID}).
			FirstOrCreate(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to add to wishlist"))
			return
		}
		item.MirrorBook(&book)

		c.JSON(http.StatusCreated, models.OKMessage(item, "Book added to wishlist"))
	}
}

// DELETE /whitelist/:id
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		result := db.Where("user_id = ? AND id = ?", userID, c.Param("id")).
			Delete(&models.WishlistItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to remove from wishlist"))
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, models.Fail("Wishlist item not found"))
			return
		}
		c.JSON(http.StatusOK, models.OKMessage(nil, "Book removed from wishlist"))
	}
}
