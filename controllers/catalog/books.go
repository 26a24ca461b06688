package catalogControllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

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

// GET /books
func GetBooks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		sortBy := c.DefaultQuery("sortBy", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}
		switch sortBy {
		case "title", "author", "price", "created_at":
		default:
			sortBy = "created_at"
		}

		query := db.Model(&models.Book{})

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("title ILIKE ? OR author ILIKE ? OR isbn ILIKE ?",
				likePattern, likePattern, likePattern)
		}
		if onSale := c.Query("onSale"); onSale != "" {
			query = query.Where("on_sale = ?", onSale == "true")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch books"))
			return
		}

		page, size := parsePaging(c)
		var books []models.Book
		if err := query.
			Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
			Offset((page - 1) * size).
			Limit(size).
			Find(&books).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch books"))
			return
		}
		for i := range books {
			books[i].ApplyPricing()
		}

		c.JSON(http.StatusOK, models.OK(models.PagedData{
			Items:      books,
			TotalCount: total,
			PageNumber: page,
			PageSize:   size,
		}))
	}
}

// GET /books/:id
func GetBookByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid book ID"))
			return
		}

		var book models.Book
		if err := db.First(&book, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, models.Fail("Book not found"))
			} else {
				c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve book"))
			}
			return
		}
		book.ApplyPricing()
		c.JSON(http.StatusOK, models.OK(book))
	}
}
