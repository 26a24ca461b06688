package staffControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

type SetBookSaleInput struct {
	OnSale             bool    `json:"onSale"`
	DiscountPercentage float64 `json:"discountPercentage" binding:"min=0,max=100"`
}

// PUT /staff/books/:id/sale
func SetBookSale(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SetBookSaleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		var book models.Book
		if err := db.First(&book, c.Param("id")).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, models.Fail("Book not found"))
			} else {
				c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch book"))
			}
			return
		}

		book.OnSale = input.OnSale
		book.DiscountPercentage = input.DiscountPercentage
		if !input.OnSale {
			book.DiscountPercentage = 0
		}
		if err := db.Save(&book).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update book"))
			return
		}

		book.ApplyPricing()
		c.JSON(http.StatusOK, models.OKMessage(book, "Sale settings updated"))
	}
}

// POST /staff/books/import
//
// Expected columns: ID (blank for new), Title, Author, ISBN, Price,
// OnSale (true/false), DiscountPercentage, Stock, Image, Description.
func ImportBooksFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Excel file is required"))
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to open Excel file"))
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to parse Excel file"))
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, models.Fail("Excel file is empty or missing header row"))
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			title := get(1)
			author := get(2)
			isbn := get(3)
			price, errPrice := strconv.ParseFloat(get(4), 64)
			onSale := strings.EqualFold(get(5), "true")
			discount, _ := strconv.ParseFloat(get(6), 64)
			stock, _ := strconv.Atoi(get(7))
			image := get(8)
			description := get(9)

			if title == "" || author == "" || errPrice != nil {
				skippedCount++
				continue
			}

			book := models.Book{
				Title:              title,
				Author:             author,
				ISBN:               isbn,
				Price:              price,
				OnSale:             onSale,
				DiscountPercentage: discount,
				Stock:              stock,
				Image:              image,
				Description:        description,
			}

			if idStr != "" {
				id, err := strconv.Atoi(idStr)
				if err != nil {
					skippedCount++
					continue
				}
				book.ID = uint(id)
				var existing models.Book
				if err := db.First(&existing, id).Error; err == nil {
					if err := db.Model(&existing).Updates(book).Error; err != nil {
						skippedCount++
						continue
					}
					updatedCount++
					continue
				}
			}

			if err := db.Create(&book).Error; err != nil {
				skippedCount++
				continue
			}
			createdCount++
		}

		c.JSON(http.StatusOK, models.OKMessage(gin.H{
			"created": createdCount,
			"updated": updatedCount,
			"skipped": skippedCount,
		}, "Book import finished"))
	}
}
