package staffControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Asim1O1/Shelf-Society-sub000/controllers/order"
	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
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

// GET /staff/orders
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Order{})
		if raw := c.Query("status"); raw != "" {
			status, err := models.ParseOrderStatus(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
				return
			}
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch orders"))
			return
		}

		page, size := parsePaging(c)
		var orders []models.Order
		if err := query.
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

// GET /staff/orders/claim/:claimCode
func GetOrderByClaimCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.Where("claim_code = ?", c.Param("claimCode")).
			Preload("Items").
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("No order matches that claim code"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch order"))
			return
		}
		c.JSON(http.StatusOK, models.OK(order))
	}
}

// PUT /staff/orders/:id/status
func UpdateOrderStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}
		newStatus, err := models.ParseOrderStatus(input.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("Order not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch order"))
			return
		}

		legal := order.Status.CanTransitionTo(newStatus) ||
			(newStatus == models.OrderStatusRefunded && order.Status.Refundable())
		if !legal {
			c.JSON(http.StatusBadRequest, models.Fail(
				"Cannot move order from "+string(order.Status)+" to "+string(newStatus)))
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if newStatus == models.OrderStatusCancelled {
				if err := orderControllers.Restock(tx, order.Items); err != nil {
					return err
				}
			}
			order.Status = newStatus
			return tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", newStatus).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update order status"))
			return
		}

		orderControllers.BroadcastStatus(&order)
		c.JSON(http.StatusOK, models.OKMessage(order, "Order status updated"))
	}
}
