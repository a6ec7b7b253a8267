package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/lifecycle"
	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/utils"
)

// AdminOrderController memberi admin visibilitas read-only ke semua order.
type AdminOrderController struct {
	DB *gorm.DB
}

func NewAdminOrderController(db *gorm.DB) *AdminOrderController {
	return &AdminOrderController{DB: db}
}

// GetAllOrders -> semua order, paginated, filter status opsional.
func (ac *AdminOrderController) GetAllOrders(c *gin.Context) {
	page, limit := pageParams(c)

	query := ac.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		if !lifecycle.Status(status).Valid() {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", status))
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := query.Preload("OrderItems").Preload("Customer").Preload("Provider").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "All orders", orders, utils.NewPagination(page, limit, total))
}

// GetOrderByID -> detail order manapun.
func (ac *AdminOrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := ac.DB.Preload("OrderItems").Preload("OrderItems.Meal").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Customer").Preload("Provider").
		First(&order, "id = ?", orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}
