package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/lifecycle"
	"github.com/MerchantKhalid/foodhub/middlewares"
	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/services"
	"github.com/MerchantKhalid/foodhub/utils"
)

// ProviderOrderController menangani endpoint order sisi provider/restoran.
type ProviderOrderController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewProviderOrderController(db *gorm.DB) *ProviderOrderController {
	return &ProviderOrderController{DB: db, Service: services.NewOrderService(db)}
}

// GetProviderOrders -> list order yang dialamatkan ke provider ini,
// paginated, bisa difilter status lewat ?status=.
func (pc *ProviderOrderController) GetProviderOrders(c *gin.Context) {
	providerID := c.GetString("userID")
	page, limit := pageParams(c)

	query := pc.DB.Model(&models.Order{}).Where("provider_id = ?", providerID)
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
	if err := query.Preload("OrderItems").Preload("OrderItems.Meal").Preload("Customer").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "Provider orders", orders, utils.NewPagination(page, limit, total))
}

// GetProviderOrderByID -> detail 1 order yang dialamatkan ke provider ini.
func (pc *ProviderOrderController) GetProviderOrderByID(c *gin.Context) {
	providerID := c.GetString("userID")
	orderID := c.Param("order_id")

	var order models.Order
	if err := pc.DB.Preload("OrderItems").Preload("OrderItems.Meal").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Customer").
		Where("id = ? AND provider_id = ?", orderID, providerID).
		First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> provider memajukan status order. Target divalidasi
// ulang terhadap tabel transisi walaupun UI hanya menawarkan aksi legal;
// UI bukan trust boundary.
func (pc *ProviderOrderController) UpdateOrderStatus(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("advance", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	providerID := c.GetString("userID")
	orderID := c.Param("order_id")

	var body struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target := lifecycle.Status(body.Status)
	if !target.Valid() {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status %q", body.Status))
		return
	}
	// Pembatalan oleh provider juga butuh alasan
	if target == lifecycle.StatusCancelled && !lifecycle.ValidReason(body.Reason) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cancellation reason is required"))
		return
	}

	var order models.Order
	if err := pc.DB.Preload("StatusHistory").
		Where("id = ? AND provider_id = ?", orderID, providerID).
		First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if err := pc.Service.Transition(&order, lifecycle.ActorProvider, target, body.Reason); err != nil {
		var invalid *lifecycle.InvalidTransitionError
		if errors.As(err, &invalid) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %s moved to %s by provider %s", order.ID, target, providerID)

	if err := pc.DB.Preload("OrderItems").Preload("OrderItems.Meal").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Customer").
		First(&order, "id = ?", order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
