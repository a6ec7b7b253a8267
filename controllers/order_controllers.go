package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/lifecycle"
	"github.com/MerchantKhalid/foodhub/middlewares"
	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/services"
	"github.com/MerchantKhalid/foodhub/utils"
)

// Panjang minimal nomor telepon yang diterima saat checkout.
const minPhoneLength = 10

// OrderController menangani endpoint order sisi customer.
type OrderController struct {
	DB      *gorm.DB
	Service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, Service: services.NewOrderService(db)}
}

// CreateOrder -> checkout: buat order baru (status=PENDING).
// priceAtOrder diambil dari harga meal saat ini dan tidak pernah berubah
// lagi setelahnya; totalAmount = jumlah priceAtOrder*quantity.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("create", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	customerID := c.GetString("userID")

	type itemReq struct {
		MealID   string `json:"mealId" binding:"required"`
		Quantity int    `json:"quantity" binding:"required,min=1"`
	}
	type reqBody struct {
		ProviderID      string    `json:"providerId" binding:"required"`
		DeliveryAddress string    `json:"deliveryAddress" binding:"required"`
		ContactPhone    string    `json:"contactPhone" binding:"required"`
		OrderNotes      string    `json:"orderNotes"`
		Items           []itemReq `json:"items" binding:"required,min=1"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(body.DeliveryAddress) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("delivery address is required"))
		return
	}
	if len(strings.TrimSpace(body.ContactPhone)) < minPhoneLength {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("contact phone must be at least %d characters", minPhoneLength))
		return
	}

	var provider models.User
	if err := oc.DB.Where("id = ? AND role = ?", body.ProviderID, models.RoleProvider).First(&provider).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("provider not found"))
		return
	}

	now := time.Now()
	order := models.Order{
		CustomerID:      customerID,
		ProviderID:      provider.ID,
		Status:          lifecycle.StatusPending,
		DeliveryAddress: body.DeliveryAddress,
		ContactPhone:    strings.TrimSpace(body.ContactPhone),
		OrderNotes:      body.OrderNotes,
		PaymentMethod:   models.PaymentCashOnDelivery,
		PaymentStatus:   models.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, item := range body.Items {
			var meal models.Meal
			if err := tx.Where("id = ? AND provider_id = ?", item.MealID, provider.ID).First(&meal).Error; err != nil {
				return fmt.Errorf("meal %s not found for this provider", item.MealID)
			}
			if !meal.IsAvailable {
				return fmt.Errorf("meal %s is not available", meal.Name)
			}

			orderItem := models.OrderItem{
				OrderID:      order.ID,
				MealID:       meal.ID,
				Quantity:     item.Quantity,
				PriceAtOrder: meal.Price,
				CreatedAt:    now,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total += meal.Price * float64(item.Quantity)
		}

		order.TotalAmount = total
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		// Entri history pertama: order masuk sebagai PENDING
		return tx.Create(&models.StatusHistory{
			OrderID:   order.ID,
			Status:    lifecycle.StatusPending,
			CreatedAt: now,
		}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.Meal").Preload("StatusHistory").
		First(&order, "id = ?", order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetMyOrders -> list order milik customer, paginated.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	customerID := c.GetString("userID")
	page, limit := pageParams(c)

	var total int64
	if err := oc.DB.Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.Meal").Preload("Provider").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondPage(c, http.StatusOK, "List of orders", orders, utils.NewPagination(page, limit, total))
}

// GetOrderByID -> detail 1 order milik customer. Order milik orang lain
// diperlakukan sebagai not found.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	customerID := c.GetString("userID")
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.Meal").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Provider").Preload("Customer").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CancelOrder -> customer membatalkan ordernya sendiri, dengan alasan.
// Hanya legal selama status masih di window pembatalan.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	defer func() {
		middlewares.RecordOrderOperation("cancel", c.Writer.Status() >= 200 && c.Writer.Status() < 300)
	}()

	customerID := c.GetString("userID")
	orderID := c.Param("order_id")

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !lifecycle.ValidReason(body.Reason) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cancellation reason is required"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("StatusHistory").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if err := oc.Service.Transition(&order, lifecycle.ActorCustomer, lifecycle.StatusCancelled, body.Reason); err != nil {
		var invalid *lifecycle.InvalidTransitionError
		if errors.As(err, &invalid) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %s cancelled by customer: %s", order.ID, body.Reason)

	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.Meal").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&order, "id = ?", order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
