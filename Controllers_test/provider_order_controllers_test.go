package Controllers_test

import (
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/router"
)

func TestProviderAdvanceFullFlow(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)
	provider := tokenFor(t, "prov-1", models.RoleProvider)

	order := createTestOrder(t, r, customer)
	orderID := order["id"].(string)
	statusPath := "/provider/orders/" + orderID + "/status"

	// PENDING -> CONFIRMED: estimasi pengiriman di-stempel
	w := doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "CONFIRMED", data["status"])
	assert.NotNil(t, data["estimatedDeliveryTime"])

	// CONFIRMED -> PREPARING -> OUT_FOR_DELIVERY (READY_FOR_PICKUP dilewati)
	w = doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "PREPARING"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "OUT_FOR_DELIVERY"})
	assert.Equal(t, http.StatusOK, w.Code)

	// OUT_FOR_DELIVERY -> DELIVERED: waktu antar aktual + COD jadi PAID
	w = doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "DELIVERED"})
	assert.Equal(t, http.StatusOK, w.Code)
	data = decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "DELIVERED", data["status"])
	assert.NotNil(t, data["actualDeliveryTime"])
	assert.Equal(t, "PAID", data["paymentStatus"])

	// totalAmount tak pernah berubah sepanjang lifecycle
	assert.Equal(t, 21.50, data["totalAmount"])

	// Setelah 4 transisi: 5 entri history, naik secara waktu, entri
	// terakhir = status sekarang
	var history []models.StatusHistory
	assert.NoError(t, db.Where("order_id = ?", orderID).Order("created_at asc").Find(&history).Error)
	assert.Len(t, history, 5)
	assert.True(t, sort.SliceIsSorted(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	}))
	assert.Equal(t, "DELIVERED", string(history[len(history)-1].Status))

	// DELIVERED itu terminal: transisi apapun ditolak
	w = doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProviderIllegalTransition(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)
	provider := tokenFor(t, "prov-1", models.RoleProvider)

	order := createTestOrder(t, r, customer)
	orderID := order["id"].(string)
	statusPath := "/provider/orders/" + orderID + "/status"

	doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "CONFIRMED"})
	doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "PREPARING"})

	// Mundur ke CONFIRMED bukan transisi maju: ditolak, order tak berubah
	w := doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Order
	assert.NoError(t, db.First(&stored, "id = ?", orderID).Error)
	assert.Equal(t, "PREPARING", string(stored.Status))

	// Dari PREPARING, OUT_FOR_DELIVERY legal
	w = doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "OUT_FOR_DELIVERY"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProviderCancelNeedsReason(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)
	provider := tokenFor(t, "prov-1", models.RoleProvider)

	order := createTestOrder(t, r, customer)
	statusPath := "/provider/orders/" + order["id"].(string) + "/status"

	w := doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "CANCELLED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{
		"status": "CANCELLED",
		"reason": "Out of stock",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "CANCELLED", data["status"])
	assert.Equal(t, "Out of stock", data["cancellationReason"])
}

func TestProviderUnknownStatusRejected(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)
	provider := tokenFor(t, "prov-1", models.RoleProvider)

	order := createTestOrder(t, r, customer)
	statusPath := "/provider/orders/" + order["id"].(string) + "/status"

	w := doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProviderListFilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)
	provider := tokenFor(t, "prov-1", models.RoleProvider)

	first := createTestOrder(t, r, customer)
	createTestOrder(t, r, customer)

	statusPath := "/provider/orders/" + first["id"].(string) + "/status"
	doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "CONFIRMED"})

	w := doRequest(t, r, http.MethodGet, "/provider/orders?status=PENDING", provider, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Len(t, resp["data"].([]interface{}), 1)

	w = doRequest(t, r, http.MethodGet, "/provider/orders?status=SHIPPED", provider, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProviderCannotTouchOthersOrders(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)

	// Provider lain yang tidak dialamatkan order ini
	other := models.User{ID: "prov-2", Name: "Other Provider", Email: "other-prov@example.com", Password: "x", Role: models.RoleProvider}
	db.Create(&other)
	otherToken := tokenFor(t, "prov-2", models.RoleProvider)

	order := createTestOrder(t, r, customer)
	orderID := order["id"].(string)

	w := doRequest(t, r, http.MethodGet, "/provider/orders/"+orderID, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodPatch, "/provider/orders/"+orderID+"/status", otherToken, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Order
	assert.NoError(t, db.First(&stored, "id = ?", orderID).Error)
	assert.Equal(t, "PENDING", string(stored.Status))
}

func TestAdminReadOnlyVisibility(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)
	admin := tokenFor(t, "admin-1", models.RoleAdmin)

	order := createTestOrder(t, r, customer)
	orderID := order["id"].(string)

	w := doRequest(t, r, http.MethodGet, "/admin/orders/"+orderID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/admin/orders", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Len(t, resp["data"].([]interface{}), 1)

	// Customer tidak boleh masuk ke surface admin
	w = doRequest(t, r, http.MethodGet, "/admin/orders", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEstimatedDeliveryWindow(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	customer := tokenFor(t, "cust-1", models.RoleCustomer)
	provider := tokenFor(t, "prov-1", models.RoleProvider)

	order := createTestOrder(t, r, customer)
	statusPath := "/provider/orders/" + order["id"].(string) + "/status"

	before := time.Now()
	w := doRequest(t, r, http.MethodPatch, statusPath, provider, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.Order
	assert.NoError(t, db.First(&stored, "id = ?", order["id"].(string)).Error)
	if assert.NotNil(t, stored.EstimatedDeliveryTime) {
		assert.True(t, stored.EstimatedDeliveryTime.After(before))
	}
}
