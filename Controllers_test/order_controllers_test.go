package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/router"
	"github.com/MerchantKhalid/foodhub/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB -> SQLite in-memory + seed customer, provider, dua meal.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Meal{}, &models.Order{}, &models.OrderItem{}, &models.StatusHistory{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	users := []models.User{
		{ID: "cust-1", Name: "Test Customer", Email: "customer@example.com", Password: "x", Role: models.RoleCustomer},
		{ID: "cust-2", Name: "Other Customer", Email: "other@example.com", Password: "x", Role: models.RoleCustomer},
		{ID: "prov-1", Name: "Test Provider", Email: "provider@example.com", Password: "x", Role: models.RoleProvider},
		{ID: "admin-1", Name: "Test Admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin},
	}
	for i := range users {
		db.Create(&users[i])
	}

	meals := []models.Meal{
		{ID: "meal-1", ProviderID: "prov-1", Name: "Nasi Goreng", Price: 8.00, IsAvailable: true},
		{ID: "meal-2", ProviderID: "prov-1", Name: "Es Teh", Price: 5.50, IsAvailable: true},
	}
	for i := range meals {
		db.Create(&meals[i])
	}

	return db
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

// createTestOrder -> checkout lewat endpoint: 2x meal-1 + 1x meal-2 = 21.50
func createTestOrder(t *testing.T, r *gin.Engine, customerToken string) map[string]interface{} {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/orders", customerToken, map[string]interface{}{
		"providerId":      "prov-1",
		"deliveryAddress": "Jl. Merdeka 17, Jakarta",
		"contactPhone":    "08123456789",
		"items": []map[string]interface{}{
			{"mealId": "meal-1", "quantity": 2},
			{"mealId": "meal-2", "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, true, resp["success"])
	return resp["data"].(map[string]interface{})
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	token := tokenFor(t, "cust-1", models.RoleCustomer)

	order := createTestOrder(t, r, token)

	assert.Equal(t, "PENDING", order["status"])
	assert.Equal(t, 21.50, order["totalAmount"])
	assert.Equal(t, "CASH_ON_DELIVERY", order["paymentMethod"])
	assert.Equal(t, "PENDING", order["paymentStatus"])

	// History dimulai dengan satu entri PENDING
	history := order["statusHistory"].([]interface{})
	assert.Len(t, history, 1)
	assert.Equal(t, "PENDING", history[0].(map[string]interface{})["status"])

	items := order["orderItems"].([]interface{})
	assert.Len(t, items, 2)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	token := tokenFor(t, "cust-1", models.RoleCustomer)

	// Telepon terlalu pendek
	w := doRequest(t, r, http.MethodPost, "/orders", token, map[string]interface{}{
		"providerId":      "prov-1",
		"deliveryAddress": "Jl. Merdeka 17",
		"contactPhone":    "0812",
		"items":           []map[string]interface{}{{"mealId": "meal-1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Tanpa item
	w = doRequest(t, r, http.MethodPost, "/orders", token, map[string]interface{}{
		"providerId":      "prov-1",
		"deliveryAddress": "Jl. Merdeka 17",
		"contactPhone":    "08123456789",
		"items":           []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	owner := tokenFor(t, "cust-1", models.RoleCustomer)
	stranger := tokenFor(t, "cust-2", models.RoleCustomer)

	order := createTestOrder(t, r, owner)
	orderID := order["id"].(string)

	w := doRequest(t, r, http.MethodGet, "/orders/"+orderID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Order milik orang lain = not found, bukan forbidden
	w = doRequest(t, r, http.MethodGet, "/orders/"+orderID, stranger, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	token := tokenFor(t, "cust-1", models.RoleCustomer)

	order := createTestOrder(t, r, token)
	orderID := order["id"].(string)

	w := doRequest(t, r, http.MethodPatch, "/orders/"+orderID+"/cancel", token, map[string]string{
		"reason": "Changed my mind",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "CANCELLED", data["status"])
	assert.Equal(t, "Changed my mind", data["cancellationReason"])

	// totalAmount tidak berubah setelah pembatalan
	assert.Equal(t, 21.50, data["totalAmount"])

	history := data["statusHistory"].([]interface{})
	assert.Len(t, history, 2)
	last := history[len(history)-1].(map[string]interface{})
	assert.Equal(t, "CANCELLED", last["status"])
	assert.Equal(t, "Changed my mind", last["note"])

	// Pembatalan kedua ditolak: CANCELLED itu terminal
	w = doRequest(t, r, http.MethodPatch, "/orders/"+orderID+"/cancel", token, map[string]string{
		"reason": "Ordered by mistake",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelOrderRequiresReason(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	token := tokenFor(t, "cust-1", models.RoleCustomer)

	order := createTestOrder(t, r, token)
	orderID := order["id"].(string)

	w := doRequest(t, r, http.MethodPatch, "/orders/"+orderID+"/cancel", token, map[string]string{
		"reason": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Order tidak tersentuh
	var order2 models.Order
	assert.NoError(t, db.First(&order2, "id = ?", orderID).Error)
	assert.Equal(t, "PENDING", string(order2.Status))
}

func TestListOrdersPagination(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)
	token := tokenFor(t, "cust-1", models.RoleCustomer)

	for i := 0; i < 3; i++ {
		createTestOrder(t, r, token)
	}

	w := doRequest(t, r, http.MethodGet, "/orders?page=1&limit=2", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	orders := resp["data"].([]interface{})
	assert.Len(t, orders, 2)

	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
	assert.Equal(t, float64(1), pagination["page"])
}

func TestOrdersRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	r := router.SetupRouter(db)

	w := doRequest(t, r, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Provider tidak boleh memakai endpoint customer
	providerToken := tokenFor(t, "prov-1", models.RoleProvider)
	w = doRequest(t, r, http.MethodGet, "/orders", providerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
