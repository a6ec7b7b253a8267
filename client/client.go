package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MerchantKhalid/foodhub/lifecycle"
	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/utils"
)

// Client berbicara JSON/HTTP dengan API order. Semua endpoint memakai
// envelope seragam {success, data, error, message}.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope adalah bentuk respons seragam dari server.
type envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Data       json.RawMessage   `json:"data"`
	Pagination *utils.Pagination `json:"pagination"`
}

// OrderPage adalah satu halaman hasil list order.
type OrderPage struct {
	Orders     []models.Order
	Pagination utils.Pagination
}

// ListParams untuk endpoint list.
type ListParams struct {
	Page   int
	Limit  int
	Status lifecycle.Status // kosong = semua
}

func (p ListParams) query() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindValidation, Message: err.Error()}
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, transientErr(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, transientErr(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// 5xx tanpa body JSON tetap transient
		return nil, classify(resp.StatusCode, "")
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return nil, classify(resp.StatusCode, msg)
	}

	return &env, nil
}

func (c *Client) getOrder(ctx context.Context, path string) (*models.Order, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, transientErr(fmt.Errorf("decode order: %w", err))
	}
	return &order, nil
}

func (c *Client) listOrders(ctx context.Context, path string, p ListParams) (*OrderPage, error) {
	env, err := c.do(ctx, http.MethodGet, path+p.query(), nil)
	if err != nil {
		return nil, err
	}
	page := &OrderPage{}
	if err := json.Unmarshal(env.Data, &page.Orders); err != nil {
		return nil, transientErr(fmt.Errorf("decode orders: %w", err))
	}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// --- customer ---

// GetOrder -> GET /orders/{id}
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return c.getOrder(ctx, "/orders/"+orderID)
}

// ListOrders -> GET /orders
func (c *Client) ListOrders(ctx context.Context, p ListParams) (*OrderPage, error) {
	return c.listOrders(ctx, "/orders", p)
}

// CancelOrder -> PATCH /orders/{id}/cancel
func (c *Client) CancelOrder(ctx context.Context, orderID, reason string) (*models.Order, error) {
	env, err := c.do(ctx, http.MethodPatch, "/orders/"+orderID+"/cancel", map[string]string{"reason": reason})
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, transientErr(fmt.Errorf("decode order: %w", err))
	}
	return &order, nil
}

// CreateOrderInput adalah payload checkout.
type CreateOrderInput struct {
	ProviderID      string                 `json:"providerId"`
	DeliveryAddress string                 `json:"deliveryAddress"`
	ContactPhone    string                 `json:"contactPhone"`
	OrderNotes      string                 `json:"orderNotes,omitempty"`
	Items           []CreateOrderItemInput `json:"items"`
}

type CreateOrderItemInput struct {
	MealID   string `json:"mealId"`
	Quantity int    `json:"quantity"`
}

// CreateOrder -> POST /orders. Titik masuk lifecycle yang di-track.
func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	env, err := c.do(ctx, http.MethodPost, "/orders", in)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, transientErr(fmt.Errorf("decode order: %w", err))
	}
	return &order, nil
}

// --- provider ---

// ProviderGetOrder -> GET /provider/orders/{id}
func (c *Client) ProviderGetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return c.getOrder(ctx, "/provider/orders/"+orderID)
}

// ProviderListOrders -> GET /provider/orders
func (c *Client) ProviderListOrders(ctx context.Context, p ListParams) (*OrderPage, error) {
	return c.listOrders(ctx, "/provider/orders", p)
}

// ProviderUpdateStatus -> PATCH /provider/orders/{id}/status
func (c *Client) ProviderUpdateStatus(ctx context.Context, orderID string, status lifecycle.Status, reason string) (*models.Order, error) {
	body := map[string]string{"status": string(status)}
	if reason != "" {
		body["reason"] = reason
	}
	env, err := c.do(ctx, http.MethodPatch, "/provider/orders/"+orderID+"/status", body)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		return nil, transientErr(fmt.Errorf("decode order: %w", err))
	}
	return &order, nil
}

// --- admin ---

// AdminGetOrder -> GET /admin/orders/{id}
func (c *Client) AdminGetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return c.getOrder(ctx, "/admin/orders/"+orderID)
}

// AdminListOrders -> GET /admin/orders
func (c *Client) AdminListOrders(ctx context.Context, p ListParams) (*OrderPage, error) {
	return c.listOrders(ctx, "/admin/orders", p)
}
