package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/model"
)

// Gateway talks to the backend services through the API gateway
// (/api/products, /api/cart, /api/orders, /api/payments, ...).
type Gateway interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Register(ctx context.Context, firstName, lastName, email, password string) error

	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	AdjustStock(ctx context.Context, token, productID string, delta int) error

	CartItems(ctx context.Context, token string) ([]model.CartItem, error)
	CartCount(ctx context.Context, token string) (int, error)
	AddCartItem(ctx context.Context, token, productID string, quantity int) (*model.CartItem, error)
	UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error
	RemoveCartItem(ctx context.Context, token, itemID string) error
	ClearCart(ctx context.Context, token string) error

	CreateOrder(ctx context.Context, token string, req *CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, token, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, token string) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error)

	CreatePayment(ctx context.Context, token string, req *PaymentRequest) (*model.Payment, error)
	PaymentByOrder(ctx context.Context, token, orderID string) (*model.Payment, error)
	RefundPayment(ctx context.Context, token, orderID string) (*model.Payment, error)

	Notifications(ctx context.Context, token, userID string) ([]model.Notification, error)
	UnreadNotifications(ctx context.Context, token, userID string) ([]model.Notification, error)
	UnreadNotificationCount(ctx context.Context, token, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, token, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, token, userID string) error

	ProductRecommendations(ctx context.Context, productID string, maxResults int) ([]model.Product, error)
	UserRecommendations(ctx context.Context, token string, maxResults int) ([]model.Product, error)
}

type LoginResponse struct {
	ID          flexID   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Name        string   `json:"name"`
	Token       string   `json:"token"`
	AccessToken string   `json:"accessToken"`
	Roles       []string `json:"roles"`
	Role        string   `json:"role"`
}

type CreateOrderRequest struct {
	Items           []model.OrderItem   `json:"items"`
	ShippingAddress model.Address       `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod"`
	ShippingPrice   float64             `json:"shippingPrice"`
	TotalPrice      float64             `json:"totalPrice"`
}

type PaymentRequest struct {
	OrderID       string              `json:"orderId"`
	UserID        string              `json:"userId,omitempty"`
	Amount        float64             `json:"amount"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	CardNumber    string              `json:"cardNumber,omitempty"`
	CardHolder    string              `json:"cardHolderName,omitempty"`
	Expiration    string              `json:"expirationDate,omitempty"`
	CVV           string              `json:"cvv,omitempty"`
}

type gatewayImpl struct {
	httpClient *http.Client
	baseURL    string
}

func NewGateway(cfg *config.Gateway) Gateway {
	return &gatewayImpl{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
	}
}

func (c *gatewayImpl) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: string(b)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// -------- auth --------

func (c *gatewayImpl) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	var res LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", payload, &res); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &res, nil
}

func (c *gatewayImpl) Register(ctx context.Context, firstName, lastName, email, password string) error {
	payload := map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", payload, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// -------- products --------

func (c *gatewayImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), "", nil, &p); err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	return &p, nil
}

func (c *gatewayImpl) AdjustStock(ctx context.Context, token, productID string, delta int) error {
	path := fmt.Sprintf("/products/%s/stock?quantity=%d", url.PathEscape(productID), delta)
	if err := c.do(ctx, http.MethodPut, path, token, nil, nil); err != nil {
		return fmt.Errorf("adjust stock for %s: %w", productID, err)
	}
	return nil
}

// -------- cart --------

func (c *gatewayImpl) CartItems(ctx context.Context, token string) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *gatewayImpl) CartCount(ctx context.Context, token string) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, "/cart/count", token, nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (c *gatewayImpl) AddCartItem(ctx context.Context, token, productID string, quantity int) (*model.CartItem, error) {
	payload := map[string]any{"productId": productID, "quantity": quantity}
	var item model.CartItem
	if err := c.do(ctx, http.MethodPost, "/cart/items", token, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *gatewayImpl) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error {
	payload := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(itemID), token, payload, nil)
}

func (c *gatewayImpl) RemoveCartItem(ctx context.Context, token, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(itemID), token, nil, nil)
}

func (c *gatewayImpl) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/cart", token, nil, nil)
}

// -------- orders --------

func (c *gatewayImpl) CreateOrder(ctx context.Context, token string, req *CreateOrderRequest) (*model.Order, error) {
	var w wireOrder
	if err := c.do(ctx, http.MethodPost, "/orders", token, req, &w); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return w.canonical(), nil
}

func (c *gatewayImpl) GetOrder(ctx context.Context, token, orderID string) (*model.Order, error) {
	var w wireOrder
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), token, nil, &w); err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return w.canonical(), nil
}

func (c *gatewayImpl) ListOrders(ctx context.Context, token string) ([]model.Order, error) {
	var ws []wireOrder
	if err := c.do(ctx, http.MethodGet, "/orders", token, nil, &ws); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	orders := make([]model.Order, len(ws))
	for i := range ws {
		orders[i] = *ws[i].canonical()
	}
	return orders, nil
}

func (c *gatewayImpl) UpdateOrderStatus(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error) {
	path := fmt.Sprintf("/orders/%s/status?status=%s", url.PathEscape(orderID), url.QueryEscape(string(status)))
	var w wireOrder
	if err := c.do(ctx, http.MethodPut, path, token, nil, &w); err != nil {
		return nil, fmt.Errorf("update order %s status: %w", orderID, err)
	}
	return w.canonical(), nil
}

// -------- payments --------

func (c *gatewayImpl) CreatePayment(ctx context.Context, token string, req *PaymentRequest) (*model.Payment, error) {
	var w wirePayment
	if err := c.do(ctx, http.MethodPost, "/payments", token, req, &w); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return w.canonical(), nil
}

func (c *gatewayImpl) PaymentByOrder(ctx context.Context, token, orderID string) (*model.Payment, error) {
	var w wirePayment
	if err := c.do(ctx, http.MethodGet, "/payments/order/"+url.PathEscape(orderID), token, nil, &w); err != nil {
		return nil, fmt.Errorf("get payment for order %s: %w", orderID, err)
	}
	return w.canonical(), nil
}

func (c *gatewayImpl) RefundPayment(ctx context.Context, token, orderID string) (*model.Payment, error) {
	var w wirePayment
	if err := c.do(ctx, http.MethodPost, "/payments/refund/"+url.PathEscape(orderID), token, nil, &w); err != nil {
		return nil, fmt.Errorf("refund order %s: %w", orderID, err)
	}
	return w.canonical(), nil
}

// -------- notifications --------

func (c *gatewayImpl) Notifications(ctx context.Context, token, userID string) ([]model.Notification, error) {
	var ns []model.Notification
	err := c.do(ctx, http.MethodGet, "/notifications/user/"+url.PathEscape(userID), token, nil, &ns)
	return ns, err
}

func (c *gatewayImpl) UnreadNotifications(ctx context.Context, token, userID string) ([]model.Notification, error) {
	var ns []model.Notification
	err := c.do(ctx, http.MethodGet, "/notifications/user/"+url.PathEscape(userID)+"/unread", token, nil, &ns)
	return ns, err
}

func (c *gatewayImpl) UnreadNotificationCount(ctx context.Context, token, userID string) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/notifications/user/"+url.PathEscape(userID)+"/count", token, nil, &res)
	return res.Count, err
}

func (c *gatewayImpl) MarkNotificationRead(ctx context.Context, token, notificationID string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+url.PathEscape(notificationID)+"/read", token, nil, nil)
}

func (c *gatewayImpl) MarkAllNotificationsRead(ctx context.Context, token, userID string) error {
	return c.do(ctx, http.MethodPut, "/notifications/user/"+url.PathEscape(userID)+"/read-all", token, nil, nil)
}

// -------- recommendations --------

func (c *gatewayImpl) ProductRecommendations(ctx context.Context, productID string, maxResults int) ([]model.Product, error) {
	path := "/recommendations/products/" + url.PathEscape(productID) + "?maxResults=" + strconv.Itoa(maxResults)
	var ps []model.Product
	err := c.do(ctx, http.MethodGet, path, "", nil, &ps)
	return ps, err
}

func (c *gatewayImpl) UserRecommendations(ctx context.Context, token string, maxResults int) ([]model.Product, error) {
	path := "/recommendations/users?maxResults=" + strconv.Itoa(maxResults)
	var ps []model.Product
	err := c.do(ctx, http.MethodGet, path, token, nil, &ps)
	return ps, err
}
