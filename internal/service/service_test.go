package service

import (
	"context"
	"fmt"
	"net/http"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/session"
	"storefront/internal/store"
)

// fakeGateway implements client.Gateway with per-method hooks. Methods
// without a hook fail the call so tests notice unexpected backend traffic.
type fakeGateway struct {
	login             func(ctx context.Context, email, password string) (*client.LoginResponse, error)
	register          func(ctx context.Context, firstName, lastName, email, password string) error
	getProduct        func(ctx context.Context, productID string) (*model.Product, error)
	adjustStock       func(ctx context.Context, token, productID string, delta int) error
	cartItems         func(ctx context.Context, token string) ([]model.CartItem, error)
	cartCount         func(ctx context.Context, token string) (int, error)
	addCartItem       func(ctx context.Context, token, productID string, quantity int) (*model.CartItem, error)
	updateCartItem    func(ctx context.Context, token, itemID string, quantity int) error
	removeCartItem    func(ctx context.Context, token, itemID string) error
	clearCart         func(ctx context.Context, token string) error
	createOrder       func(ctx context.Context, token string, req *client.CreateOrderRequest) (*model.Order, error)
	getOrder          func(ctx context.Context, token, orderID string) (*model.Order, error)
	listOrders        func(ctx context.Context, token string) ([]model.Order, error)
	updateOrderStatus func(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error)
	createPayment     func(ctx context.Context, token string, req *client.PaymentRequest) (*model.Payment, error)
	paymentByOrder    func(ctx context.Context, token, orderID string) (*model.Payment, error)
	refundPayment     func(ctx context.Context, token, orderID string) (*model.Payment, error)
	notifications     func(ctx context.Context, token, userID string) ([]model.Notification, error)
	unreadNotifs      func(ctx context.Context, token, userID string) ([]model.Notification, error)
	unreadNotifCount  func(ctx context.Context, token, userID string) (int, error)
	markNotifRead     func(ctx context.Context, token, notificationID string) error
	markAllNotifsRead func(ctx context.Context, token, userID string) error
	productRecommends func(ctx context.Context, productID string, maxResults int) ([]model.Product, error)
	userRecommends    func(ctx context.Context, token string, maxResults int) ([]model.Product, error)
}

func errUnexpected(method string) error {
	return fmt.Errorf("unexpected gateway call: %s", method)
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (*client.LoginResponse, error) {
	if f.login == nil {
		return nil, errUnexpected("Login")
	}
	return f.login(ctx, email, password)
}

func (f *fakeGateway) Register(ctx context.Context, firstName, lastName, email, password string) error {
	if f.register == nil {
		return errUnexpected("Register")
	}
	return f.register(ctx, firstName, lastName, email, password)
}

func (f *fakeGateway) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	if f.getProduct == nil {
		return nil, errUnexpected("GetProduct")
	}
	return f.getProduct(ctx, productID)
}

func (f *fakeGateway) AdjustStock(ctx context.Context, token, productID string, delta int) error {
	if f.adjustStock == nil {
		return errUnexpected("AdjustStock")
	}
	return f.adjustStock(ctx, token, productID, delta)
}

func (f *fakeGateway) CartItems(ctx context.Context, token string) ([]model.CartItem, error) {
	if f.cartItems == nil {
		return nil, errUnexpected("CartItems")
	}
	return f.cartItems(ctx, token)
}

func (f *fakeGateway) CartCount(ctx context.Context, token string) (int, error) {
	if f.cartCount == nil {
		return 0, errUnexpected("CartCount")
	}
	return f.cartCount(ctx, token)
}

func (f *fakeGateway) AddCartItem(ctx context.Context, token, productID string, quantity int) (*model.CartItem, error) {
	if f.addCartItem == nil {
		return nil, errUnexpected("AddCartItem")
	}
	return f.addCartItem(ctx, token, productID, quantity)
}

func (f *fakeGateway) UpdateCartItem(ctx context.Context, token, itemID string, quantity int) error {
	if f.updateCartItem == nil {
		return errUnexpected("UpdateCartItem")
	}
	return f.updateCartItem(ctx, token, itemID, quantity)
}

func (f *fakeGateway) RemoveCartItem(ctx context.Context, token, itemID string) error {
	if f.removeCartItem == nil {
		return errUnexpected("RemoveCartItem")
	}
	return f.removeCartItem(ctx, token, itemID)
}

func (f *fakeGateway) ClearCart(ctx context.Context, token string) error {
	if f.clearCart == nil {
		return errUnexpected("ClearCart")
	}
	return f.clearCart(ctx, token)
}

func (f *fakeGateway) CreateOrder(ctx context.Context, token string, req *client.CreateOrderRequest) (*model.Order, error) {
	if f.createOrder == nil {
		return nil, errUnexpected("CreateOrder")
	}
	return f.createOrder(ctx, token, req)
}

func (f *fakeGateway) GetOrder(ctx context.Context, token, orderID string) (*model.Order, error) {
	if f.getOrder == nil {
		return nil, errUnexpected("GetOrder")
	}
	return f.getOrder(ctx, token, orderID)
}

func (f *fakeGateway) ListOrders(ctx context.Context, token string) ([]model.Order, error) {
	if f.listOrders == nil {
		return nil, errUnexpected("ListOrders")
	}
	return f.listOrders(ctx, token)
}

func (f *fakeGateway) UpdateOrderStatus(ctx context.Context, token, orderID string, status model.OrderStatus) (*model.Order, error) {
	if f.updateOrderStatus == nil {
		return nil, errUnexpected("UpdateOrderStatus")
	}
	return f.updateOrderStatus(ctx, token, orderID, status)
}

func (f *fakeGateway) CreatePayment(ctx context.Context, token string, req *client.PaymentRequest) (*model.Payment, error) {
	if f.createPayment == nil {
		return nil, errUnexpected("CreatePayment")
	}
	return f.createPayment(ctx, token, req)
}

func (f *fakeGateway) PaymentByOrder(ctx context.Context, token, orderID string) (*model.Payment, error) {
	if f.paymentByOrder == nil {
		return nil, errUnexpected("PaymentByOrder")
	}
	return f.paymentByOrder(ctx, token, orderID)
}

func (f *fakeGateway) RefundPayment(ctx context.Context, token, orderID string) (*model.Payment, error) {
	if f.refundPayment == nil {
		return nil, errUnexpected("RefundPayment")
	}
	return f.refundPayment(ctx, token, orderID)
}

func (f *fakeGateway) Notifications(ctx context.Context, token, userID string) ([]model.Notification, error) {
	if f.notifications == nil {
		return nil, errUnexpected("Notifications")
	}
	return f.notifications(ctx, token, userID)
}

func (f *fakeGateway) UnreadNotifications(ctx context.Context, token, userID string) ([]model.Notification, error) {
	if f.unreadNotifs == nil {
		return nil, errUnexpected("UnreadNotifications")
	}
	return f.unreadNotifs(ctx, token, userID)
}

func (f *fakeGateway) UnreadNotificationCount(ctx context.Context, token, userID string) (int, error) {
	if f.unreadNotifCount == nil {
		return 0, errUnexpected("UnreadNotificationCount")
	}
	return f.unreadNotifCount(ctx, token, userID)
}

func (f *fakeGateway) MarkNotificationRead(ctx context.Context, token, notificationID string) error {
	if f.markNotifRead == nil {
		return errUnexpected("MarkNotificationRead")
	}
	return f.markNotifRead(ctx, token, notificationID)
}

func (f *fakeGateway) MarkAllNotificationsRead(ctx context.Context, token, userID string) error {
	if f.markAllNotifsRead == nil {
		return errUnexpected("MarkAllNotificationsRead")
	}
	return f.markAllNotifsRead(ctx, token, userID)
}

func (f *fakeGateway) ProductRecommendations(ctx context.Context, productID string, maxResults int) ([]model.Product, error) {
	if f.productRecommends == nil {
		return nil, errUnexpected("ProductRecommendations")
	}
	return f.productRecommends(ctx, productID, maxResults)
}

func (f *fakeGateway) UserRecommendations(ctx context.Context, token string, maxResults int) ([]model.Product, error) {
	if f.userRecommends == nil {
		return nil, errUnexpected("UserRecommendations")
	}
	return f.userRecommends(ctx, token, maxResults)
}

var authErr = &client.StatusError{Code: http.StatusForbidden, Body: "forbidden"}

// newTestSession returns an authenticated session backed by an in-memory store.
func newTestSession(ctx context.Context) *session.Session {
	sess := session.NewManager(store.NewMemoryStore()).Session("test-session")
	_ = sess.SetUser(ctx, &model.User{
		ID:    "u1",
		Email: "shopper@example.com",
		Name:  "Shopper",
		Token: "token-1",
		Roles: []string{"ROLE_USER"},
	})
	return sess
}

// newAnonSession returns a session with no stored user or token.
func newAnonSession() *session.Session {
	return session.NewManager(store.NewMemoryStore()).Session("anon-session")
}
