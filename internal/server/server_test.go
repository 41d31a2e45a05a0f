package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/store"
)

// stubGateway satisfies client.Gateway through the embedded interface; only
// the methods a demo-mode session can reach are overridden. Anything else
// panics and fails the test.
type stubGateway struct {
	client.Gateway
}

func (stubGateway) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	return &model.Product{ID: productID, Name: "Widget", Price: 10.00, Stock: 5}, nil
}

func (stubGateway) AdjustStock(ctx context.Context, token, productID string, delta int) error {
	return nil
}

func (stubGateway) Login(ctx context.Context, email, password string) (*client.LoginResponse, error) {
	return &client.LoginResponse{Email: email, Token: "backend-token-1"}, nil
}

func (stubGateway) CartItems(ctx context.Context, token string) ([]model.CartItem, error) {
	return []model.CartItem{{ID: "i1", ProductID: "p1", Name: "Widget", Price: 10.00, Quantity: 1}}, nil
}

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(store.NewMemoryStore())
	gw := stubGateway{}

	auth := service.NewAuthService(gw)
	cart := service.NewCartService(gw, service.NewNotifier())
	payments := service.NewPaymentService(gw)
	checkout := service.NewCheckoutService(gw, cart, payments, 15.00)
	reconciler := service.NewOrderReconciler(gw, payments, nil, time.Millisecond, 0)
	address := client.NewViaCEPClient(&config.ViaCEP{BaseURL: "http://unused", Timeout: time.Second})

	return NewServer(
		sessions,
		handler.NewAuthHandler(auth),
		handler.NewCartHandler(cart),
		handler.NewCheckoutHandler(checkout),
		handler.NewOrderHandler(gw, auth, reconciler),
		handler.NewPaymentHandler(payments),
		handler.NewMiscHandler(address, service.NewNotificationService(gw), service.NewRecommendationService(gw)),
	), sessions
}

func doRequest(s *Server, method, path, sessionID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-Id", sessionID)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartFlowInDemoMode(t *testing.T) {
	s, sessions := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, sessions.Session("t1").EnableDemoMode(ctx))

	rec := doRequest(s, http.MethodPost, "/api/cart/items", "t1", `{"productId":"p1","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/cart", "t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []model.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)

	rec = doRequest(s, http.MethodGet, "/api/cart/count", "t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())

	// sessions do not leak into each other
	rec = doRequest(s, http.MethodGet, "/api/cart/count", "t2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())
}

func TestCartRequiresAuth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/cart", "anon1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckoutFlowInDemoMode(t *testing.T) {
	s, sessions := newTestServer(t)
	ctx := context.Background()
	sess := sessions.Session("t1")
	require.NoError(t, sess.EnableDemoMode(ctx))
	require.NoError(t, sess.SetDemoCart(ctx, []model.CartItem{
		{ID: "pA", ProductID: "pA", Name: "Product A", Price: 10.00, Quantity: 2},
		{ID: "pB", ProductID: "pB", Name: "Product B", Price: 25.00, Quantity: 1},
	}))

	rec := doRequest(s, http.MethodGet, "/api/checkout", "t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var quote service.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 45.00, quote.Subtotal)
	assert.Equal(t, 60.00, quote.Total)

	rec = doRequest(s, http.MethodPost, "/api/checkout", "t1", `{
		"shippingAddress": {"street":"Av. Paulista","number":"1000","city":"Sao Paulo","state":"SP","zipCode":"01310-100"},
		"paymentMethod": "CREDIT_CARD",
		"cardInfo": {"cardNumber":"4111111111111111","cardName":"SHOPPER","expiryDate":"12/28","cvv":"123"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		Order    model.Order    `json:"order"`
		Payment  *model.Payment `json:"payment"`
		Degraded bool           `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Order.ID, 6)
	assert.True(t, result.Degraded)
	require.NotNil(t, result.Payment)
	assert.Equal(t, model.PaymentApproved, result.Payment.Status)

	// the cart is empty and the order is visible afterwards
	rec = doRequest(s, http.MethodGet, "/api/cart/count", "t1", "")
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())

	rec = doRequest(s, http.MethodGet, "/api/orders/"+result.Order.ID, "t1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/orders/"+result.Order.ID+"/payment", "t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var payment model.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))
	assert.Equal(t, model.PaymentApproved, payment.Status)
}

func TestCheckoutEmptyCart(t *testing.T) {
	s, sessions := newTestServer(t)
	require.NoError(t, sessions.Session("t1").EnableDemoMode(context.Background()))

	rec := doRequest(s, http.MethodGet, "/api/checkout", "t1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOrderStatusUpdateRequiresAdmin(t *testing.T) {
	s, sessions := newTestServer(t)
	ctx := context.Background()
	sess := sessions.Session("t1")
	require.NoError(t, sess.SetUser(ctx, &model.User{ID: "u1", Email: "a@b.c", Token: "tok", Roles: []string{"ROLE_USER"}}))

	rec := doRequest(s, http.MethodPut, "/api/orders/1/status?status=SHIPPED", "t1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestInvalidCEP(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/addresses/cep/123", "t1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCardBrand(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/cards/brand?number=4111111111111111", "t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"brand":"visa","formatted":"4111 1111 1111 1111"}`, rec.Body.String())
}

func TestDemoModeEndpoints(t *testing.T) {
	s, sessions := newTestServer(t)
	ctx := context.Background()

	rec := doRequest(s, http.MethodGet, "/api/session/demo-mode", "t1", "")
	assert.JSONEq(t, `{"demoMode":false}`, rec.Body.String())

	require.NoError(t, sessions.Session("t1").EnableDemoMode(ctx))
	rec = doRequest(s, http.MethodGet, "/api/session/demo-mode", "t1", "")
	assert.JSONEq(t, `{"demoMode":true}`, rec.Body.String())

	rec = doRequest(s, http.MethodPost, "/api/session/demo-mode/reset", "t1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/session/demo-mode", "t1", "")
	assert.JSONEq(t, `{"demoMode":false}`, rec.Body.String())
}

func TestBearerOnlyClientStaysAuthenticated(t *testing.T) {
	s, _ := newTestServer(t)

	// login without X-Session-Id lands in the anonymous session
	rec := doRequest(s, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "backend-token-1", user.Token)

	// a follow-up carrying only the bearer token hashes to a fresh session;
	// the middleware seeds it with the token so the client stays authenticated
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+user.Token)
	rec2 := httptest.NewRecorder()
	s.echo.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())

	var items []model.CartItem
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestMeUnauthenticated(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/api/auth/me", "t1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecommendationsAlwaysRespond(t *testing.T) {
	s, _ := newTestServer(t)
	// the engine is unreachable; the simulated catalog answers
	rec := doRequest(s, http.MethodGet, "/api/recommendations/users?maxResults=3", "t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var products []model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 3)
}
