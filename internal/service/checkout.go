package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/session"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidAddress = errors.New("shipping address is incomplete")
	ErrMissingCard    = errors.New("card details are required for credit card payments")
)

// CheckoutService runs the checkout flow: load cart, quote totals, then
// submit as order -> cart clear -> payment -> stock decrement. Order
// creation is the authoritative step; payment is advisory and resolved
// asynchronously when it cannot be confirmed inline.
type CheckoutService struct {
	gateway       client.Gateway
	cart          *CartService
	payments      *PaymentService
	shippingPrice float64
}

func NewCheckoutService(gateway client.Gateway, cart *CartService, payments *PaymentService, shippingPrice float64) *CheckoutService {
	return &CheckoutService{
		gateway:       gateway,
		cart:          cart,
		payments:      payments,
		shippingPrice: shippingPrice,
	}
}

type Quote struct {
	Items    []model.CartItem `json:"items"`
	Subtotal float64          `json:"subtotal"`
	Shipping float64          `json:"shipping"`
	Total    float64          `json:"total"`
}

type CardInfo struct {
	Number string `json:"cardNumber"`
	Holder string `json:"cardName"`
	Expiry string `json:"expiryDate"`
	CVV    string `json:"cvv"`
}

type SubmitInput struct {
	ShippingAddress model.Address       `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod"`
	Card            *CardInfo           `json:"cardInfo,omitempty"`
}

type SubmitResult struct {
	Order          *model.Order   `json:"order"`
	Payment        *model.Payment `json:"payment,omitempty"`
	PaymentOutcome Outcome        `json:"-"`
	Degraded       bool           `json:"degraded"`
}

// Load fetches the cart and computes the quote. An anonymous session or an
// empty cart rejects checkout before anything is submitted.
func (s *CheckoutService) Load(ctx context.Context, sess *session.Session) (*Quote, error) {
	if !sess.DemoMode(ctx) && sess.Token(ctx) == "" {
		return nil, ErrNotAuthenticated
	}

	items, err := s.cart.Items(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := 0.0
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	subtotal = model.Round2(subtotal)

	return &Quote{
		Items:    items,
		Subtotal: subtotal,
		Shipping: s.shippingPrice,
		Total:    model.Round2(subtotal + s.shippingPrice),
	}, nil
}

func (s *CheckoutService) Submit(ctx context.Context, sess *session.Session, in *SubmitInput) (*SubmitResult, error) {
	quote, err := s.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	if in.ShippingAddress.Street == "" || in.ShippingAddress.City == "" ||
		in.ShippingAddress.State == "" || in.ShippingAddress.ZipCode == "" {
		return nil, ErrInvalidAddress
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = model.MethodCreditCard
	}
	if in.PaymentMethod == model.MethodCreditCard && (in.Card == nil || in.Card.Number == "") {
		return nil, ErrMissingCard
	}

	orderItems := make([]model.OrderItem, len(quote.Items))
	for i, it := range quote.Items {
		orderItems[i] = model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}

	order, err := s.createOrder(ctx, sess, in, orderItems, quote)
	if err != nil {
		// order creation is the one fatal step; the caller may retry
		return nil, fmt.Errorf("create order: %w", err)
	}

	// from here on the order is placed; nothing below may fail the flow
	if err := s.cart.Clear(ctx, sess); err != nil {
		logf("checkout: clear cart after order %s: %v", order.ID, err)
	}

	paymentReq := &client.PaymentRequest{
		OrderID:       order.ID,
		Amount:        quote.Total,
		PaymentMethod: in.PaymentMethod,
	}
	if user, err := sess.User(ctx); err == nil {
		paymentReq.UserID = user.ID
	}
	if in.Card != nil {
		paymentReq.CardNumber = in.Card.Number
		paymentReq.CardHolder = in.Card.Holder
		paymentReq.Expiration = in.Card.Expiry
		paymentReq.CVV = in.Card.CVV
	}

	payment, outcome, perr := s.payments.Process(ctx, sess, paymentReq)
	if perr != nil {
		// advisory: the order stands, the status page resolves it later
		logf("checkout: payment for order %s unresolved: %v", order.ID, perr)
		order.PaymentStatus = model.PaymentPending
	} else {
		order.PaymentStatus = payment.Status
	}
	order.PaymentMethod = in.PaymentMethod

	s.decrementStock(ctx, sess, orderItems)

	if err := sess.SetLastOrder(ctx, order); err != nil {
		logf("checkout: persist last order %s: %v", order.ID, err)
	}

	return &SubmitResult{
		Order:          order,
		Payment:        payment,
		PaymentOutcome: outcome,
		Degraded:       outcome == OutcomeLocal,
	}, nil
}

func (s *CheckoutService) createOrder(ctx context.Context, sess *session.Session, in *SubmitInput, items []model.OrderItem, quote *Quote) (*model.Order, error) {
	if sess.DemoMode(ctx) {
		order := &model.Order{
			ID:              newDemoOrderID(),
			Status:          model.OrderPending,
			Items:           items,
			ShippingAddress: in.ShippingAddress,
			PaymentMethod:   in.PaymentMethod,
			ShippingPrice:   quote.Shipping,
			TotalAmount:     quote.Total,
			Demo:            true,
			CreatedAt:       time.Now(),
		}
		if err := sess.AppendDemoOrder(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	return s.gateway.CreateOrder(ctx, sess.Token(ctx), &client.CreateOrderRequest{
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ShippingPrice:   quote.Shipping,
		TotalPrice:      quote.Total,
	})
}

func (s *CheckoutService) decrementStock(ctx context.Context, sess *session.Session, items []model.OrderItem) {
	token := sess.Token(ctx)
	for _, item := range items {
		if err := s.gateway.AdjustStock(ctx, token, item.ProductID, -item.Quantity); err != nil {
			logf("checkout: stock decrement for %s: %v", item.ProductID, err)
		}
	}
}

// demo order numbers look like real ones: six digits
func newDemoOrderID() string {
	return fmt.Sprintf("%d", 100000+rand.Intn(900000))
}
