// Package session holds the per-session state the browser frontend kept in
// localStorage: auth token, current user, the demo-mode latch, demo orders
// and locally simulated payments.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/store"
)

// Storage keys, kept identical to the frontend's localStorage keys.
const (
	keyUser          = "user"
	keyAuthToken     = "auth_token"
	keyDemoMode      = "demo_mode"
	keyDemoCart      = "demo_cart"
	keyDemoOrders    = "demo_orders"
	keyLocalPayments = "local_payments"
	keyLastOrder     = "lastOrder"
)

var ErrNoUser = errors.New("session: no authenticated user")

// Manager hands out sessions namespaced by session id within one Store.
type Manager struct {
	store store.Store
}

func NewManager(st store.Store) *Manager {
	return &Manager{store: st}
}

func (m *Manager) Session(id string) *Session {
	return &Session{id: id, store: m.store, prefix: "sess:" + id + ":"}
}

// Session reads and writes one session's keys. Writes are last-write-wins,
// matching the localStorage behavior it replaces.
type Session struct {
	id     string
	store  store.Store
	prefix string
}

func (s *Session) ID() string { return s.id }

func (s *Session) key(name string) string { return s.prefix + name }

func (s *Session) getJSON(ctx context.Context, name string, v any) error {
	raw, err := s.store.Get(ctx, s.key(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (s *Session) setJSON(ctx context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.store.Set(ctx, s.key(name), raw)
}

// -------- auth --------

func (s *Session) User(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := s.getJSON(ctx, keyUser, &u); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoUser
		}
		return nil, err
	}
	return &u, nil
}

func (s *Session) SetUser(ctx context.Context, u *model.User) error {
	if err := s.setJSON(ctx, keyUser, u); err != nil {
		return err
	}
	return s.store.Set(ctx, s.key(keyAuthToken), []byte(u.Token))
}

// Token returns the stored auth token, or "" when the session is anonymous.
func (s *Session) Token(ctx context.Context) string {
	raw, err := s.store.Get(ctx, s.key(keyAuthToken))
	if err != nil {
		return ""
	}
	return string(raw)
}

// SeedToken stores just the auth token, for sessions addressed by the token
// itself rather than by an explicit session id.
func (s *Session) SeedToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, s.key(keyAuthToken), []byte(token))
}

func (s *Session) ClearUser(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key(keyUser)); err != nil {
		return err
	}
	return s.store.Delete(ctx, s.key(keyAuthToken))
}

// -------- demo mode --------

func (s *Session) DemoMode(ctx context.Context) bool {
	raw, err := s.store.Get(ctx, s.key(keyDemoMode))
	return err == nil && string(raw) == "true"
}

// EnableDemoMode latches the session into demo mode. There is no automatic
// way back; ResetDemoMode is an explicit operation.
func (s *Session) EnableDemoMode(ctx context.Context) error {
	return s.store.Set(ctx, s.key(keyDemoMode), []byte("true"))
}

func (s *Session) ResetDemoMode(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key(keyDemoCart)); err != nil {
		return err
	}
	return s.store.Delete(ctx, s.key(keyDemoMode))
}

// -------- demo cart --------

func (s *Session) DemoCart(ctx context.Context) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := s.getJSON(ctx, keyDemoCart, &items); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

func (s *Session) SetDemoCart(ctx context.Context, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}
	return s.setJSON(ctx, keyDemoCart, items)
}

// -------- demo orders --------

func (s *Session) DemoOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := s.getJSON(ctx, keyDemoOrders, &orders); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return orders, nil
}

func (s *Session) AppendDemoOrder(ctx context.Context, o *model.Order) error {
	orders, err := s.DemoOrders(ctx)
	if err != nil {
		return err
	}
	return s.setJSON(ctx, keyDemoOrders, append(orders, *o))
}

func (s *Session) FindDemoOrder(ctx context.Context, orderID string) (*model.Order, error) {
	orders, err := s.DemoOrders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// -------- local payments --------

func (s *Session) LocalPayments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := s.getJSON(ctx, keyLocalPayments, &payments); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return payments, nil
}

func (s *Session) AppendLocalPayment(ctx context.Context, p *model.Payment) error {
	payments, err := s.LocalPayments(ctx)
	if err != nil {
		return err
	}
	return s.setJSON(ctx, keyLocalPayments, append(payments, *p))
}

func (s *Session) FindLocalPayment(ctx context.Context, paymentID string) (*model.Payment, error) {
	payments, err := s.LocalPayments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].PaymentID == paymentID {
			return &payments[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Session) FindLocalPaymentByOrder(ctx context.Context, orderID string) (*model.Payment, error) {
	payments, err := s.LocalPayments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		if payments[i].OrderID == orderID {
			return &payments[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateLocalPayment replaces the stored record with the same paymentId.
func (s *Session) UpdateLocalPayment(ctx context.Context, p *model.Payment) error {
	payments, err := s.LocalPayments(ctx)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].PaymentID == p.PaymentID {
			payments[i] = *p
			return s.setJSON(ctx, keyLocalPayments, payments)
		}
	}
	return store.ErrNotFound
}

// -------- last order --------

func (s *Session) LastOrder(ctx context.Context) (*model.Order, error) {
	var o model.Order
	if err := s.getJSON(ctx, keyLastOrder, &o); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *Session) SetLastOrder(ctx context.Context, o *model.Order) error {
	return s.setJSON(ctx, keyLastOrder, o)
}
