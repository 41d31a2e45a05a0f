package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrItemNotFound     = errors.New("cart item not found")
)

// CartService keeps the cart on the backend while the session is in good
// standing. The first 401/403 latches the session into demo mode: from then
// on the cart lives exclusively in the session store and the backend is
// never consulted again until an explicit reset. Non-auth failures
// propagate.
type CartService struct {
	gateway client.Gateway
	events  *Notifier
}

func NewCartService(gateway client.Gateway, events *Notifier) *CartService {
	return &CartService{gateway: gateway, events: events}
}

func (s *CartService) Items(ctx context.Context, sess *session.Session) ([]model.CartItem, error) {
	if sess.DemoMode(ctx) {
		return sess.DemoCart(ctx)
	}

	token := sess.Token(ctx)
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	items, err := s.gateway.CartItems(ctx, token)
	if err != nil {
		if client.IsAuthError(err) {
			if derr := sess.EnableDemoMode(ctx); derr != nil {
				return nil, derr
			}
			return sess.DemoCart(ctx)
		}
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	return items, nil
}

// Count returns the sum of quantities across the active store. Lookup
// failures other than auth rejections degrade to zero so the badge never
// breaks the page.
func (s *CartService) Count(ctx context.Context, sess *session.Session) (int, error) {
	if sess.DemoMode(ctx) {
		return s.demoCount(ctx, sess)
	}

	token := sess.Token(ctx)
	if token == "" {
		return 0, nil
	}

	count, err := s.gateway.CartCount(ctx, token)
	if err != nil {
		if client.IsAuthError(err) {
			if derr := sess.EnableDemoMode(ctx); derr != nil {
				return 0, derr
			}
			return s.demoCount(ctx, sess)
		}
		return 0, nil
	}
	return count, nil
}

func (s *CartService) demoCount(ctx context.Context, sess *session.Session) (int, error) {
	items, err := sess.DemoCart(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return count, nil
}

func (s *CartService) Add(ctx context.Context, sess *session.Session, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if sess.DemoMode(ctx) {
		return s.addDemo(ctx, sess, productID, quantity)
	}

	token := sess.Token(ctx)
	if token == "" {
		return ErrNotAuthenticated
	}

	if _, err := s.gateway.AddCartItem(ctx, token, productID, quantity); err != nil {
		if client.IsAuthError(err) {
			if derr := sess.EnableDemoMode(ctx); derr != nil {
				return derr
			}
			return s.addDemo(ctx, sess, productID, quantity)
		}
		return fmt.Errorf("add to cart: %w", err)
	}

	s.notifyChanged(ctx, sess)
	return nil
}

// addDemo mirrors the backend add into the session store, pulling product
// details from the public product endpoint.
func (s *CartService) addDemo(ctx context.Context, sess *session.Session, productID string, quantity int) error {
	items, err := sess.DemoCart(ctx)
	if err != nil {
		return err
	}

	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		product, err := s.gateway.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("add to demo cart: %w", err)
		}
		items = append(items, model.CartItem{
			ID:        productID,
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
		})
	}

	if err := sess.SetDemoCart(ctx, items); err != nil {
		return err
	}
	s.notifyChanged(ctx, sess)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, sess *session.Session, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if sess.DemoMode(ctx) {
		return s.updateDemo(ctx, sess, itemID, quantity)
	}

	token := sess.Token(ctx)
	if token == "" {
		return ErrNotAuthenticated
	}

	if err := s.gateway.UpdateCartItem(ctx, token, itemID, quantity); err != nil {
		if client.IsAuthError(err) {
			if derr := sess.EnableDemoMode(ctx); derr != nil {
				return derr
			}
			return s.updateDemo(ctx, sess, itemID, quantity)
		}
		return fmt.Errorf("update cart item: %w", err)
	}

	s.notifyChanged(ctx, sess)
	return nil
}

func (s *CartService) updateDemo(ctx context.Context, sess *session.Session, itemID string, quantity int) error {
	items, err := sess.DemoCart(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = quantity
			if err := sess.SetDemoCart(ctx, items); err != nil {
				return err
			}
			s.notifyChanged(ctx, sess)
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *CartService) Remove(ctx context.Context, sess *session.Session, itemID string) error {
	if sess.DemoMode(ctx) {
		return s.removeDemo(ctx, sess, itemID)
	}

	token := sess.Token(ctx)
	if token == "" {
		return ErrNotAuthenticated
	}

	if err := s.gateway.RemoveCartItem(ctx, token, itemID); err != nil {
		if client.IsAuthError(err) {
			if derr := sess.EnableDemoMode(ctx); derr != nil {
				return derr
			}
			return s.removeDemo(ctx, sess, itemID)
		}
		return fmt.Errorf("remove cart item: %w", err)
	}

	s.notifyChanged(ctx, sess)
	return nil
}

func (s *CartService) removeDemo(ctx context.Context, sess *session.Session, itemID string) error {
	items, err := sess.DemoCart(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == itemID {
			items = append(items[:i], items[i+1:]...)
			if err := sess.SetDemoCart(ctx, items); err != nil {
				return err
			}
			s.notifyChanged(ctx, sess)
			return nil
		}
	}
	// removing an absent item is a no-op, as in the frontend
	return nil
}

func (s *CartService) Clear(ctx context.Context, sess *session.Session) error {
	if sess.DemoMode(ctx) {
		if err := sess.SetDemoCart(ctx, nil); err != nil {
			return err
		}
		s.notifyChanged(ctx, sess)
		return nil
	}

	token := sess.Token(ctx)
	if token == "" {
		return ErrNotAuthenticated
	}

	if err := s.gateway.ClearCart(ctx, token); err != nil {
		if client.IsAuthError(err) {
			if derr := sess.EnableDemoMode(ctx); derr != nil {
				return derr
			}
			if derr := sess.SetDemoCart(ctx, nil); derr != nil {
				return derr
			}
			s.notifyChanged(ctx, sess)
			return nil
		}
		return fmt.Errorf("clear cart: %w", err)
	}

	s.notifyChanged(ctx, sess)
	return nil
}

func (s *CartService) notifyChanged(ctx context.Context, sess *session.Session) {
	if s.events == nil {
		return
	}
	count, _ := s.Count(ctx, sess)
	s.events.Publish(CartUpdate{SessionID: sess.ID(), Count: count})
}
