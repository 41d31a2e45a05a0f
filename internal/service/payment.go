package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/session"
	"storefront/internal/store"
)

// Outcome distinguishes a real backend result from a locally simulated one.
// The frontend collapsed both into indistinguishable success; callers here
// always know which one they got.
type Outcome int

const (
	OutcomeBackend Outcome = iota // the backend confirmed the operation
	OutcomeLocal                  // degraded: simulated in the session store
	OutcomeFailed                 // neither backend nor local fallback worked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBackend:
		return "backend"
	case OutcomeLocal:
		return "local"
	default:
		return "failed"
	}
}

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentService submits payments to the payment service and falls back to
// local simulation when the call fails. The simulation always approves:
// checkout never shows the buyer an unresolved payment.
type PaymentService struct {
	gateway client.Gateway
}

func NewPaymentService(gateway client.Gateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

func (s *PaymentService) Process(ctx context.Context, sess *session.Session, req *client.PaymentRequest) (*model.Payment, Outcome, error) {
	token := sess.Token(ctx)
	if token != "" && !sess.DemoMode(ctx) {
		payment, err := s.gateway.CreatePayment(ctx, token, req)
		if err == nil {
			return payment, OutcomeBackend, nil
		}
		// any backend failure degrades to the local simulation
	}

	payment := s.simulate(req)
	if err := sess.AppendLocalPayment(ctx, payment); err != nil {
		return nil, OutcomeFailed, fmt.Errorf("persist local payment: %w", err)
	}
	return payment, OutcomeLocal, nil
}

func (s *PaymentService) simulate(req *client.PaymentRequest) *model.Payment {
	return &model.Payment{
		PaymentID:     uuid.NewString(),
		OrderID:       req.OrderID,
		UserID:        req.UserID,
		Status:        model.PaymentApproved,
		Method:        req.PaymentMethod,
		Amount:        req.Amount,
		TransactionID: "local-txn-" + uuid.NewString()[:8],
		PaymentDate:   time.Now(),
	}
}

// Status resolves a payment by id, or by order when given the "order/<id>"
// form. Local records win; the backend is consulted next; and when nothing
// turns up an APPROVED record is synthesized so the caller never sees an
// unknown state.
func (s *PaymentService) Status(ctx context.Context, sess *session.Session, id string) (*model.Payment, error) {
	if orderID, ok := strings.CutPrefix(id, "order/"); ok {
		if payment, err := sess.FindLocalPaymentByOrder(ctx, orderID); err == nil {
			return payment, nil
		}
		if token := sess.Token(ctx); token != "" && !sess.DemoMode(ctx) {
			if payment, err := s.gateway.PaymentByOrder(ctx, token, orderID); err == nil {
				return payment, nil
			}
		}
		return s.synthesize(id, orderID), nil
	}

	if payment, err := sess.FindLocalPayment(ctx, id); err == nil {
		return payment, nil
	}
	return s.synthesize(id, ""), nil
}

func (s *PaymentService) synthesize(paymentID, orderID string) *model.Payment {
	if paymentID == "" || strings.HasPrefix(paymentID, "order/") {
		paymentID = uuid.NewString()
	}
	return &model.Payment{
		PaymentID:     paymentID,
		OrderID:       orderID,
		Status:        model.PaymentApproved,
		Method:        model.MethodCreditCard,
		TransactionID: "simulated-" + uuid.NewString()[:8],
		PaymentDate:   time.Now(),
	}
}

// Refund reverses a payment for an order. Backend first; otherwise the local
// record is flipped to REFUNDED and, when requested, the order's stock is
// restored item by item on a best-effort basis.
func (s *PaymentService) Refund(ctx context.Context, sess *session.Session, orderID string, restoreStock bool) (*model.Payment, Outcome, error) {
	token := sess.Token(ctx)
	if token != "" && !sess.DemoMode(ctx) {
		payment, err := s.gateway.RefundPayment(ctx, token, orderID)
		if err == nil {
			return payment, OutcomeBackend, nil
		}
	}

	payment, err := sess.FindLocalPaymentByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, OutcomeFailed, ErrPaymentNotFound
		}
		return nil, OutcomeFailed, err
	}

	now := time.Now()
	payment.Status = model.PaymentRefunded
	payment.RefundDate = &now
	payment.RefundAmount = payment.Amount
	if err := sess.UpdateLocalPayment(ctx, payment); err != nil {
		return nil, OutcomeFailed, fmt.Errorf("update local payment: %w", err)
	}

	if restoreStock {
		s.restoreStock(ctx, sess, orderID)
	}
	return payment, OutcomeLocal, nil
}

func (s *PaymentService) restoreStock(ctx context.Context, sess *session.Session, orderID string) {
	order, err := sess.FindDemoOrder(ctx, orderID)
	if err != nil {
		if order, err = sess.LastOrder(ctx); err != nil || order.ID != orderID {
			return
		}
	}
	token := sess.Token(ctx)
	for _, item := range order.Items {
		// best effort; a failed restore leaves the count off by one order
		_ = s.gateway.AdjustStock(ctx, token, item.ProductID, item.Quantity)
	}
}
