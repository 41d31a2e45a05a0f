package client

import (
	"encoding/json"
	"strings"
	"time"

	"storefront/internal/model"
)

// The order and payment services disagree on field names (totalPrice vs
// totalAmount, createdAt vs orderDate, items vs orderItems) and on timestamp
// formats. Everything is normalized into the canonical model types here, at
// the API boundary.

// flexID accepts both string and numeric ids; the product service hands out
// strings while order and payment ids are numeric.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	*id = flexID(s)
	return nil
}

func (id flexID) String() string { return string(id) }

type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: s}
}

type wireOrderItem struct {
	ProductID flexID  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	UnitPrice float64 `json:"unitPrice"`
}

type wireOrder struct {
	ID              flexID          `json:"id"`
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	Items           []wireOrderItem `json:"items"`
	OrderItems      []wireOrderItem `json:"orderItems"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalAmount     *float64        `json:"totalAmount"`
	TotalPrice      *float64        `json:"totalPrice"`
	TrackingNumber  string          `json:"trackingNumber"`
	CreatedAt       *flexTime       `json:"createdAt"`
	OrderDate       *flexTime       `json:"orderDate"`
	UpdatedAt       *flexTime       `json:"updatedAt"`
}

func (w *wireOrder) canonical() *model.Order {
	o := &model.Order{
		ID:             w.ID.String(),
		UserID:         w.UserID,
		Status:         model.OrderStatus(strings.ToUpper(w.Status)),
		PaymentMethod:  model.PaymentMethod(strings.ToUpper(w.PaymentMethod)),
		PaymentStatus:  model.PaymentStatus(strings.ToUpper(w.PaymentStatus)),
		ShippingPrice:  w.ShippingPrice,
		TrackingNumber: w.TrackingNumber,
	}

	items := w.Items
	if len(items) == 0 {
		items = w.OrderItems
	}
	for _, it := range items {
		price := it.Price
		if price == 0 {
			price = it.UnitPrice
		}
		o.Items = append(o.Items, model.OrderItem{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			Price:     price,
		})
	}

	switch {
	case w.TotalAmount != nil:
		o.TotalAmount = *w.TotalAmount
	case w.TotalPrice != nil:
		o.TotalAmount = *w.TotalPrice
	default:
		o.TotalAmount = model.Round2(o.Subtotal() + o.ShippingPrice)
	}

	if w.CreatedAt != nil {
		o.CreatedAt = w.CreatedAt.Time
	} else if w.OrderDate != nil {
		o.CreatedAt = w.OrderDate.Time
	}
	if w.UpdatedAt != nil {
		o.UpdatedAt = w.UpdatedAt.Time
	}

	// shippingAddress arrives as an object from the order service but as a
	// flat string from older records
	if len(w.ShippingAddress) > 0 {
		var addr model.Address
		if err := json.Unmarshal(w.ShippingAddress, &addr); err == nil {
			o.ShippingAddress = addr
		} else {
			var s string
			if err := json.Unmarshal(w.ShippingAddress, &s); err == nil {
				o.ShippingAddress = model.Address{Street: s}
			}
		}
	}
	return o
}

type wirePayment struct {
	PaymentID     flexID    `json:"paymentId"`
	ID            flexID    `json:"id"`
	OrderID       flexID    `json:"orderId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	Method        string    `json:"paymentMethod"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transactionId"`
	ErrorMessage  string    `json:"errorMessage"`
	PaymentDate   *flexTime `json:"paymentDate"`
}

func (w *wirePayment) canonical() *model.Payment {
	p := &model.Payment{
		PaymentID:     w.PaymentID.String(),
		OrderID:       w.OrderID.String(),
		UserID:        w.UserID,
		Status:        model.PaymentStatus(strings.ToUpper(w.Status)),
		Method:        model.PaymentMethod(strings.ToUpper(w.Method)),
		Amount:        w.Amount,
		TransactionID: w.TransactionID,
		ErrorMessage:  w.ErrorMessage,
	}
	if p.PaymentID == "" {
		p.PaymentID = w.ID.String()
	}
	if w.PaymentDate != nil {
		p.PaymentDate = w.PaymentDate.Time
	}
	return p
}
