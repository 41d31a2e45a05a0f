package model

import (
	"math"
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderReturned   OrderStatus = "RETURNED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

// Terminal reports whether the order can no longer change status on its own.
// Admin-forced transitions may still override a terminal status.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
	PaymentRefunded PaymentStatus = "REFUNDED"
	PaymentFailed   PaymentStatus = "FAILED"
)

func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentApproved, PaymentRejected, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "CREDIT_CARD"
	MethodBoleto     PaymentMethod = "BOLETO"
	MethodPix        PaymentMethod = "PIX"
)

type User struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Name      string   `json:"name"`
	Token     string   `json:"token"`
	Roles     []string `json:"roles"`
}

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

type OrderItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId,omitempty"`
	Status          OrderStatus   `json:"status"`
	Items           []OrderItem   `json:"items"`
	ShippingAddress Address       `json:"shippingAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentStatus   PaymentStatus `json:"paymentStatus,omitempty"`
	ShippingPrice   float64       `json:"shippingPrice"`
	TotalAmount     float64       `json:"totalAmount"`
	TrackingNumber  string        `json:"trackingNumber,omitempty"`
	Demo            bool          `json:"demo,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt,omitempty"`
}

// Subtotal is the item total without shipping.
func (o *Order) Subtotal() float64 {
	sum := 0.0
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return Round2(sum)
}

type Payment struct {
	PaymentID     string        `json:"paymentId"`
	OrderID       string        `json:"orderId"`
	UserID        string        `json:"userId,omitempty"`
	Status        PaymentStatus `json:"status"`
	Method        PaymentMethod `json:"paymentMethod"`
	Amount        float64       `json:"amount"`
	TransactionID string        `json:"transactionId,omitempty"`
	ErrorMessage  string        `json:"errorMessage,omitempty"`
	PaymentDate   time.Time     `json:"paymentDate"`
	RefundDate    *time.Time    `json:"refundDate,omitempty"`
	RefundAmount  float64       `json:"refundAmount,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Round2 rounds a monetary amount to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
