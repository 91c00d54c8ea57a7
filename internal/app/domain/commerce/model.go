// Package commerce defines order and payment records.
package commerce

import "time"

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// ShippingAddress is the delivery/billing address captured at checkout.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Line1    string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	PostCode string `json:"postalCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}

// PaymentInfo records how an order was (or will be) paid.
type PaymentInfo struct {
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status,omitempty"`
	PaidAt    time.Time `json:"paidAt,omitempty"`
}

// Order is a placed order as the backend reports it. Totals on the record
// are the server's; the client's own total computation is display-only.
type Order struct {
	ID          string          `json:"_id"`
	UserID      string          `json:"user,omitempty"`
	Items       []OrderItem     `json:"orderItems"`
	Shipping    ShippingAddress `json:"shippingAddress"`
	Payment     PaymentInfo     `json:"payment,omitempty"`
	ItemsTotal  float64         `json:"itemsPrice"`
	TaxTotal    float64         `json:"taxPrice,omitempty"`
	Total       float64         `json:"totalPrice"`
	IsPaid      bool            `json:"isPaid"`
	IsDelivered bool            `json:"isDelivered,omitempty"`
	Status      string          `json:"status,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}
