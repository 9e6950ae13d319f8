package order

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          string
	UserID      string
	Subtotal    float64
	DeliveryFee float64
	Total       float64
	Currency    string
	Status      Status
	// Paid is the settlement gate: it flips false->true exactly once.
	Paid           bool
	Reference      string
	ShippingAddrID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []OrderItem
}

// OrderItem is an immutable snapshot taken at order creation; later product
// price or discount changes never touch it.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Title     string
	Price     float64 // post-discount, at order time
	Qty       int
	Size      *string
}

// CheckoutResult is what the caller needs to redirect to the hosted payment page.
type CheckoutResult struct {
	OrderID          string  `json:"orderId"`
	Reference        string  `json:"reference"`
	Subtotal         float64 `json:"subtotal"`
	DeliveryFee      float64 `json:"deliveryFee"`
	Total            float64 `json:"total"`
	AuthorizationURL string  `json:"authorization_url"`
	AccessCode       string  `json:"access_code"`
}

type SettleResult struct {
	OrderID     string
	Status      Status
	AlreadyPaid bool
}

type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortTotal     SortField = "total"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Filter is the structured criteria object for order listings; one query
// builder interprets it.
type Filter struct {
	UserID   *string
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}

type Sort struct {
	Field     SortField
	Direction SortDirection
}

type Page struct {
	Limit int
	Page  int
}
