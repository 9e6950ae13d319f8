package cart

import "time"

type CartItem struct {
	ID        string
	UserID    string
	ProductID string
	Size      *string
	Qty       int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Line is a cart item joined with its product, as returned to callers and
// consumed by checkout. Price and discount reflect the product NOW; orders
// snapshot them at creation time.
type Line struct {
	CartItem
	Title    string
	Slug     string
	Price    float64
	Discount *float64
	Images   []string
	Stock    int
	Currency string
}

// EffectivePrice is the per-unit price after discount.
func (l *Line) EffectivePrice() float64 {
	if l.Discount != nil && *l.Discount > 0 {
		return l.Price * (1 - *l.Discount/100)
	}
	return l.Price
}

type AddParams struct {
	UserID    string
	ProductID string
	Size      *string
	Qty       int
}

type CartView struct {
	Items     []*Line
	Subtotal  float64
	ItemCount int
}
