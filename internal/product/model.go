package product

import "time"

type Category string

const (
	CategorySneakers Category = "sneakers"
	CategoryMen      Category = "men"
	CategoryWomen    Category = "women"
)

func (c Category) Valid() bool {
	switch c {
	case CategorySneakers, CategoryMen, CategoryWomen:
		return true
	}
	return false
}

type Product struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Price       float64
	Discount    *float64 // percentage, 0-100
	Images      []string
	Category    Category
	Sizes       []string
	Stock       int
	Featured    bool
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EffectivePrice is the price after applying the discount percentage.
func (p *Product) EffectivePrice() float64 {
	if p.Discount != nil && *p.Discount > 0 {
		return p.Price * (1 - *p.Discount/100)
	}
	return p.Price
}

type CreateParams struct {
	Title       string
	Description string
	Price       float64
	Discount    *float64
	Images      []string
	Category    Category
	Sizes       []string
	Stock       int
	Featured    bool
}

type UpdateParams struct {
	Title       *string
	Description *string
	Price       *float64
	Discount    *float64
	Images      []string
	Category    *Category
	Sizes       []string
	Stock       *int
	Featured    *bool
}

type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortPrice     SortField = "price"
	SortTitle     SortField = "title"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Filter is the structured criteria object interpreted by one fixed query
// builder; call sites never append SQL fragments themselves.
type Filter struct {
	Category *Category
	Featured *bool
	Search   *string
	MinPrice *float64
	MaxPrice *float64
	InStock  *bool
}

type Sort struct {
	Field     SortField
	Direction SortDirection
}

type Page struct {
	Limit int
	Page  int
}
