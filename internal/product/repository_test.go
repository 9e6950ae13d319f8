package product

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery(t *testing.T) {
	t.Run("NoFilter", func(t *testing.T) {
		query, args := buildListQuery(nil, nil, nil)
		assert.Contains(t, query, "WHERE 1=1")
		assert.Contains(t, query, "ORDER BY created_at DESC")
		assert.Equal(t, []any{20, 0}, args)
	})

	t.Run("CategoryAndFeatured", func(t *testing.T) {
		cat := CategorySneakers
		featured := true
		query, args := buildListQuery(&Filter{Category: &cat, Featured: &featured}, nil, nil)
		assert.Contains(t, query, "category = $1")
		assert.Contains(t, query, "featured = $2")
		assert.Equal(t, []any{"sneakers", true, 20, 0}, args)
	})

	t.Run("SearchUsesOnePlaceholder", func(t *testing.T) {
		search := "air"
		query, args := buildListQuery(&Filter{Search: &search}, nil, nil)
		assert.Contains(t, query, "(title ILIKE $1 OR description ILIKE $1)")
		assert.Equal(t, []any{"%air%", 20, 0}, args)
	})

	t.Run("PriceRangeAndStock", func(t *testing.T) {
		minP, maxP := 1000.0, 5000.0
		inStock := true
		query, args := buildListQuery(&Filter{MinPrice: &minP, MaxPrice: &maxP, InStock: &inStock}, nil, nil)
		assert.Contains(t, query, "price >= $1")
		assert.Contains(t, query, "price <= $2")
		assert.Contains(t, query, "stock > 0")
		assert.Equal(t, []any{1000.0, 5000.0, 20, 0}, args)
	})

	t.Run("SortAndPagination", func(t *testing.T) {
		query, args := buildListQuery(nil,
			&Sort{Field: SortPrice, Direction: SortAsc},
			&Page{Limit: 10, Page: 4},
		)
		assert.Contains(t, query, "ORDER BY price ASC")
		assert.Equal(t, []any{10, 30}, args)
	})
}

func productTestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "slug", "description", "price", "discount",
		"images", "category", "sizes", "stock", "featured", "currency",
		"created_at", "updated_at",
	}).AddRow(
		"prod_1", "Air Max", "air-max", "Classic runner", 2000.0, nil,
		pq.Array([]string{"a.jpg"}), "sneakers", pq.Array([]string{"41", "42"}),
		5, true, "NGN", time.Now(), time.Now(),
	)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs("prod_1").
			WillReturnRows(productTestRows())

		p, err := repo.GetByID(ctx, "prod_1")
		require.NoError(t, err)
		assert.Equal(t, "Air Max", p.Title)
		assert.Equal(t, []string{"41", "42"}, p.Sizes)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
			WithArgs("prod_x").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, "prod_x")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestEffectivePrice(t *testing.T) {
	p := &Product{Price: 2000}
	assert.Equal(t, 2000.0, p.EffectivePrice())

	discount := 25.0
	p.Discount = &discount
	assert.Equal(t, 1500.0, p.EffectivePrice())

	zero := 0.0
	p.Discount = &zero
	assert.Equal(t, 2000.0, p.EffectivePrice())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "air-max-97", slugify("Air Max 97"))
	assert.Equal(t, "nike-dunk-low", slugify("  Nike  Dunk   Low  "))
	assert.Equal(t, "jordan-1-retro", slugify("Jordan 1 (Retro)!"))
}
