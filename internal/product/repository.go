package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sneakerwears-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id string, params UpdateParams) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, title, slug, description, price, discount, images,
	category, sizes, stock, featured, currency, created_at, updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Discount,
		pq.Array(&p.Images), &p.Category, pq.Array(&p.Sizes),
		&p.Stock, &p.Featured, &p.Currency, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// buildListQuery is the single place the Filter criteria turn into SQL.
func buildListQuery(filter *Filter, sort *Sort, page *Page) (string, []any) {
	where := []string{"1=1"}
	args := []any{}

	if filter != nil {
		if filter.Category != nil {
			args = append(args, string(*filter.Category))
			where = append(where, fmt.Sprintf("category = $%d", len(args)))
		}
		if filter.Featured != nil {
			args = append(args, *filter.Featured)
			where = append(where, fmt.Sprintf("featured = $%d", len(args)))
		}
		if filter.Search != nil && *filter.Search != "" {
			args = append(args, "%"+*filter.Search+"%")
			where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
		}
		if filter.MinPrice != nil {
			args = append(args, *filter.MinPrice)
			where = append(where, fmt.Sprintf("price >= $%d", len(args)))
		}
		if filter.MaxPrice != nil {
			args = append(args, *filter.MaxPrice)
			where = append(where, fmt.Sprintf("price <= $%d", len(args)))
		}
		if filter.InStock != nil {
			if *filter.InStock {
				where = append(where, "stock > 0")
			} else {
				where = append(where, "stock = 0")
			}
		}
	}

	orderBy := "created_at DESC"
	if sort != nil {
		field := "created_at"
		switch sort.Field {
		case SortPrice:
			field = "price"
		case SortTitle:
			field = "title"
		}
		dir := "DESC"
		if sort.Direction == SortAsc {
			dir = "ASC"
		}
		orderBy = field + " " + dir
	}

	limit := 20
	pageNum := 1
	if page != nil {
		if page.Limit > 0 {
			limit = page.Limit
		}
		if limit > 100 {
			limit = 100
		}
		if page.Page > 0 {
			pageNum = page.Page
		}
	}
	offset := (pageNum - 1) * limit

	query := `SELECT ` + productColumns + `
	FROM products
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY ` + orderBy + `
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, limit, offset)

	return query, args
}

func (r *repository) List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	query, args := buildListQuery(filter, sort, page)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (
			id, title, slug, description, price, discount, images,
			category, sizes, stock, featured, currency
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Slug, p.Description, p.Price, p.Discount,
		pq.Array(p.Images), p.Category, pq.Array(p.Sizes),
		p.Stock, p.Featured, p.Currency,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repository) Update(ctx context.Context, id string, params UpdateParams) (*Product, error) {
	query := `
		UPDATE products
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    price = COALESCE($3, price),
		    discount = COALESCE($4, discount),
		    images = COALESCE($5, images),
		    category = COALESCE($6, category),
		    sizes = COALESCE($7, sizes),
		    stock = COALESCE($8, stock),
		    featured = COALESCE($9, featured),
		    updated_at = NOW()
		WHERE id = $10
		RETURNING ` + productColumns

	var images, sizes any
	if params.Images != nil {
		images = pq.Array(params.Images)
	}
	if params.Sizes != nil {
		sizes = pq.Array(params.Sizes)
	}

	var category any
	if params.Category != nil {
		category = string(*params.Category)
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		params.Title, params.Description, params.Price, params.Discount,
		images, category, sizes, params.Stock, params.Featured, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
