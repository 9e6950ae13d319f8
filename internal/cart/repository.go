package cart

import (
	"context"
	"database/sql"
	"errors"

	"sneakerwears-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetLines(ctx context.Context, userID string) ([]*Line, error)
	GetItemByUserProductSize(ctx context.Context, userID, productID string, size *string) (*CartItem, error)
	CreateItem(ctx context.Context, item *CartItem) error
	UpdateItemQty(ctx context.Context, itemID, userID string, qty int) error
	RemoveItem(ctx context.Context, itemID, userID string) error
	ClearCart(ctx context.Context, userID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetLines(ctx context.Context, userID string) ([]*Line, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCartLines"),
		zap.String("user_id", userID),
	)

	query := `
		SELECT
			ci.id,
			ci.user_id,
			ci.product_id,
			ci.size,
			ci.qty,
			ci.created_at,
			ci.updated_at,
			p.title,
			p.slug,
			p.price,
			p.discount,
			p.images,
			p.stock,
			p.currency
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query cart lines", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var lines []*Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ProductID, &l.Size, &l.Qty,
			&l.CreatedAt, &l.UpdatedAt,
			&l.Title, &l.Slug, &l.Price, &l.Discount,
			pq.Array(&l.Images), &l.Stock, &l.Currency,
		); err != nil {
			log.Error("failed to scan cart line", zap.Error(err))
			return nil, err
		}
		lines = append(lines, &l)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	return lines, nil
}

func (r *repository) GetItemByUserProductSize(ctx context.Context, userID, productID string, size *string) (*CartItem, error) {
	query := `
		SELECT id, user_id, product_id, size, qty, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		  AND product_id = $2
		  AND (size = $3 OR (size IS NULL AND $3 IS NULL))
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, userID, productID, size).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Size,
		&item.Qty, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, size, qty)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		item.ID, item.UserID, item.ProductID, item.Size, item.Qty,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *repository) UpdateItemQty(ctx context.Context, itemID, userID string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET qty = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, qty, itemID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) RemoveItem(ctx context.Context, itemID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
	`, itemID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// ClearCart removes every item the user has; settlement calls this after a
// payment lands, so an empty cart is not an error here.
func (r *repository) ClearCart(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
