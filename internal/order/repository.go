package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sneakerwears-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists the order, its items, and the stock
	// reservations as one atomic unit. It fails with ErrInsufficientStock
	// (and leaves nothing behind) if any line cannot be reserved.
	CreateOrderTx(ctx context.Context, o *Order) error

	GetByReference(ctx context.Context, reference string) (*Order, error)
	GetDetail(ctx context.Context, orderID string) (*Order, error)
	GetItems(ctx context.Context, orderID string) ([]OrderItem, error)
	List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Order, error)

	// MarkPaid performs the settlement check-and-set. It returns true only
	// for the single caller that flips paid from false to true.
	MarkPaid(ctx context.Context, orderID string) (bool, error)

	// UpdateStatusTx applies an admin transition; moving into CANCELLED
	// restores the reserved stock in the same transaction.
	UpdateStatusTx(ctx context.Context, orderID string, status Status) ([]string, error)

	// ReleaseStale cancels unpaid PENDING orders created before the cutoff
	// and restores their stock. Returns the affected product ids.
	ReleaseStale(ctx context.Context, cutoff time.Time) ([]string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, user_id, subtotal, delivery_fee, total, currency,
	status, paid, reference, shipping_addr_id, created_at, updated_at
`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.DeliveryFee, &o.Total, &o.Currency,
		&o.Status, &o.Paid, &o.Reference, &o.ShippingAddrID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, subtotal, delivery_fee, total, currency,
			status, paid, reference, shipping_addr_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID, o.UserID, o.Subtotal, o.DeliveryFee, o.Total, o.Currency,
		o.Status, o.Paid, o.Reference, o.ShippingAddrID,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, title, price, qty, size)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			item.ID, o.ID, item.ProductID, item.Title, item.Price, item.Qty, item.Size,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		// Reserve stock. The guard makes concurrent checkouts for the same
		// product serialize on the row: whoever would drive stock negative
		// gets zero rows affected and the whole order rolls back.
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, item.Qty, item.ProductID)
		if err != nil {
			log.Error("failed to reserve stock",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			log.Warn("stock reservation rejected",
				zap.String("product_id", item.ProductID),
				zap.Int("qty", item.Qty),
			)
			return fmt.Errorf("%w for %s", ErrInsufficientStock, item.Title)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order created",
		zap.String("reference", o.Reference),
		zap.Float64("total", o.Total),
	)

	return nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE reference = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetDetail(ctx context.Context, orderID string) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *repository) GetItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, title, price, qty, size
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID,
			&item.Title, &item.Price, &item.Qty, &item.Size,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// buildListQuery is the single place the Filter criteria turn into SQL.
func buildListQuery(filter *Filter, sort *Sort, page *Page) (string, []any) {
	where := []string{"1=1"}
	args := []any{}

	if filter != nil {
		if filter.UserID != nil {
			args = append(args, *filter.UserID)
			where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
		}
		if filter.Status != nil {
			args = append(args, string(*filter.Status))
			where = append(where, fmt.Sprintf("status = $%d", len(args)))
		}
		if filter.DateFrom != nil {
			args = append(args, *filter.DateFrom)
			where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
		}
		if filter.DateTo != nil {
			args = append(args, *filter.DateTo)
			where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
		}
	}

	orderBy := "created_at DESC"
	if sort != nil {
		field := "created_at"
		if sort.Field == SortTotal {
			field = "total"
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

	query := `SELECT ` + orderColumns + `
	FROM orders
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY ` + orderBy + `
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, limit, offset)

	return query, args
}

func (r *repository) List(ctx context.Context, filter *Filter, sort *Sort, page *Page) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
	)

	query, args := buildListQuery(filter, sort, page)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// MarkPaid is the settlement transition. The WHERE clause is the guard: two
// racing callers both reach here, but only one sees a row flip. The status
// check keeps a cancelled order cancelled; its stock was already restored
// and may have been resold.
func (r *repository) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET paid = true, status = 'PAID', updated_at = NOW()
		WHERE id = $1 AND paid = false AND status = 'PENDING'
	`, orderID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *repository) UpdateStatusTx(ctx context.Context, orderID string, status Status) ([]string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatusTx"),
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// The status guard makes a repeated CANCELLED request a no-op instead of
	// restoring stock twice.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status <> $1
	`, status, orderID)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID,
		).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrOrderNotFound
		}
		// Already in the requested status.
		committed = true
		return nil, tx.Commit()
	}

	var productIDs []string
	if status == StatusCancelled {
		rows, err := tx.QueryContext(ctx, `
			SELECT product_id FROM order_items WHERE order_id = $1
		`, orderID)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, err
			}
			productIDs = append(productIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE products p
			SET stock = p.stock + oi.qty, updated_at = NOW()
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_id = p.id
		`, orderID)
		if err != nil {
			log.Error("failed to restore stock", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	committed = true
	log.Info("order status updated")

	return productIDs, nil
}

func (r *repository) ReleaseStale(ctx context.Context, cutoff time.Time) ([]string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ReleaseStale"),
		zap.Time("cutoff", cutoff),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM orders
		WHERE status = 'PENDING' AND paid = false AND created_at < $1
	`, cutoff)
	if err != nil {
		return nil, err
	}

	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		stale = append(stale, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var productIDs []string
	for _, id := range stale {
		// Each order releases independently; a webhook settling one order
		// mid-sweep must not block the others. The status guard inside
		// UpdateStatusTx protects against that race: a freshly paid order is
		// no longer PENDING, but re-check here to avoid cancelling it.
		ids, err := r.releaseOne(ctx, id)
		if err != nil {
			log.Error("failed to release stale order",
				zap.String("order_id", id),
				zap.Error(err),
			)
			continue
		}
		productIDs = append(productIDs, ids...)
	}

	if len(stale) > 0 {
		log.Info("released stale orders", zap.Int("count", len(stale)))
	}

	return productIDs, nil
}

func (r *repository) releaseOne(ctx context.Context, orderID string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING' AND paid = false
	`, orderID)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Settled or cancelled since the sweep selected it.
		committed = true
		return nil, tx.Commit()
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT product_id FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	var productIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		productIDs = append(productIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products p
		SET stock = p.stock + oi.qty, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id
	`, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	committed = true
	return productIDs, nil
}
