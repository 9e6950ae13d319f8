package address

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Address, error)
	Create(ctx context.Context, a *Address) error
	// GetUserAddress returns the address only when it belongs to the user.
	GetUserAddress(ctx context.Context, addressID, userID string) (*Address, error)
	GetByID(ctx context.Context, addressID string) (*Address, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const addressColumns = `
	id, user_id, label, street, city, region, country, postal_code,
	latitude, longitude, created_at, updated_at
`

func scanAddress(row interface{ Scan(...any) error }) (*Address, error) {
	var a Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Label, &a.Street, &a.City, &a.Region,
		&a.Country, &a.PostalCode, &a.Latitude, &a.Longitude,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}

	return addresses, rows.Err()
}

func (r *repository) Create(ctx context.Context, a *Address) error {
	query := `
		INSERT INTO addresses (
			id, user_id, label, street, city, region, country,
			postal_code, latitude, longitude
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.Label, a.Street, a.City, a.Region,
		a.Country, a.PostalCode, a.Latitude, a.Longitude,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *repository) GetUserAddress(ctx context.Context, addressID, userID string) (*Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE id = $1 AND user_id = $2`

	a, err := scanAddress(r.db.QueryRowContext(ctx, query, addressID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (r *repository) GetByID(ctx context.Context, addressID string) (*Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE id = $1`

	a, err := scanAddress(r.db.QueryRowContext(ctx, query, addressID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}
