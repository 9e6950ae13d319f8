package main

import (
	"log"

	"sneakerwears-be/internal/config"
	"sneakerwears-be/internal/db"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone TEXT,
		avatar TEXT,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS addresses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		label TEXT,
		street TEXT NOT NULL,
		city TEXT NOT NULL,
		region TEXT,
		country TEXT NOT NULL,
		postal_code TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL CHECK (price > 0),
		discount DOUBLE PRECISION CHECK (discount >= 0 AND discount <= 100),
		images TEXT[] NOT NULL DEFAULT '{}',
		category TEXT NOT NULL,
		sizes TEXT[] NOT NULL DEFAULT '{}',
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		currency TEXT NOT NULL DEFAULT 'NGN',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS cart_items (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		size TEXT,
		qty INTEGER NOT NULL CHECK (qty > 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// One cart row per (user, product, size); NULL sizes collapse via COALESCE.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_user_product_size
		ON cart_items (user_id, product_id, COALESCE(size, ''))`,

	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		subtotal DOUBLE PRECISION NOT NULL,
		delivery_fee DOUBLE PRECISION NOT NULL,
		total DOUBLE PRECISION NOT NULL,
		currency TEXT NOT NULL DEFAULT 'NGN',
		status TEXT NOT NULL DEFAULT 'PENDING',
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		reference TEXT NOT NULL UNIQUE,
		shipping_addr_id TEXT NOT NULL REFERENCES addresses(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_orders_user_created
		ON orders (user_id, created_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_orders_stale
		ON orders (created_at) WHERE status = 'PENDING' AND paid = FALSE`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT NOT NULL REFERENCES products(id),
		title TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL,
		qty INTEGER NOT NULL CHECK (qty > 0),
		size TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_order_items_order
		ON order_items (order_id)`,
}

func main() {
	cfg := config.LoadConfig()
	database := db.InitDB(cfg)
	defer database.Close()

	for i, stmt := range schema {
		if _, err := database.Exec(stmt); err != nil {
			log.Fatalf("migration statement %d failed: %v", i, err)
		}
	}

	log.Println("migrations applied")
}
