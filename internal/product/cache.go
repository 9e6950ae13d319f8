package product

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// Cache is a read-through cache for product details. Stock and price change
// with every checkout, so entries are short-lived and invalidated on any
// write that touches the product row.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) key(id string) string {
	return "product:" + id
}

func (c *Cache) Get(ctx context.Context, id string) (*Product, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}

	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *Cache) Set(ctx context.Context, p *Product) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(p.ID), data, cacheTTL).Err()
}

func (c *Cache) Invalidate(ctx context.Context, ids ...string) {
	if c == nil || c.rdb == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.key(id)
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
