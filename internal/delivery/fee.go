// Package delivery computes the shipping fee added to every order total.
package delivery

import (
	"context"

	"sneakerwears-be/internal/address"
	"sneakerwears-be/internal/config"
)

// FeeProvider returns the delivery fee in NGN for a shipping destination.
type FeeProvider interface {
	Fee(ctx context.Context, dest *address.Address) float64
}

// NewProvider selects the configured fee policy. Flat is the live policy;
// distance-based pricing needs address coordinates and falls back to the
// flat fee without them.
func NewProvider(cfg *config.Config) FeeProvider {
	if cfg.DeliveryFeeMode == config.DeliveryFeeDistance {
		return &DistanceProvider{
			BaseFee:  cfg.BaseDeliveryFee,
			PerKmFee: cfg.PerKmFee,
			Fallback: cfg.DeliveryFee,
		}
	}
	return &FlatProvider{Amount: cfg.DeliveryFee}
}

// FlatProvider charges one constant fee for every destination.
type FlatProvider struct {
	Amount float64
}

func (p *FlatProvider) Fee(ctx context.Context, dest *address.Address) float64 {
	return p.Amount
}
