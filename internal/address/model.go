package address

import (
	"strings"
	"time"
)

type Address struct {
	ID         string
	UserID     string
	Label      *string
	Street     string
	City       string
	Region     *string
	Country    string
	PostalCode *string

	// Optional coordinates for distance-based delivery pricing.
	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateParams struct {
	Label      *string
	Street     string
	City       string
	Region     *string
	Country    string
	PostalCode *string
	Latitude   *float64
	Longitude  *float64
}

// Format renders the address as a single shipping line, skipping blanks.
func Format(a *Address) string {
	if a == nil {
		return "N/A"
	}

	parts := []string{a.Street, a.City}
	if a.Region != nil {
		parts = append(parts, *a.Region)
	}
	parts = append(parts, a.Country)
	if a.PostalCode != nil {
		parts = append(parts, *a.PostalCode)
	}

	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
