// Package areas manages delivery areas: the geographic units a shopper picks
// before browsing stores.
package areas

import "time"

type Area struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
