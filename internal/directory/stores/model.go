// Package stores manages the store directory: registration state, delivery
// terms and area coverage.
package stores

import "time"

// Status is the store lifecycle state. Only active stores resolve publicly.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusClosed    Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusClosed:
		return true
	default:
		return false
	}
}

type Store struct {
	ID               int64     `json:"id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Status           Status    `json:"status"`
	DeliveryFee      float64   `json:"delivery_fee"`
	FreeDeliveryOver *float64  `json:"free_delivery_over,omitempty"`
	MinimumOrder     float64   `json:"minimum_order"`
	AreaIDs          []int64   `json:"area_ids,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
