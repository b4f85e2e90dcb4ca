// Package orders provides the admin view over customer orders: listing,
// lookup and the status lifecycle.
package orders

import (
	"encoding/json"
	"time"
)

// Status represents the lifecycle of a customer order.
type Status string

const (
	StatusNew        Status = "new"        // Placed, awaiting the store
	StatusAccepted   Status = "accepted"   // Store confirmed and is preparing
	StatusDelivering Status = "delivering" // Courier on the way
	StatusCompleted  Status = "completed"  // Handed to the customer
	StatusCancelled  Status = "cancelled"  // Terminal abort, any pre-completion state
)

// IsValid checks if the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransition checks if moving to next is a legal lifecycle step. Forward
// steps go one at a time; cancellation is allowed from any non-terminal
// state.
func (s Status) CanTransition(next Status) bool {
	if next == StatusCancelled {
		return s != StatusCompleted && s != StatusCancelled
	}
	switch s {
	case StatusNew:
		return next == StatusAccepted
	case StatusAccepted:
		return next == StatusDelivering
	case StatusDelivering:
		return next == StatusCompleted
	default:
		return false
	}
}

// IsTerminal checks if no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Item is one order line, stored denormalized on the order since the
// effective catalog it was priced against is transient.
type Item struct {
	StoreProductID int64   `json:"store_product_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
}

type Order struct {
	ID              int64     `json:"id"`
	StoreID         int64     `json:"store_id"`
	Reference       string    `json:"reference"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	DeliveryAddress string    `json:"delivery_address"`
	Items           []Item    `json:"items"`
	Total           float64   `json:"total"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ItemsJSON renders the lines for the JSONB column.
func (o Order) ItemsJSON() ([]byte, error) {
	if o.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.Items)
}

// ListFilters narrows admin order listings.
type ListFilters struct {
	StoreID *int64
	Status  *Status
	Page    int
	Limit   int
}
