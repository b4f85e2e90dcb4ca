// Package categories manages the shared category tree used by global and
// custom products alike.
package categories

// Category is one node of the tree. Path is the slash-joined chain of ids
// from the root down to this node and Depth its distance from the root; both
// are derived server-side and never accepted from clients.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *int64 `json:"parent_id,omitempty"`
	Path     string `json:"path"`
	Depth    int    `json:"depth"`
}

// ListFilters narrows admin category listings.
type ListFilters struct {
	Search   string
	ParentID *int64
	Page     int
	Limit    int
}
