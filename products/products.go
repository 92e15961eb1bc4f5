package products

import "context"

// Product is the minimal catalogue view the storefront listing needs.
// Unreleased products are visible only to authorized staff.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Released bool    `json:"released"`
}

// Repo is the external product store.
type Repo interface {
	// List returns products; when releasedOnly is true, unreleased
	// products are filtered out.
	List(ctx context.Context, releasedOnly bool) ([]Product, error)
}
