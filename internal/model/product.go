package model

import "time"

// Product belongs to exactly one outlet. Only the aggregate-relevant fields
// are owned here: current stock, total ever stocked, and unit price.
type Product struct {
	ID            int64     `json:"id"`
	OutletID      int64     `json:"outlet"`
	Name          string    `json:"name"`
	StockQuantity int64     `json:"stockQuantity"`
	TotalProduct  int64     `json:"totalProduct"` // total quantity ever stocked
	Price         float64   `json:"price"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductPatch carries a partial product update. Nil fields are left untouched.
type ProductPatch struct {
	Name          *string  `json:"name"`
	StockQuantity *int64   `json:"stockQuantity"`
	TotalProduct  *int64   `json:"totalProduct"`
	Price         *float64 `json:"price"`
}
