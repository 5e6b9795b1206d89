package model

import "time"

// Outlet is a seller-owned storefront account with its own credentials
// and derived statistics counters.
type Outlet struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Password     string    `json:"-"` // bcrypt hash, never serialized
	City         string    `json:"city"`
	State        string    `json:"state"`
	Address      string    `json:"address"`
	Pincode      string    `json:"pincode"`
	UserSellerID int64     `json:"user_seller,omitempty"` // owning platform user, 0 = none
	TotalProduct int64     `json:"totalProducts"`
	TotalQty     int64     `json:"totalQuantity"`
	TotalRevenue float64   `json:"totalRevenue"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile returns the outward-facing projection of the outlet.
// The password hash is excluded by construction, not by tag alone, so no
// response path can leak it.
func (o *Outlet) Profile() *OutletProfile {
	return &OutletProfile{
		ID:           o.ID,
		Name:         o.Name,
		Username:     o.Username,
		City:         o.City,
		State:        o.State,
		Address:      o.Address,
		Pincode:      o.Pincode,
		UserSellerID: o.UserSellerID,
		TotalProduct: o.TotalProduct,
		TotalQty:     o.TotalQty,
		TotalRevenue: o.TotalRevenue,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// OutletProfile is the sanitized outlet record returned by the API.
type OutletProfile struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Address      string    `json:"address"`
	Pincode      string    `json:"pincode"`
	UserSellerID int64     `json:"user_seller,omitempty"`
	TotalProduct int64     `json:"totalProducts"`
	TotalQty     int64     `json:"totalQuantity"`
	TotalRevenue float64   `json:"totalRevenue"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OutletPatch carries a partial outlet update. Nil fields are left untouched.
type OutletPatch struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Address  *string `json:"address"`
	Pincode  *string `json:"pincode"`
}
