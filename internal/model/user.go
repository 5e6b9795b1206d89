package model

import "time"

// Role names understood by the registration flow.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

// User is a platform account with a role. Outlet accounts are a separate
// identity (see Outlet).
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Provider  string    `json:"provider"`
	Confirmed bool      `json:"confirmed"`
	Blocked   bool      `json:"blocked"`
	RoleID    int64     `json:"-"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Address   string    `json:"address"`
	Pincode   string    `json:"pincode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Role is a platform role such as "customer" or "seller".
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// SanitizedUser is the outward-facing projection of a platform user.
type SanitizedUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	Confirmed bool      `json:"confirmed"`
	Blocked   bool      `json:"blocked"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Address   string    `json:"address,omitempty"`
	Pincode   string    `json:"pincode,omitempty"`
	Role      *Role     `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserPatch carries a partial user profile update. Nil fields are left
// untouched. Identity fields (username, email, password) are not patchable
// through the profile surface.
type UserPatch struct {
	City    *string `json:"city"`
	State   *string `json:"state"`
	Address *string `json:"address"`
	Pincode *string `json:"pincode"`
}

// Sanitize strips credentials and attaches the resolved role.
func (u *User) Sanitize(role *Role) *SanitizedUser {
	return &SanitizedUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Provider:  u.Provider,
		Confirmed: u.Confirmed,
		Blocked:   u.Blocked,
		City:      u.City,
		State:     u.State,
		Address:   u.Address,
		Pincode:   u.Pincode,
		Role:      role,
		CreatedAt: u.CreatedAt,
	}
}
