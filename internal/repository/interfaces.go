package repository

import (
	"context"
	"errors"

	"outlethub-api/internal/model"
)

// Sentinel errors shared by all store backends.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate value")
)

// OutletRepository defines outlet data access methods. Capability methods are
// deliberately narrow; services never get a free-form query handle.
type OutletRepository interface {
	// Create persists a new outlet and returns it with its assigned ID.
	Create(ctx context.Context, outlet *model.Outlet) (*model.Outlet, error)

	// FindByID retrieves an outlet by ID.
	FindByID(ctx context.Context, id int64) (*model.Outlet, error)

	// FindByUsername retrieves an outlet by exact username match.
	FindByUsername(ctx context.Context, username string) (*model.Outlet, error)

	// FindBySeller retrieves all outlets owned by a platform user, oldest first.
	FindBySeller(ctx context.Context, userID int64) ([]*model.Outlet, error)

	// Update applies a full outlet record write (statistics counters excluded).
	Update(ctx context.Context, outlet *model.Outlet) error

	// UpdateStats replaces the three derived counters for one outlet.
	UpdateStats(ctx context.Context, id int64, stats model.OutletStats) error

	// List returns all outlets.
	List(ctx context.Context) ([]*model.Outlet, error)
}

// ProductRepository defines product data access methods.
type ProductRepository interface {
	// Create persists a new product and returns it with its assigned ID.
	Create(ctx context.Context, product *model.Product) (*model.Product, error)

	// FindByID retrieves a product by ID.
	FindByID(ctx context.Context, id int64) (*model.Product, error)

	// FindByOutlet retrieves all products whose outlet reference matches.
	FindByOutlet(ctx context.Context, outletID int64) ([]*model.Product, error)

	// Update applies a full product record write.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines platform user and role data access methods.
type UserRepository interface {
	// Create persists a new user and returns it with its assigned ID.
	Create(ctx context.Context, user *model.User) (*model.User, error)

	// FindByID retrieves a user by ID.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail retrieves a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByUsername retrieves a user by username.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Update applies a full user record write.
	Update(ctx context.Context, user *model.User) error

	// FindByRole retrieves all users holding the named role.
	FindByRole(ctx context.Context, roleName string) ([]*model.User, error)

	// FindRoleByName resolves a role by its name.
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)

	// FindRoleByID resolves a role by ID.
	FindRoleByID(ctx context.Context, id int64) (*model.Role, error)
}

// Store bundles the repositories of one backing store.
type Store interface {
	Outlets() OutletRepository
	Products() ProductRepository
	Users() UserRepository

	// Stats returns counters about the store itself, for the admin surface.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the underlying connection.
	Close() error
}
