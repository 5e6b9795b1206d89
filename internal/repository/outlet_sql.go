package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"outlethub-api/internal/model"
)

type sqlOutletRepo struct {
	store *SQLStore
}

const outletColumns = `id, name, username, password, city, state, address, pincode,
	user_seller_id, total_products, total_quantity, total_revenue, created_at, updated_at`

func scanOutlet(row interface{ Scan(...interface{}) error }) (*model.Outlet, error) {
	var o model.Outlet
	err := row.Scan(
		&o.ID, &o.Name, &o.Username, &o.Password, &o.City, &o.State,
		&o.Address, &o.Pincode, &o.UserSellerID,
		&o.TotalProduct, &o.TotalQty, &o.TotalRevenue,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *sqlOutletRepo) Create(ctx context.Context, outlet *model.Outlet) (*model.Outlet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	outlet.CreatedAt = now
	outlet.UpdatedAt = now

	res, err := r.store.db.ExecContext(ctx, `
		INSERT INTO outlets (name, username, password, city, state, address, pincode,
			user_seller_id, total_products, total_quantity, total_revenue, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outlet.Name, outlet.Username, outlet.Password, outlet.City, outlet.State,
		outlet.Address, outlet.Pincode, outlet.UserSellerID,
		outlet.TotalProduct, outlet.TotalQty, outlet.TotalRevenue, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outlet: %w", mapWriteErr(err))
	}

	outlet.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read outlet id: %w", err)
	}
	return outlet, nil
}

func (r *sqlOutletRepo) FindByID(ctx context.Context, id int64) (*model.Outlet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+outletColumns+` FROM outlets WHERE id = ?`, id)
	o, err := scanOutlet(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find outlet %d: %w", id, err)
	}
	return o, nil
}

func (r *sqlOutletRepo) FindByUsername(ctx context.Context, username string) (*model.Outlet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+outletColumns+` FROM outlets WHERE username = ?`, username)
	o, err := scanOutlet(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find outlet %q: %w", username, err)
	}
	return o, nil
}

func (r *sqlOutletRepo) FindBySeller(ctx context.Context, userID int64) ([]*model.Outlet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+outletColumns+` FROM outlets WHERE user_seller_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outlets for seller %d: %w", userID, err)
	}
	defer rows.Close()

	return collectOutlets(rows)
}

func (r *sqlOutletRepo) Update(ctx context.Context, outlet *model.Outlet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	outlet.UpdatedAt = time.Now().UTC()

	// MySQL reports zero affected rows for a no-change update, so existence
	// is the caller's concern; callers fetch before writing.
	_, err := r.store.db.ExecContext(ctx, `
		UPDATE outlets SET name = ?, username = ?, password = ?, city = ?, state = ?,
			address = ?, pincode = ?, user_seller_id = ?, updated_at = ?
		WHERE id = ?`,
		outlet.Name, outlet.Username, outlet.Password, outlet.City, outlet.State,
		outlet.Address, outlet.Pincode, outlet.UserSellerID, outlet.UpdatedAt, outlet.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update outlet %d: %w", outlet.ID, mapWriteErr(err))
	}
	return nil
}

func (r *sqlOutletRepo) UpdateStats(ctx context.Context, id int64, stats model.OutletStats) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, err := r.store.db.ExecContext(ctx, `
		UPDATE outlets SET total_products = ?, total_quantity = ?, total_revenue = ?, updated_at = ?
		WHERE id = ?`,
		stats.TotalProducts, stats.TotalQuantity, stats.TotalRevenue, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats for outlet %d: %w", id, err)
	}
	return nil
}

func (r *sqlOutletRepo) List(ctx context.Context) ([]*model.Outlet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+outletColumns+` FROM outlets ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	defer rows.Close()

	return collectOutlets(rows)
}

func collectOutlets(rows *sql.Rows) ([]*model.Outlet, error) {
	var outlets []*model.Outlet
	for rows.Next() {
		o, err := scanOutlet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outlet: %w", err)
		}
		outlets = append(outlets, o)
	}
	return outlets, rows.Err()
}
