package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"outlethub-api/internal/model"
)

type sqlProductRepo struct {
	store *SQLStore
}

const productColumns = `id, outlet_id, name, stock_quantity, total_product, price, created_at, updated_at`

func scanProduct(row interface{ Scan(...interface{}) error }) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.OutletID, &p.Name, &p.StockQuantity, &p.TotalProduct,
		&p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqlProductRepo) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.store.db.ExecContext(ctx, `
		INSERT INTO products (outlet_id, name, stock_quantity, total_product, price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.OutletID, product.Name, product.StockQuantity, product.TotalProduct,
		product.Price, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read product id: %w", err)
	}
	return product, nil
}

func (r *sqlProductRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	return p, nil
}

func (r *sqlProductRepo) FindByOutlet(ctx context.Context, outletID int64) ([]*model.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE outlet_id = ? ORDER BY id ASC`, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for outlet %d: %w", outletID, err)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *sqlProductRepo) Update(ctx context.Context, product *model.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product.UpdatedAt = time.Now().UTC()

	_, err := r.store.db.ExecContext(ctx, `
		UPDATE products SET outlet_id = ?, name = ?, stock_quantity = ?, total_product = ?,
			price = ?, updated_at = ?
		WHERE id = ?`,
		product.OutletID, product.Name, product.StockQuantity, product.TotalProduct,
		product.Price, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	return nil
}

func (r *sqlProductRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, err := r.store.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
