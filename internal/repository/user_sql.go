package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"outlethub-api/internal/model"
)

type sqlUserRepo struct {
	store *SQLStore
}

const userColumns = `id, username, email, password, provider, confirmed, blocked, role_id,
	city, state, address, pincode, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Password, &u.Provider,
		&u.Confirmed, &u.Blocked, &u.RoleID,
		&u.City, &u.State, &u.Address, &u.Pincode,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *sqlUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.store.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password, provider, confirmed, blocked, role_id,
			city, state, address, pincode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.Password, user.Provider,
		user.Confirmed, user.Blocked, user.RoleID,
		user.City, user.State, user.Address, user.Pincode, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", mapWriteErr(err))
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read user id: %w", err)
	}
	return user, nil
}

func (r *sqlUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `id = ?`, id)
}

func (r *sqlUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `email = ?`, email)
}

func (r *sqlUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `username = ?`, username)
}

func (r *sqlUserRepo) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}

func (r *sqlUserRepo) Update(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user.UpdatedAt = time.Now().UTC()

	// MySQL reports zero affected rows for a no-change update, so existence
	// is the caller's concern; callers fetch before writing.
	_, err := r.store.db.ExecContext(ctx, `
		UPDATE users SET username = ?, email = ?, password = ?, provider = ?, confirmed = ?,
			blocked = ?, role_id = ?, city = ?, state = ?, address = ?, pincode = ?, updated_at = ?
		WHERE id = ?`,
		user.Username, user.Email, user.Password, user.Provider, user.Confirmed,
		user.Blocked, user.RoleID, user.City, user.State, user.Address, user.Pincode,
		user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, mapWriteErr(err))
	}
	return nil
}

func (r *sqlUserRepo) FindByRole(ctx context.Context, roleName string) ([]*model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role_id = (SELECT id FROM roles WHERE name = ?)
		ORDER BY id ASC`, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role %q: %w", roleName, err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *sqlUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var role model.Role
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, type, description FROM roles WHERE name = ?`, name).
		Scan(&role.ID, &role.Name, &role.Type, &role.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find role %q: %w", name, err)
	}
	return &role, nil
}

func (r *sqlUserRepo) FindRoleByID(ctx context.Context, id int64) (*model.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var role model.Role
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, type, description FROM roles WHERE id = ?`, id).
		Scan(&role.ID, &role.Name, &role.Type, &role.Description)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find role %d: %w", id, err)
	}
	return &role, nil
}
