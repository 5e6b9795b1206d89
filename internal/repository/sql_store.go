package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"outlethub-api/internal/model"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLStore implements Store on database/sql. The same queries run on both
// SQLite (default backend) and MySQL; placeholders are `?` on both drivers.
type SQLStore struct {
	db     *sql.DB
	driver string
	mu     sync.RWMutex // serializes writers; SQLite supports a single writer
}

// NewSQLiteStore opens (or creates) a SQLite-backed store with WAL mode.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports 1 writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLStore{db: db, driver: "sqlite"}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[SQLStore] Initialized SQLite store: %s", dbPath)
	return s, nil
}

// NewMySQLStore opens a MySQL-backed store.
func NewMySQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s := &SQLStore{db: db, driver: "mysql"}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("[SQLStore] Initialized MySQL store")
	return s, nil
}

// init creates the schema if missing and seeds the default roles.
func (s *SQLStore) init() error {
	autoinc := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == "mysql" {
		autoinc = "BIGINT PRIMARY KEY AUTO_INCREMENT"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS outlets (
			id %s,
			name VARCHAR(255) NOT NULL DEFAULT '',
			username VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(255) NOT NULL DEFAULT '',
			state VARCHAR(255) NOT NULL DEFAULT '',
			address VARCHAR(255) NOT NULL DEFAULT '',
			pincode VARCHAR(32) NOT NULL DEFAULT '',
			user_seller_id BIGINT NOT NULL DEFAULT 0,
			total_products BIGINT NOT NULL DEFAULT 0,
			total_quantity BIGINT NOT NULL DEFAULT 0,
			total_revenue DOUBLE NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, autoinc),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products (
			id %s,
			outlet_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			stock_quantity BIGINT NOT NULL DEFAULT 0,
			total_product BIGINT NOT NULL DEFAULT 0,
			price DOUBLE NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, autoinc),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			username VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL DEFAULT '',
			provider VARCHAR(64) NOT NULL DEFAULT 'local',
			confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			blocked BOOLEAN NOT NULL DEFAULT FALSE,
			role_id BIGINT NOT NULL DEFAULT 0,
			city VARCHAR(255) NOT NULL DEFAULT '',
			state VARCHAR(255) NOT NULL DEFAULT '',
			address VARCHAR(255) NOT NULL DEFAULT '',
			pincode VARCHAR(32) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, autoinc),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS roles (
			id %s,
			name VARCHAR(64) NOT NULL UNIQUE,
			type VARCHAR(64) NOT NULL DEFAULT '',
			description VARCHAR(255) NOT NULL DEFAULT ''
		)`, autoinc),
	}
	if s.driver == "sqlite" {
		stmts = append(stmts,
			`CREATE INDEX IF NOT EXISTS idx_products_outlet ON products(outlet_id)`,
			`CREATE INDEX IF NOT EXISTS idx_outlets_seller ON outlets(user_seller_id)`,
		)
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return s.seedRoles()
}

// seedRoles inserts the built-in roles if they are missing.
func (s *SQLStore) seedRoles() error {
	roles := []model.Role{
		{Name: model.RoleCustomer, Type: "authenticated", Description: "Platform customer"},
		{Name: model.RoleSeller, Type: "authenticated", Description: "Platform seller with outlet provisioning"},
	}

	for _, role := range roles {
		var id int64
		err := s.db.QueryRow(`SELECT id FROM roles WHERE name = ?`, role.Name).Scan(&id)
		if err == sql.ErrNoRows {
			if _, err := s.db.Exec(
				`INSERT INTO roles (name, type, description) VALUES (?, ?, ?)`,
				role.Name, role.Type, role.Description,
			); err != nil {
				return fmt.Errorf("failed to seed role %q: %w", role.Name, err)
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to probe role %q: %w", role.Name, err)
		}
	}
	return nil
}

// Outlets returns the outlet repository.
func (s *SQLStore) Outlets() OutletRepository { return &sqlOutletRepo{s} }

// Products returns the product repository.
func (s *SQLStore) Products() ProductRepository { return &sqlProductRepo{s} }

// Users returns the user repository.
func (s *SQLStore) Users() UserRepository { return &sqlUserRepo{s} }

// Stats returns row counts per table for the admin surface.
func (s *SQLStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{"backend": s.driver}
	for _, table := range []string{"outlets", "products", "users"} {
		var count int64
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats["total_"+table] = count
	}
	return stats, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// mapWriteErr translates driver-specific uniqueness violations to ErrDuplicate.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return fmt.Errorf("%w: %s", ErrDuplicate, myErr.Message)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", ErrDuplicate, err.Error())
	}
	return err
}
