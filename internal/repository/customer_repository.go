package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/logger"
	"github.com/unclebandit/crm-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by the services
type CustomerRepositoryInterface interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, c *model.Customer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f model.CustomerFilter) ([]model.Customer, int, error)
	ListByAddressCount(ctx context.Context, view AddressCountView) ([]model.CustomerWithAddressCount, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner, c *model.Customer) error {
	return row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (first_name, last_name, phone_number)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.PhoneNumber).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return appErrors.ErrDuplicatePhone
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	query := `
        SELECT id, first_name, last_name, phone_number, created_at, updated_at
        FROM customers
        WHERE id = $1
    `
	var c model.Customer
	if err := scanCustomer(r.DB.QueryRowContext(ctx, query, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewNotFound("Customer", id)
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return &c, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var tmp int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE id = $1`, id).Scan(&tmp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check customer %d: %w", id, err)
	}
	return true, nil
}

// Update overwrites the mutable fields and refreshes created_at/updated_at on c.
func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET first_name = $1, last_name = $2, phone_number = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query, c.FirstName, c.LastName, c.PhoneNumber, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return appErrors.NewNotFound("Customer", c.ID)
		case isUniqueViolation(err):
			return appErrors.ErrDuplicatePhone
		}
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes a customer; addresses go with it through ON DELETE CASCADE.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if n == 0 {
		return appErrors.NewNotFound("Customer", id)
	}
	return nil
}

// List returns one page of the filtered customers and the size of the whole
// filtered set.
func (r *CustomerRepository) List(ctx context.Context, f model.CustomerFilter) ([]model.Customer, int, error) {
	stmts, err := BuildCustomerListQuery(f)
	if err != nil {
		return nil, 0, err
	}

	logger.Debug("Listing customers", logger.Fields{
		"fetch_sql": stmts.FetchSQL,
		"count_sql": stmts.CountSQL,
		"args":      len(stmts.FilterArgs),
	})

	var total int
	if err := r.DB.QueryRowContext(ctx, stmts.CountSQL, stmts.FilterArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, stmts.FetchSQL, stmts.FetchArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return customers, total, nil
}

// ListByAddressCount runs one of the fixed address-count views, unpaginated.
func (r *CustomerRepository) ListByAddressCount(ctx context.Context, view AddressCountView) ([]model.CustomerWithAddressCount, error) {
	rows, err := r.DB.QueryContext(ctx, addressCountQuery(view))
	if err != nil {
		return nil, fmt.Errorf("list customers by address count: %w", err)
	}
	defer rows.Close()

	out := []model.CustomerWithAddressCount{}
	for rows.Next() {
		var c model.CustomerWithAddressCount
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.CreatedAt, &c.UpdatedAt, &c.AddressCount); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers by address count: %w", err)
	}
	return out, nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
