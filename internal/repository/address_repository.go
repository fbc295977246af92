package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

type AddressRepositoryInterface interface {
	Create(ctx context.Context, a *model.Address) error
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error)
	Update(ctx context.Context, a *model.Address) error
	Delete(ctx context.Context, id int64) (customerID int64, err error)
}

type AddressRepository struct {
	DB *sql.DB
}

func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{DB: db}
}

// Create inserts a new address and fills its ID and timestamps
func (r *AddressRepository) Create(ctx context.Context, a *model.Address) error {
	query := `
        INSERT INTO addresses (customer_id, address_details, city, state, pin_code)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query, a.CustomerID, a.AddressDetails, a.City, a.State, a.PinCode).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		// the customer was deleted after the existence check
		if isForeignKeyViolation(err) {
			return appErrors.NewNotFound("Customer", a.CustomerID)
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *AddressRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error) {
	query := `
        SELECT id, customer_id, address_details, city, state, pin_code, created_at, updated_at
        FROM addresses
        WHERE customer_id = $1
        ORDER BY id
    `
	rows, err := r.DB.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.AddressDetails, &a.City, &a.State, &a.PinCode, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// Update overwrites the address fields of a.ID and fills CustomerID and timestamps.
func (r *AddressRepository) Update(ctx context.Context, a *model.Address) error {
	query := `
        UPDATE addresses
        SET address_details = $1, city = $2, state = $3, pin_code = $4, updated_at = NOW()
        WHERE id = $5
        RETURNING customer_id, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query, a.AddressDetails, a.City, a.State, a.PinCode, a.ID).
		Scan(&a.CustomerID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NewNotFound("Address", a.ID)
		}
		return fmt.Errorf("update address %d: %w", a.ID, err)
	}
	return nil
}

// Delete removes an address and reports the customer that owned it.
func (r *AddressRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var customerID int64
	err := r.DB.QueryRowContext(ctx, `DELETE FROM addresses WHERE id = $1 RETURNING customer_id`, id).Scan(&customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.NewNotFound("Address", id)
		}
		return 0, fmt.Errorf("delete address %d: %w", id, err)
	}
	return customerID, nil
}

var _ AddressRepositoryInterface = (*AddressRepository)(nil)
