// internal/model/customer.go
package model

import "time"

type Customer struct {
	ID          int64     `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CustomerWithAddressCount is a row of the address-count views.
type CustomerWithAddressCount struct {
	Customer
	AddressCount int `db:"address_count" json:"address_count"`
}

// CustomerInput is the create/update body for a customer.
type CustomerInput struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,number,len=10"`
}
