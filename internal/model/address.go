// internal/model/address.go
package model

import "time"

type Address struct {
	ID             int64     `db:"id" json:"id"`
	CustomerID     int64     `db:"customer_id" json:"customer_id"`
	AddressDetails string    `db:"address_details" json:"address_details"`
	City           string    `db:"city" json:"city"`
	State          string    `db:"state" json:"state"`
	PinCode        string    `db:"pin_code" json:"pin_code"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type AddressInput struct {
	AddressDetails string `json:"address_details" validate:"required"`
	City           string `json:"city" validate:"required"`
	State          string `json:"state" validate:"required"`
	PinCode        string `json:"pin_code" validate:"required,number,len=6"`
}
