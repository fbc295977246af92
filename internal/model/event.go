// internal/model/event.go
package model

import "time"

const (
	EventCustomerCreated = "customer.created"
	EventCustomerUpdated = "customer.updated"
	EventCustomerDeleted = "customer.deleted"
	EventAddressCreated  = "address.created"
	EventAddressUpdated  = "address.updated"
	EventAddressDeleted  = "address.deleted"
)

// CustomerEvent is published after every successful write.
type CustomerEvent struct {
	Type       string    `json:"type"`
	CustomerID int64     `json:"customer_id,omitempty"`
	AddressID  int64     `json:"address_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
