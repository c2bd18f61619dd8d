package domain

import "github.com/google/uuid"

// AddressType distinguishes shipping from billing addresses.
type AddressType string

const (
	AddressTypeShipping AddressType = "shipping"
	AddressTypeBilling  AddressType = "billing"
)

// Address belongs to a user. Fulfillment synthesizes addresses from
// gateway-supplied data when the user has none on file.
type Address struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       AddressType
	Line1      string
	Line2      string
	City       string
	State      string
	Country    string
	PostalCode string
	IsDefault  bool
}
