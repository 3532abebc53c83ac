package entity

import "github.com/ethereum/go-ethereum/common"

// Airline represents a registered airline
type Airline struct {
	Address common.Address
	IsFirst bool
	FeePaid bool
}

// NewAirline creates an airline; the first airline is pre-registered at genesis
func NewAirline(address common.Address, isFirst bool) *Airline {
	return &Airline{
		Address: address,
		IsFirst: isFirst,
	}
}
