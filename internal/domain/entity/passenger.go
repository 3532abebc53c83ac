package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Passenger represents an insurance policy held by a passenger on one flight
type Passenger struct {
	Address       common.Address
	FlightNumber  string
	InsuredAmount *big.Int
}

// NewPassenger creates a passenger policy
func NewPassenger(address common.Address, flightNumber string, insuredAmount *big.Int) *Passenger {
	return &Passenger{
		Address:       address,
		FlightNumber:  flightNumber,
		InsuredAmount: insuredAmount,
	}
}

// Copy returns a copy of the passenger
func (p *Passenger) Copy() *Passenger {
	dup := *p
	dup.InsuredAmount = new(big.Int).Set(p.InsuredAmount)
	return &dup
}
