package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Flight represents a registered flight and the passengers insured on it
type Flight struct {
	AirlineAddress common.Address
	FlightNumber   string
	Timestamp      *big.Int
	StatusCode     StatusCode
	Key            common.Hash
	Passengers     []*Passenger

	// PaidOut is set once late-airline insurance has been processed for
	// this flight, so a replayed processing event cannot credit twice.
	PaidOut bool
}

// NewFlight creates a flight in the unknown status
func NewFlight(airline common.Address, flightNumber string, key common.Hash, timestamp *big.Int) *Flight {
	return &Flight{
		AirlineAddress: airline,
		FlightNumber:   flightNumber,
		Timestamp:      timestamp,
		StatusCode:     StatusUnknown,
		Key:            key,
	}
}

// AcceptsInsurance reports whether passengers can still buy insurance on
// this flight. Unknown and late-airline are the still-open statuses; a
// late-airline flight stays open until its payout is processed.
func (f *Flight) AcceptsInsurance() bool {
	return f.StatusCode == StatusUnknown || f.StatusCode == StatusLateAirline
}

// PassengerByAddress returns the insured passenger with the given address,
// or nil if that address holds no insurance on this flight
func (f *Flight) PassengerByAddress(address common.Address) *Passenger {
	for _, p := range f.Passengers {
		if p.Address == address {
			return p
		}
	}
	return nil
}

// Copy returns a deep copy of the flight
func (f *Flight) Copy() *Flight {
	dup := *f
	dup.Timestamp = new(big.Int).Set(f.Timestamp)
	dup.Passengers = make([]*Passenger, len(f.Passengers))
	for i, p := range f.Passengers {
		dup.Passengers[i] = p.Copy()
	}
	return &dup
}
