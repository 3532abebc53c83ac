// Package event defines the typed schema for the domain events emitted by
// the FlightSurety app contract. Each event kind is its own struct; the
// chain layer decodes raw logs into these values and everything downstream
// dispatches on the concrete type.
package event

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"flightsurety-relay/internal/domain/entity"
)

// Kind identifies an event type on the wire
type Kind string

const (
	KindFirstAirlineRegistered Kind = "FirstAirlineRegistered"
	KindAirlineRegistered      Kind = "AirlineRegistered"
	KindAirlineFeeConfirmed    Kind = "AirlineFeeConfirmed"
	KindFlightRegistered       Kind = "FlightRegistered"
	KindFlightStatusInfo       Kind = "FlightStatusInfo"
	KindInsurancePurchased     Kind = "InsurancePurchased"
	KindLateInsuranceProcessed Kind = "LateAirlineInsuranceProcessed"
	KindWithdrawalConfirmed    Kind = "WithdrawalConfirmed"
	KindOracleRequest          Kind = "OracleRequest"
	KindOracleReport           Kind = "OracleReport"
)

// Event is the tagged union of all domain events
type Event interface {
	Kind() Kind
}

// FirstAirlineRegistered is emitted once for the airline registered at genesis
type FirstAirlineRegistered struct {
	Airline common.Address
}

// AirlineRegistered is emitted for every subsequent airline registration
type AirlineRegistered struct {
	Airline common.Address
}

// AirlineFeeConfirmed is emitted when an airline pays its registration fee
type AirlineFeeConfirmed struct {
	Airline common.Address
}

// FlightRegistered is emitted when an airline registers a flight; Key is the
// backend-derived hash of (airline, flight, timestamp)
type FlightRegistered struct {
	Airline   common.Address
	Flight    string
	Key       common.Hash
	Timestamp *big.Int
}

// FlightStatusInfo is emitted once the backend's quorum accepts a status
type FlightStatusInfo struct {
	Airline   common.Address
	Flight    string
	Timestamp *big.Int
	Status    entity.StatusCode
}

// InsurancePurchased is emitted when a passenger deposits insurance
type InsurancePurchased struct {
	Passenger common.Address
	Key       common.Hash
	Amount    *big.Int
}

// LateInsuranceProcessed is emitted when a late-airline flight's payouts
// have been credited on chain
type LateInsuranceProcessed struct {
	Key common.Hash
}

// WithdrawalConfirmed is emitted when a passenger withdraws their balance
type WithdrawalConfirmed struct {
	Passenger common.Address
}

// OracleRequest asks oracle workers holding Index to report a flight status
type OracleRequest struct {
	Index     uint8
	Airline   common.Address
	Flight    string
	Timestamp *big.Int
	Key       common.Hash
}

// OracleReport is emitted for every accepted oracle response
type OracleReport struct {
	Airline   common.Address
	Flight    string
	Timestamp *big.Int
	Status    entity.StatusCode
}

func (FirstAirlineRegistered) Kind() Kind { return KindFirstAirlineRegistered }
func (AirlineRegistered) Kind() Kind      { return KindAirlineRegistered }
func (AirlineFeeConfirmed) Kind() Kind    { return KindAirlineFeeConfirmed }
func (FlightRegistered) Kind() Kind       { return KindFlightRegistered }
func (FlightStatusInfo) Kind() Kind       { return KindFlightStatusInfo }
func (InsurancePurchased) Kind() Kind     { return KindInsurancePurchased }
func (LateInsuranceProcessed) Kind() Kind { return KindLateInsuranceProcessed }
func (WithdrawalConfirmed) Kind() Kind    { return KindWithdrawalConfirmed }
func (OracleRequest) Kind() Kind          { return KindOracleRequest }
func (OracleReport) Kind() Kind           { return KindOracleReport }
