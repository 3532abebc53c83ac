package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/repository"
	"flightsurety-relay/pkg/logger"
)

// CommandService is the view-layer command surface: it forwards commands to
// the backend, applies the client-side guards the UI relied on, and
// refreshes the rebuilt state after every successful mutation.
type CommandService struct {
	backend   repository.SuretyBackend
	rebuilder *StateRebuilder
	logger    logger.Logger
}

// NewCommandService creates a command service
func NewCommandService(backend repository.SuretyBackend, rebuilder *StateRebuilder, logger logger.Logger) *CommandService {
	return &CommandService{
		backend:   backend,
		rebuilder: rebuilder,
		logger:    logger,
	}
}

// IsOperational reports whether the backend contract is operational
func (s *CommandService) IsOperational(ctx context.Context) (bool, error) {
	return s.backend.IsOperational(ctx)
}

// RegisterAirline registers a new airline; the registering address must
// itself be a registered airline
func (s *CommandService) RegisterAirline(ctx context.Context, from, airline common.Address) error {
	if s.airlineByAddress(from) == nil {
		return fmt.Errorf("airline cannot be registered by %s: not a registered airline", from.Hex())
	}

	if err := s.backend.RegisterAirline(ctx, from, airline); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// PayAirlineFee pays an airline's registration fee from its own account
func (s *CommandService) PayAirlineFee(ctx context.Context, airline common.Address, amount *big.Int) error {
	if err := s.backend.PayAirlineRegistrationFee(ctx, airline, amount); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// RegisterFlight registers a flight for an airline
func (s *CommandService) RegisterFlight(ctx context.Context, airline common.Address, flight string, timestamp *big.Int) error {
	if err := s.backend.RegisterFlight(ctx, airline, flight, timestamp); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// PurchaseInsurance buys insurance for a passenger on the flight with the
// given number. Refused locally when the flight is unknown or the passenger
// already holds insurance on it.
func (s *CommandService) PurchaseInsurance(ctx context.Context, passenger common.Address, flightNumber string, amount *big.Int) error {
	flight := s.flightByNumber(flightNumber)
	if flight == nil {
		return fmt.Errorf("unknown flight %s", flightNumber)
	}
	if flight.PassengerByAddress(passenger) != nil {
		return fmt.Errorf("passenger %s already insured flight %s", passenger.Hex(), flightNumber)
	}

	err := s.backend.InsurePassenger(ctx, passenger, flight.AirlineAddress, flight.FlightNumber, flight.Timestamp, amount)
	if err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// Withdraw pays out a passenger's accumulated balance
func (s *CommandService) Withdraw(ctx context.Context, passenger common.Address) error {
	if err := s.backend.WithdrawBalance(ctx, passenger); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// FetchFlightStatus asks the backend to open an oracle request for a flight
func (s *CommandService) FetchFlightStatus(ctx context.Context, from, airline common.Address, flight string, timestamp *big.Int) error {
	if err := s.backend.FetchFlightStatus(ctx, from, airline, flight, timestamp); err != nil {
		return err
	}

	s.refresh(ctx)
	return nil
}

// refresh rebuilds state after a successful command; a failed refresh keeps
// the previous snapshot and is not a command failure
func (s *CommandService) refresh(ctx context.Context) {
	if err := s.rebuilder.Rebuild(ctx); err != nil {
		s.logger.Warn("State refresh failed", "error", err)
	}
}

func (s *CommandService) airlineByAddress(address common.Address) *entity.Airline {
	for _, a := range s.rebuilder.Airlines() {
		if a.Address == address {
			return a
		}
	}
	return nil
}

func (s *CommandService) flightByNumber(flightNumber string) *entity.Flight {
	for _, f := range s.rebuilder.Flights() {
		if f.FlightNumber == flightNumber {
			return f
		}
	}
	return nil
}
