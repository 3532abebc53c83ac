package repository

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"flightsurety-relay/internal/domain/entity"
)

// SuretyBackend is the call/submit boundary with the on-chain FlightSurety
// app contract. The backend owns all business rules; this interface only
// carries commands and queries to it. Submissions are sent from the given
// sender account and do not return until mined or refused.
type SuretyBackend interface {
	IsOperational(ctx context.Context) (bool, error)
	RegistrationFee(ctx context.Context) (*big.Int, error)
	OracleCount(ctx context.Context) (*big.Int, error)
	IsOracleRegistered(ctx context.Context, oracle common.Address) (bool, error)
	OracleIndexes(ctx context.Context, oracle common.Address) ([3]uint8, error)

	RegisterOracle(ctx context.Context, oracle common.Address, fee *big.Int) error
	RegisterAirline(ctx context.Context, from, airline common.Address) error
	PayAirlineRegistrationFee(ctx context.Context, airline common.Address, amount *big.Int) error
	RegisterFlight(ctx context.Context, airline common.Address, flight string, timestamp *big.Int) error
	InsurePassenger(ctx context.Context, passenger, airline common.Address, flight string, timestamp, amount *big.Int) error
	FetchFlightStatus(ctx context.Context, from, airline common.Address, flight string, timestamp *big.Int) error
	SubmitOracleResponse(ctx context.Context, oracle common.Address, index uint8, airline common.Address, flight string, timestamp *big.Int, status entity.StatusCode) error
	WithdrawBalance(ctx context.Context, passenger common.Address) error
}
