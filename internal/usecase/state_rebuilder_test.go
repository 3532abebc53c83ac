package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/event"
	"flightsurety-relay/internal/domain/fault"
	"flightsurety-relay/internal/usecase"
	"flightsurety-relay/pkg/logger"
)

var (
	firstAirline = common.HexToAddress("0xa1")
	otherAirline = common.HexToAddress("0xa2")
	passengerA   = common.HexToAddress("0xc1")
	passengerB   = common.HexToAddress("0xb2")
	flightKey    = common.HexToHash("0x01")
	otherKey     = common.HexToHash("0x02")
)

func ether(n int64) *big.Int {
	wei := big.NewInt(n)
	return wei.Mul(wei, big.NewInt(1e18))
}

func newRebuilder(events ...event.Event) (*usecase.StateRebuilder, *fakeEventSource) {
	source := newFakeEventSource(events...)
	return usecase.NewStateRebuilder(source, nil, logger.NewLogger(), nil), source
}

func registeredFlightLog() []event.Event {
	return []event.Event{
		event.FirstAirlineRegistered{Airline: firstAirline},
		event.AirlineFeeConfirmed{Airline: firstAirline},
		event.FlightRegistered{
			Airline:   firstAirline,
			Flight:    "ND1309",
			Key:       flightKey,
			Timestamp: big.NewInt(1700000000),
		},
	}
}

func TestRebuildFoldsOrderedLog(t *testing.T) {
	log := append(registeredFlightLog(),
		event.AirlineRegistered{Airline: otherAirline},
		event.InsurancePurchased{Passenger: passengerA, Key: flightKey, Amount: ether(1)},
		event.FlightStatusInfo{Airline: firstAirline, Flight: "ND1309", Timestamp: big.NewInt(1700000000), Status: entity.StatusLateAirline},
		event.LateInsuranceProcessed{Key: flightKey},
	)

	rebuilder, _ := newRebuilder(log...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	airlines := rebuilder.Airlines()
	require.Len(t, airlines, 2)
	assert.True(t, airlines[0].IsFirst)
	assert.True(t, airlines[0].FeePaid)
	assert.False(t, airlines[1].IsFirst)
	assert.False(t, airlines[1].FeePaid)

	flights := rebuilder.Flights()
	require.Len(t, flights, 1)
	assert.Equal(t, entity.StatusLateAirline, flights[0].StatusCode)
	require.Len(t, flights[0].Passengers, 1)

	wallets := rebuilder.Wallets()
	require.Len(t, wallets, 1)
	assert.Equal(t, passengerA, wallets[0].Address)
	payout := new(big.Int).Div(ether(3), big.NewInt(2)) // 1.5x of 1 ether
	assert.Equal(t, payout, wallets[0].Balance)
}

func TestRebuildDuplicatedEventsDoNotDoubleApply(t *testing.T) {
	insured := event.InsurancePurchased{Passenger: passengerA, Key: flightKey, Amount: ether(2)}
	late := event.LateInsuranceProcessed{Key: flightKey}

	log := append(registeredFlightLog(), insured, insured, late, late)

	rebuilder, _ := newRebuilder(log...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	flights := rebuilder.Flights()
	require.Len(t, flights, 1)
	assert.Len(t, flights[0].Passengers, 1, "duplicate purchase must not add a second policy")

	wallets := rebuilder.Wallets()
	require.Len(t, wallets, 1)
	assert.Equal(t, ether(3), wallets[0].Balance, "payout must be credited exactly once")
}

func TestRebuildLateProcessingBeforePurchaseIsNoop(t *testing.T) {
	log := append(registeredFlightLog(),
		event.LateInsuranceProcessed{Key: flightKey},
		event.InsurancePurchased{Passenger: passengerA, Key: flightKey, Amount: ether(1)},
	)

	rebuilder, _ := newRebuilder(log...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	// The flight had no passengers when the payout was processed, so
	// no wallet accrues anything.
	assert.Empty(t, rebuilder.Wallets())
}

func TestRebuildFeeForUnknownAirlineIsTolerated(t *testing.T) {
	rebuilder, _ := newRebuilder(
		event.AirlineFeeConfirmed{Airline: otherAirline},
		event.FirstAirlineRegistered{Airline: firstAirline},
	)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	airlines := rebuilder.Airlines()
	require.Len(t, airlines, 1)
	assert.Equal(t, firstAirline, airlines[0].Address)
	assert.False(t, airlines[0].FeePaid)
}

func TestRebuildDuplicateFlightKeyIsFatal(t *testing.T) {
	duplicate := event.FlightRegistered{
		Airline:   otherAirline,
		Flight:    "ND1310",
		Key:       flightKey,
		Timestamp: big.NewInt(1700000001),
	}
	rebuilder, _ := newRebuilder(append(registeredFlightLog(), duplicate)...)

	err := rebuilder.Rebuild(context.Background())
	require.Error(t, err)

	var failure *fault.RebuildFailure
	require.ErrorAs(t, err, &failure)
	var inconsistency *fault.Inconsistency
	assert.ErrorAs(t, failure.Err, &inconsistency)
}

func TestRebuildInsuranceOnUnknownFlightIsFatal(t *testing.T) {
	rebuilder, _ := newRebuilder(append(registeredFlightLog(),
		event.InsurancePurchased{Passenger: passengerA, Key: otherKey, Amount: ether(1)},
	)...)

	err := rebuilder.Rebuild(context.Background())
	var failure *fault.RebuildFailure
	require.ErrorAs(t, err, &failure)
}

func TestRebuildWithdrawalZeroesOnlyTargetWallet(t *testing.T) {
	log := append(registeredFlightLog(),
		event.InsurancePurchased{Passenger: passengerA, Key: flightKey, Amount: ether(2)},
		event.InsurancePurchased{Passenger: passengerB, Key: flightKey, Amount: ether(4)},
		event.LateInsuranceProcessed{Key: flightKey},
		event.WithdrawalConfirmed{Passenger: passengerA},
	)

	rebuilder, _ := newRebuilder(log...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	wallets := rebuilder.Wallets()
	require.Len(t, wallets, 2)
	for _, wallet := range wallets {
		switch wallet.Address {
		case passengerA:
			assert.Zero(t, wallet.Balance.Sign())
		case passengerB:
			assert.Equal(t, ether(6), wallet.Balance)
		default:
			t.Fatalf("unexpected wallet %s", wallet.Address.Hex())
		}
	}
}

func TestRebuildWithdrawalForUnknownWalletIsNoop(t *testing.T) {
	rebuilder, _ := newRebuilder(append(registeredFlightLog(),
		event.WithdrawalConfirmed{Passenger: passengerA},
	)...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))
	assert.Empty(t, rebuilder.Wallets())
}

func TestRebuildFetchFailureKeepsPreviousSnapshot(t *testing.T) {
	rebuilder, source := newRebuilder(registeredFlightLog()...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))
	require.Len(t, rebuilder.Flights(), 1)

	source.mu.Lock()
	source.fetchErr = errors.New("node unavailable")
	source.mu.Unlock()

	err := rebuilder.Rebuild(context.Background())
	var failure *fault.RebuildFailure
	require.ErrorAs(t, err, &failure)

	// The snapshot from the successful rebuild is still served.
	assert.Len(t, rebuilder.Flights(), 1)
}

func TestRebuildStatusInfoMatchesByFlightNumber(t *testing.T) {
	log := append(registeredFlightLog(),
		event.FlightRegistered{
			Airline:   otherAirline,
			Flight:    "ND1309", // same number, different slot
			Key:       otherKey,
			Timestamp: big.NewInt(1800000000),
		},
		event.FlightStatusInfo{Airline: firstAirline, Flight: "ND1309", Timestamp: big.NewInt(1700000000), Status: entity.StatusOnTime},
	)

	rebuilder, _ := newRebuilder(log...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	flights := rebuilder.Flights()
	require.Len(t, flights, 2)
	// Number-based matching updates the first flight with that number.
	assert.Equal(t, entity.StatusOnTime, flights[0].StatusCode)
	assert.Equal(t, entity.StatusUnknown, flights[1].StatusCode)
}

func TestSnapshotIsDetachedCopy(t *testing.T) {
	rebuilder, _ := newRebuilder(registeredFlightLog()...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	snapshot := rebuilder.Snapshot()
	snapshot.Flights[0].StatusCode = entity.StatusLateOther

	assert.Equal(t, entity.StatusUnknown, rebuilder.Flights()[0].StatusCode)
}
