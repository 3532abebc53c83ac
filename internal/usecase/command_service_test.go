package usecase_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightsurety-relay/internal/domain/event"
	"flightsurety-relay/internal/usecase"
	"flightsurety-relay/pkg/logger"
)

func insuranceEventFor(passenger common.Address) event.Event {
	return event.InsurancePurchased{Passenger: passenger, Key: flightKey, Amount: ether(1)}
}

func newCommandService(t *testing.T) (*usecase.CommandService, *fakeBackend) {
	t.Helper()

	backend := newFakeBackend()
	rebuilder, _ := newRebuilder(registeredFlightLog()...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	return usecase.NewCommandService(backend, rebuilder, logger.NewLogger()), backend
}

func TestRegisterAirlineRequiresRegisteredSender(t *testing.T) {
	service, backend := newCommandService(t)

	err := service.RegisterAirline(context.Background(), otherAirline, passengerA)
	require.Error(t, err)
	assert.Empty(t, backend.airlineCalls)

	err = service.RegisterAirline(context.Background(), firstAirline, otherAirline)
	require.NoError(t, err)
	assert.Len(t, backend.airlineCalls, 1)
}

func TestPurchaseInsuranceRefusesUnknownFlight(t *testing.T) {
	service, backend := newCommandService(t)

	err := service.PurchaseInsurance(context.Background(), passengerA, "XX999", ether(1))
	require.Error(t, err)
	assert.Empty(t, backend.insureCalls)
}

func TestPurchaseInsuranceRefusesDoubleInsuring(t *testing.T) {
	backend := newFakeBackend()
	rebuilder, source := newRebuilder(registeredFlightLog()...)
	require.NoError(t, rebuilder.Rebuild(context.Background()))
	service := usecase.NewCommandService(backend, rebuilder, logger.NewLogger())

	require.NoError(t, service.PurchaseInsurance(context.Background(), passengerA, "ND1309", ether(1)))

	// Once the insurance event lands in the log and state refreshed, a
	// second purchase for the same passenger and flight is refused
	// before reaching the backend.
	source.mu.Lock()
	source.events = append(source.events, insuranceEventFor(passengerA))
	source.mu.Unlock()
	require.NoError(t, rebuilder.Rebuild(context.Background()))

	err := service.PurchaseInsurance(context.Background(), passengerA, "ND1309", ether(1))
	require.Error(t, err)
	assert.Len(t, backend.insureCalls, 1)
}

func TestIsOperational(t *testing.T) {
	service, _ := newCommandService(t)

	operational, err := service.IsOperational(context.Background())
	require.NoError(t, err)
	assert.True(t, operational)
}
