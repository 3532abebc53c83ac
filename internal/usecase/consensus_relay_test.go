package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightsurety-relay/internal/domain/event"
	"flightsurety-relay/internal/usecase"
	"flightsurety-relay/pkg/logger"
)

// relayFixture is a running relay over a fake source and backend with a
// pool of three registered workers: A={1,2,3}, B={3,4,5}, C={7,8,9}
type relayFixture struct {
	backend *fakeBackend
	source  *fakeEventSource
	cancel  context.CancelFunc
	done    chan error
}

func startRelay(t *testing.T) *relayFixture {
	t.Helper()

	backend := newFakeBackend()
	backend.indexes[oracleA] = [3]uint8{1, 2, 3}
	backend.indexes[oracleB] = [3]uint8{3, 4, 5}
	backend.indexes[oracleC] = [3]uint8{7, 8, 9}

	pool := newPool(backend, nil, nil)
	require.NoError(t, pool.EnsureRegistered(context.Background(),
		[]common.Address{oracleA, oracleB, oracleC}))

	source := newFakeEventSource()
	relay := usecase.NewConsensusRelay(source, backend, pool, logger.NewLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- relay.Run(ctx)
	}()

	// Wait until the relay has subscribed.
	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.sink != nil
	}, time.Second, 5*time.Millisecond)

	fixture := &relayFixture{backend: backend, source: source, cancel: cancel, done: done}
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return fixture
}

func oracleRequest(index uint8) event.OracleRequest {
	return event.OracleRequest{
		Index:     index,
		Airline:   firstAirline,
		Flight:    "ND1309",
		Timestamp: big.NewInt(1700000000),
		Key:       flightKey,
	}
}

func TestRelaySubmitsOneResponsePerEligibleWorker(t *testing.T) {
	fixture := startRelay(t)

	fixture.source.emit(oracleRequest(3))

	require.Eventually(t, func() bool {
		return len(fixture.backend.recordedSubmissions()) == 2
	}, time.Second, 5*time.Millisecond)

	submissions := fixture.backend.recordedSubmissions()
	oracles := map[common.Address]bool{}
	for _, s := range submissions {
		assert.Equal(t, uint8(3), s.Index)
		assert.Equal(t, "ND1309", s.Flight)
		oracles[s.Oracle] = true
	}
	assert.True(t, oracles[oracleA])
	assert.True(t, oracles[oracleB])
}

func TestRelayIgnoresRequestsWithNoEligibleWorker(t *testing.T) {
	fixture := startRelay(t)

	fixture.source.emit(oracleRequest(6))
	fixture.source.emit(oracleRequest(7))

	require.Eventually(t, func() bool {
		return len(fixture.backend.recordedSubmissions()) == 1
	}, time.Second, 5*time.Millisecond)

	submissions := fixture.backend.recordedSubmissions()
	assert.Equal(t, oracleC, submissions[0].Oracle)
	assert.Equal(t, uint8(7), submissions[0].Index)
}

func TestRelayIsolatesPerWorkerFailures(t *testing.T) {
	fixture := startRelay(t)
	fixture.backend.mu.Lock()
	fixture.backend.submitErrs[oracleA] = errors.New("quorum already reached")
	fixture.backend.mu.Unlock()

	fixture.source.emit(oracleRequest(3))
	// A second request on another index still goes through.
	fixture.source.emit(oracleRequest(4))

	require.Eventually(t, func() bool {
		return len(fixture.backend.recordedSubmissions()) == 2
	}, time.Second, 5*time.Millisecond)

	for _, s := range fixture.backend.recordedSubmissions() {
		assert.Equal(t, oracleB, s.Oracle)
	}
}

func TestRelayIgnoresNonRequestEvents(t *testing.T) {
	fixture := startRelay(t)

	fixture.source.emit(event.FlightStatusInfo{
		Airline:   firstAirline,
		Flight:    "ND1309",
		Timestamp: big.NewInt(1700000000),
	})
	fixture.source.emit(oracleRequest(8))

	require.Eventually(t, func() bool {
		return len(fixture.backend.recordedSubmissions()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRelayStopsOnCancellation(t *testing.T) {
	fixture := startRelay(t)

	fixture.cancel()
	select {
	case err := <-fixture.done:
		assert.ErrorIs(t, err, context.Canceled)
		fixture.done <- err // keep cleanup drain happy
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRelayStopsOnSubscriptionError(t *testing.T) {
	fixture := startRelay(t)

	fixture.source.subErrs <- errors.New("websocket closed")
	select {
	case err := <-fixture.done:
		assert.ErrorContains(t, err, "websocket closed")
		fixture.done <- err
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
