package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/event"
	"flightsurety-relay/internal/domain/fault"
	"flightsurety-relay/internal/domain/repository"
	"flightsurety-relay/pkg/logger"
	"flightsurety-relay/pkg/metrics"
)

// StateRebuilder folds the ordered event log into in-memory collections of
// airlines, flights and passenger wallets. The event log is the single
// source of truth: every rebuild starts from genesis and replaces the
// previous snapshot atomically. A failed rebuild keeps the previous
// snapshot; partial state is never exposed.
type StateRebuilder struct {
	source    repository.EventSource
	snapshots repository.SnapshotRepository
	logger    logger.Logger
	metrics   *metrics.Metrics

	mu       sync.RWMutex
	snapshot *entity.Snapshot
}

// NewStateRebuilder creates a state rebuilder. The snapshot repository and
// metrics are optional; pass nil to skip mirroring and instrumentation.
func NewStateRebuilder(
	source repository.EventSource,
	snapshots repository.SnapshotRepository,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *StateRebuilder {
	return &StateRebuilder{
		source:    source,
		snapshots: snapshots,
		logger:    logger,
		metrics:   metrics,
	}
}

// Rebuild fetches the full event log and folds it into a fresh snapshot.
// Any fetch or fold failure surfaces as a single RebuildFailure and leaves
// the previously published snapshot untouched.
func (r *StateRebuilder) Rebuild(ctx context.Context) error {
	start := time.Now()

	events, err := r.source.PastEvents(ctx)
	if err != nil {
		return &fault.RebuildFailure{Err: fmt.Errorf("fetching event log: %w", err)}
	}

	state := newLedgerState(r.logger)
	for _, evt := range events {
		if err := state.apply(evt); err != nil {
			return &fault.RebuildFailure{Err: err}
		}
		if r.metrics != nil {
			r.metrics.EventsReplayed.Inc()
		}
	}

	snapshot := state.snapshot()

	r.mu.Lock()
	r.snapshot = snapshot
	r.mu.Unlock()

	if r.metrics != nil {
		r.metrics.RebuildDuration.Observe(time.Since(start).Seconds())
	}

	r.logger.Info("State rebuilt",
		"events", len(events),
		"airlines", len(snapshot.Airlines),
		"flights", len(snapshot.Flights),
		"wallets", len(snapshot.Wallets),
	)

	// The projection mirror is best effort; the in-memory snapshot is
	// already published.
	if r.snapshots != nil {
		if err := r.snapshots.SaveSnapshot(ctx, r.Snapshot()); err != nil {
			r.logger.Warn("Failed to mirror snapshot", "error", err)
		}
	}

	return nil
}

// Snapshot returns a deep copy of the current state, or an empty snapshot
// if no rebuild has succeeded yet
func (r *StateRebuilder) Snapshot() *entity.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := &entity.Snapshot{}
	if r.snapshot == nil {
		return copied
	}

	for _, a := range r.snapshot.Airlines {
		dup := *a
		copied.Airlines = append(copied.Airlines, &dup)
	}
	for _, f := range r.snapshot.Flights {
		copied.Flights = append(copied.Flights, f.Copy())
	}
	for _, w := range r.snapshot.Wallets {
		copied.Wallets = append(copied.Wallets, w.Copy())
	}

	return copied
}

// Airlines returns a copy of the rebuilt airline collection
func (r *StateRebuilder) Airlines() []*entity.Airline {
	return r.Snapshot().Airlines
}

// Flights returns a copy of the rebuilt flight collection
func (r *StateRebuilder) Flights() []*entity.Flight {
	return r.Snapshot().Flights
}

// Wallets returns a copy of the rebuilt passenger wallet collection
func (r *StateRebuilder) Wallets() []*entity.PassengerWallet {
	return r.Snapshot().Wallets
}

// ledgerState is the working state of a single fold. It is discarded on
// failure and promoted to the published snapshot on success.
type ledgerState struct {
	airlines []*entity.Airline
	flights  []*entity.Flight
	wallets  []*entity.PassengerWallet
	logger   logger.Logger
}

func newLedgerState(logger logger.Logger) *ledgerState {
	return &ledgerState{logger: logger}
}

func (s *ledgerState) snapshot() *entity.Snapshot {
	return &entity.Snapshot{
		Airlines: s.airlines,
		Flights:  s.flights,
		Wallets:  s.wallets,
	}
}

// apply folds one event into the state. Reconciliation gaps are either
// tolerated (logged and skipped) or fatal, per event kind.
func (s *ledgerState) apply(evt event.Event) error {
	switch e := evt.(type) {
	case event.FirstAirlineRegistered:
		s.insertAirline(e.Airline, true)

	case event.AirlineRegistered:
		s.insertAirline(e.Airline, false)

	case event.AirlineFeeConfirmed:
		airline := s.airlineByAddress(e.Airline)
		if airline == nil {
			s.logger.Warn("Fee confirmed for unknown airline", "airline", e.Airline.Hex())
			return nil
		}
		airline.FeePaid = true

	case event.FlightRegistered:
		if s.flightByKey(e.Key) != nil {
			return &fault.Inconsistency{
				Event:  string(e.Kind()),
				Detail: fmt.Sprintf("duplicate flight key %s", e.Key.Hex()),
			}
		}
		s.flights = append(s.flights, entity.NewFlight(e.Airline, e.Flight, e.Key, e.Timestamp))

	case event.FlightStatusInfo:
		// Status updates are matched on the flight number alone, not the
		// full key; flights sharing a number receive the same update.
		flight := s.flightByNumber(e.Flight)
		if flight == nil {
			s.logger.Debug("Status info for unknown flight", "flight", e.Flight)
			return nil
		}
		flight.StatusCode = e.Status

	case event.InsurancePurchased:
		flight := s.flightByKey(e.Key)
		if flight == nil {
			return &fault.Inconsistency{
				Event:  string(e.Kind()),
				Detail: fmt.Sprintf("no flight with key %s", e.Key.Hex()),
			}
		}
		if flight.PassengerByAddress(e.Passenger) != nil {
			s.logger.Warn("Duplicate insurance purchase",
				"passenger", e.Passenger.Hex(), "flight", flight.FlightNumber)
			return nil
		}
		if !flight.AcceptsInsurance() {
			return &fault.Inconsistency{
				Event:  string(e.Kind()),
				Detail: fmt.Sprintf("flight %s is no longer open (status %s)", flight.FlightNumber, flight.StatusCode),
			}
		}
		flight.Passengers = append(flight.Passengers,
			entity.NewPassenger(e.Passenger, flight.FlightNumber, e.Amount))

	case event.LateInsuranceProcessed:
		flight := s.flightByKey(e.Key)
		if flight == nil {
			s.logger.Warn("Late-insurance event for unknown flight", "key", e.Key.Hex())
			return nil
		}
		if flight.PaidOut {
			return nil
		}
		for _, passenger := range flight.Passengers {
			wallet := s.walletByAddress(passenger.Address)
			if wallet == nil {
				wallet = entity.NewPassengerWallet(passenger.Address)
				s.wallets = append(s.wallets, wallet)
			}
			wallet.Credit(passenger.InsuredAmount)
		}
		flight.PaidOut = true

	case event.WithdrawalConfirmed:
		wallet := s.walletByAddress(e.Passenger)
		if wallet == nil {
			return nil
		}
		wallet.Reset()

	case event.OracleRequest, event.OracleReport:
		// Consumed by the relay, no state change here.

	default:
		s.logger.Warn("Unhandled event kind", "kind", evt.Kind())
	}

	return nil
}

func (s *ledgerState) insertAirline(address common.Address, isFirst bool) {
	if s.airlineByAddress(address) != nil {
		return
	}
	s.airlines = append(s.airlines, entity.NewAirline(address, isFirst))
}

func (s *ledgerState) airlineByAddress(address common.Address) *entity.Airline {
	for _, a := range s.airlines {
		if a.Address == address {
			return a
		}
	}
	return nil
}

func (s *ledgerState) flightByKey(key common.Hash) *entity.Flight {
	for _, f := range s.flights {
		if f.Key == key {
			return f
		}
	}
	return nil
}

func (s *ledgerState) flightByNumber(flightNumber string) *entity.Flight {
	for _, f := range s.flights {
		if f.FlightNumber == flightNumber {
			return f
		}
	}
	return nil
}

func (s *ledgerState) walletByAddress(address common.Address) *entity.PassengerWallet {
	for _, w := range s.wallets {
		if w.Address == address {
			return w
		}
	}
	return nil
}
