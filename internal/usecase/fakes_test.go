package usecase_test

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethevent "github.com/ethereum/go-ethereum/event"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/event"
)

// fakeEventSource serves a fixed historical log and hands live events to
// whatever channel the subscriber registered
type fakeEventSource struct {
	mu       sync.Mutex
	events   []event.Event
	fetchErr error
	sink     chan<- event.Event
	subErrs  chan error
}

func newFakeEventSource(events ...event.Event) *fakeEventSource {
	return &fakeEventSource{
		events:  events,
		subErrs: make(chan error, 1),
	}
}

func (s *fakeEventSource) PastEvents(ctx context.Context) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return append([]event.Event(nil), s.events...), nil
}

func (s *fakeEventSource) Subscribe(ctx context.Context, sink chan<- event.Event) (ethevent.Subscription, error) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
	return &fakeSubscription{errs: s.subErrs}, nil
}

func (s *fakeEventSource) emit(evt event.Event) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	sink <- evt
}

type fakeSubscription struct {
	errs chan error
	once sync.Once
}

func (s *fakeSubscription) Err() <-chan error { return s.errs }

func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.errs) })
}

// submission records one SubmitOracleResponse call
type submission struct {
	Oracle common.Address
	Index  uint8
	Flight string
	Status entity.StatusCode
}

// fakeBackend is an in-memory SuretyBackend double. All fields are guarded
// so relay goroutines and test assertions can touch it concurrently.
type fakeBackend struct {
	mu sync.Mutex

	fee        *big.Int
	feeErr     error
	registered map[common.Address]bool
	indexes    map[common.Address][3]uint8

	registerCalls []common.Address
	registerErrs  map[common.Address]error

	submissions []submission
	submitErrs  map[common.Address]error

	airlineCalls []common.Address
	insureCalls  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		fee:          big.NewInt(1),
		registered:   map[common.Address]bool{},
		indexes:      map[common.Address][3]uint8{},
		registerErrs: map[common.Address]error{},
		submitErrs:   map[common.Address]error{},
	}
}

func (b *fakeBackend) IsOperational(ctx context.Context) (bool, error) { return true, nil }

func (b *fakeBackend) RegistrationFee(ctx context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.feeErr != nil {
		return nil, b.feeErr
	}
	return new(big.Int).Set(b.fee), nil
}

func (b *fakeBackend) OracleCount(ctx context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, ok := range b.registered {
		if ok {
			count++
		}
	}
	return big.NewInt(int64(count)), nil
}

func (b *fakeBackend) IsOracleRegistered(ctx context.Context, oracle common.Address) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registered[oracle], nil
}

func (b *fakeBackend) OracleIndexes(ctx context.Context, oracle common.Address) ([3]uint8, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	indexes, ok := b.indexes[oracle]
	if !ok {
		return [3]uint8{}, errors.New("oracle has no indexes")
	}
	return indexes, nil
}

func (b *fakeBackend) RegisterOracle(ctx context.Context, oracle common.Address, fee *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registerCalls = append(b.registerCalls, oracle)
	if err := b.registerErrs[oracle]; err != nil {
		return err
	}
	b.registered[oracle] = true
	return nil
}

func (b *fakeBackend) SubmitOracleResponse(ctx context.Context, oracle common.Address, index uint8, airline common.Address, flight string, timestamp *big.Int, status entity.StatusCode) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.submitErrs[oracle]; err != nil {
		return err
	}
	b.submissions = append(b.submissions, submission{
		Oracle: oracle,
		Index:  index,
		Flight: flight,
		Status: status,
	})
	return nil
}

func (b *fakeBackend) RegisterAirline(ctx context.Context, from, airline common.Address) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.airlineCalls = append(b.airlineCalls, airline)
	return nil
}

func (b *fakeBackend) PayAirlineRegistrationFee(ctx context.Context, airline common.Address, amount *big.Int) error {
	return nil
}

func (b *fakeBackend) RegisterFlight(ctx context.Context, airline common.Address, flight string, timestamp *big.Int) error {
	return nil
}

func (b *fakeBackend) InsurePassenger(ctx context.Context, passenger, airline common.Address, flight string, timestamp, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insureCalls = append(b.insureCalls, flight)
	return nil
}

func (b *fakeBackend) FetchFlightStatus(ctx context.Context, from, airline common.Address, flight string, timestamp *big.Int) error {
	return nil
}

func (b *fakeBackend) WithdrawBalance(ctx context.Context, passenger common.Address) error {
	return nil
}

func (b *fakeBackend) registerCallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.registerCalls)
}

func (b *fakeBackend) recordedSubmissions() []submission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]submission(nil), b.submissions...)
}

// fakeRoster is an in-memory OracleRosterRepository double
type fakeRoster struct {
	mu      sync.Mutex
	oracles map[common.Address]*entity.Oracle
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{oracles: map[common.Address]*entity.Oracle{}}
}

func (r *fakeRoster) FindAll(ctx context.Context) ([]*entity.Oracle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.Oracle
	for _, oracle := range r.oracles {
		dup := *oracle
		all = append(all, &dup)
	}
	return all, nil
}

func (r *fakeRoster) Upsert(ctx context.Context, oracle *entity.Oracle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := *oracle
	r.oracles[oracle.Address] = &dup
	return nil
}

// fakeRand replays a fixed sequence of draws
type fakeRand struct {
	vals []int
	next int
}

func (r *fakeRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.next%len(r.vals)] % n
	r.next++
	return v
}
