package usecase

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"flightsurety-relay/internal/domain/entity"
	"flightsurety-relay/internal/domain/repository"
	"flightsurety-relay/pkg/logger"
	"flightsurety-relay/pkg/metrics"
)

// Rand is the randomness source used to draw simulated status codes;
// *rand.Rand satisfies it, tests inject a deterministic one
type Rand interface {
	Intn(n int) int
}

// statusWeights is the discrete distribution of simulated flight outcomes
// each worker is assigned at registration. Late-airline dominates so that
// payouts are actually exercised.
var statusWeights = []struct {
	Code   entity.StatusCode
	Weight int
}{
	{entity.StatusOnTime, 1},
	{entity.StatusLateAirline, 7},
	{entity.StatusLateWeather, 1},
	{entity.StatusLateTechnical, 1},
	{entity.StatusLateOther, 1},
}

// OraclePool maintains the roster of oracle workers: it registers candidate
// addresses against the backend exactly once, records the partition indexes
// the backend assigned, and gives every worker a simulated status code to
// report.
type OraclePool struct {
	backend repository.SuretyBackend
	roster  repository.OracleRosterRepository
	rand    Rand
	pause   time.Duration
	logger  logger.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	oracles []*entity.Oracle
}

// NewOraclePool creates an oracle pool. The roster repository and metrics
// are optional; pause is the delay between registration steps.
func NewOraclePool(
	backend repository.SuretyBackend,
	roster repository.OracleRosterRepository,
	rand Rand,
	pause time.Duration,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *OraclePool {
	return &OraclePool{
		backend: backend,
		roster:  roster,
		rand:    rand,
		pause:   pause,
		logger:  logger,
		metrics: metrics,
	}
}

// EnsureRegistered registers every candidate address as an oracle exactly
// once, strictly one at a time with an inter-step pause. A failure for one
// address is logged and never aborts the remaining addresses. Returns an
// error only when the fee cannot be read or the context is cancelled.
func (p *OraclePool) EnsureRegistered(ctx context.Context, addresses []common.Address) error {
	fee, err := p.backend.RegistrationFee(ctx)
	if err != nil {
		return fmt.Errorf("reading registration fee: %w", err)
	}

	remembered := p.loadRemembered(ctx)

	for _, address := range addresses {
		if err := p.sleep(ctx); err != nil {
			return err
		}

		registered, err := p.backend.IsOracleRegistered(ctx, address)
		if err != nil {
			p.logger.Error("Failed to check oracle registration", "oracle", address.Hex(), "error", err)
			continue
		}

		if !registered {
			p.registerNew(ctx, address, fee)
			continue
		}

		if p.byAddress(address) != nil {
			continue
		}

		p.logger.Info("Oracle already registered, skipping registration", "oracle", address.Hex())
		p.adoptRegistered(ctx, address, remembered[address])
	}

	return nil
}

// registerNew submits a registration paying the fee and adds the worker to
// the roster with its backend-assigned indexes
func (p *OraclePool) registerNew(ctx context.Context, address common.Address, fee *big.Int) {
	if err := p.backend.RegisterOracle(ctx, address, fee); err != nil {
		p.logger.Error("Error during oracle registration", "oracle", address.Hex(), "error", err)
		if p.metrics != nil {
			p.metrics.ErrorsCount.WithLabelValues("register_oracle").Inc()
		}
		return
	}

	indexes, err := p.backend.OracleIndexes(ctx, address)
	if err != nil {
		p.logger.Error("Failed to fetch indexes for registered oracle", "oracle", address.Hex(), "error", err)
		return
	}

	oracle := &entity.Oracle{
		Address:      address,
		Indexes:      indexes,
		StatusCode:   p.drawStatus(),
		IsRegistered: true,
	}
	p.add(ctx, oracle)
	p.logger.Info("Registered oracle", "oracle", address.Hex(), "indexes", indexes, "status", oracle.StatusCode)
}

// adoptRegistered adds an already-registered worker that is missing from
// the in-memory roster, reusing its remembered status code when one exists
func (p *OraclePool) adoptRegistered(ctx context.Context, address common.Address, remembered *entity.Oracle) {
	indexes, err := p.backend.OracleIndexes(ctx, address)
	if err != nil {
		p.logger.Error("Failed to fetch oracle indexes", "oracle", address.Hex(), "error", err)
		return
	}

	status := p.drawStatus()
	if remembered != nil {
		status = remembered.StatusCode
	}

	oracle := &entity.Oracle{
		Address:      address,
		Indexes:      indexes,
		StatusCode:   status,
		IsRegistered: true,
	}
	p.add(ctx, oracle)
}

// Eligible returns the workers assigned the given partition index
func (p *OraclePool) Eligible(index uint8) []*entity.Oracle {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var eligible []*entity.Oracle
	for _, oracle := range p.oracles {
		if oracle.IsAssigned(index) {
			eligible = append(eligible, oracle)
		}
	}
	return eligible
}

// Roster returns a copy of the in-memory roster
func (p *OraclePool) Roster() []*entity.Oracle {
	p.mu.RLock()
	defer p.mu.RUnlock()

	roster := make([]*entity.Oracle, len(p.oracles))
	copy(roster, p.oracles)
	return roster
}

func (p *OraclePool) add(ctx context.Context, oracle *entity.Oracle) {
	p.mu.Lock()
	p.oracles = append(p.oracles, oracle)
	count := len(p.oracles)
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.RegisteredOracles.Set(float64(count))
	}

	if p.roster != nil {
		if err := p.roster.Upsert(ctx, oracle); err != nil {
			p.logger.Warn("Failed to persist oracle", "oracle", oracle.Address.Hex(), "error", err)
		}
	}
}

func (p *OraclePool) byAddress(address common.Address) *entity.Oracle {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, oracle := range p.oracles {
		if oracle.Address == address {
			return oracle
		}
	}
	return nil
}

// loadRemembered reads previously persisted oracles, keyed by address
func (p *OraclePool) loadRemembered(ctx context.Context) map[common.Address]*entity.Oracle {
	remembered := map[common.Address]*entity.Oracle{}
	if p.roster == nil {
		return remembered
	}

	persisted, err := p.roster.FindAll(ctx)
	if err != nil {
		p.logger.Warn("Failed to load persisted roster", "error", err)
		return remembered
	}

	for _, oracle := range persisted {
		remembered[oracle.Address] = oracle
	}
	return remembered
}

// drawStatus samples the weighted outcome table
func (p *OraclePool) drawStatus() entity.StatusCode {
	total := 0
	for _, entry := range statusWeights {
		total += entry.Weight
	}

	n := p.rand.Intn(total)
	for _, entry := range statusWeights {
		if n < entry.Weight {
			return entry.Code
		}
		n -= entry.Weight
	}
	return entity.StatusLateAirline
}

// sleep pauses between registration steps, honoring cancellation
func (p *OraclePool) sleep(ctx context.Context) error {
	if p.pause <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.pause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
