package usecase

import (
	"context"
	"fmt"

	"flightsurety-relay/internal/domain/event"
	"flightsurety-relay/internal/domain/repository"
	"flightsurety-relay/pkg/logger"
	"flightsurety-relay/pkg/metrics"
)

// ConsensusRelay subscribes to the live event stream and answers every
// OracleRequest with one response per eligible pool worker. The relay keeps
// no per-request state: quorum is enforced by the backend, a late or
// mismatched submission simply comes back as a rejection for that worker.
type ConsensusRelay struct {
	source  repository.EventSource
	backend repository.SuretyBackend
	pool    *OraclePool
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewConsensusRelay creates a consensus relay; metrics are optional
func NewConsensusRelay(
	source repository.EventSource,
	backend repository.SuretyBackend,
	pool *OraclePool,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *ConsensusRelay {
	return &ConsensusRelay{
		source:  source,
		backend: backend,
		pool:    pool,
		logger:  logger,
		metrics: metrics,
	}
}

// Run subscribes and handles events in delivery order until the context is
// cancelled or the subscription fails
func (r *ConsensusRelay) Run(ctx context.Context) error {
	sink := make(chan event.Event, 64)
	sub, err := r.source.Subscribe(ctx, sink)
	if err != nil {
		return fmt.Errorf("subscribing to event stream: %w", err)
	}
	defer sub.Unsubscribe()

	r.logger.Info("Consensus relay started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("event subscription failed: %w", err)
		case evt := <-sink:
			r.handle(ctx, evt)
		}
	}
}

// handle dispatches one delivered event; only OracleRequest acts
func (r *ConsensusRelay) handle(ctx context.Context, evt event.Event) {
	request, ok := evt.(event.OracleRequest)
	if !ok {
		return
	}

	eligible := r.pool.Eligible(request.Index)
	r.logger.Info("Oracle request received",
		"index", request.Index,
		"flight", request.Flight,
		"eligible", len(eligible),
	)

	for _, oracle := range eligible {
		err := r.backend.SubmitOracleResponse(
			ctx,
			oracle.Address,
			request.Index,
			request.Airline,
			request.Flight,
			request.Timestamp,
			oracle.StatusCode,
		)
		if err != nil {
			// Per-worker failure: siblings still submit.
			r.logger.Error("Oracle response rejected",
				"oracle", oracle.Address.Hex(),
				"flight", request.Flight,
				"error", err,
			)
			if r.metrics != nil {
				r.metrics.ErrorsCount.WithLabelValues("submit_oracle_response").Inc()
			}
			continue
		}

		if r.metrics != nil {
			r.metrics.OracleResponses.Inc()
		}
		r.logger.Debug("Oracle response submitted",
			"oracle", oracle.Address.Hex(),
			"flight", request.Flight,
			"status", oracle.StatusCode,
		)
	}
}
